package jira

import (
	"context"
	"fmt"

	"github.com/machinebox/graphql"
	"github.com/tidwall/gjson"
)

// SiteInfo describes the Jira site the client is bound to.
type SiteInfo struct {
	BaseURL        string `json:"base_url"`
	Host           string `json:"host"`
	CloudID        string `json:"cloud_id,omitempty"`
	Version        string `json:"version,omitempty"`
	DeploymentType string `json:"deployment_type,omitempty"`
	ServerTitle    string `json:"server_title,omitempty"`
}

// makeGatewayRequest executes a GraphQL request against the Atlassian gateway
// with the client's credentials.
func (c *Client) makeGatewayRequest(ctx context.Context, req *graphql.Request, resp interface{}) error {
	req.Header.Set("Authorization", c.creds.AuthorizationHeader())
	req.Header.Set("User-Agent", userAgent)
	return c.gql.Run(ctx, req, resp)
}

// CloudID looks up the site's cloud id through the Atlassian GraphQL gateway.
func (c *Client) CloudID(ctx context.Context) (string, error) {
	req := graphql.NewRequest(`
		query($hosts: [String!]!) {
			tenantContexts(hostNames: $hosts) {
				cloudId
			}
		}
	`)
	req.Var("hosts", []string{c.baseURL.Host})

	var resp struct {
		TenantContexts []struct {
			CloudID string `json:"cloudId"`
		} `json:"tenantContexts"`
	}

	if err := c.makeGatewayRequest(ctx, req, &resp); err != nil {
		return "", fmt.Errorf("failed to look up cloud id: %w", err)
	}
	for _, t := range resp.TenantContexts {
		if t.CloudID != "" {
			return t.CloudID, nil
		}
	}
	return "", fmt.Errorf("no cloud id found for host %s", c.baseURL.Host)
}

// SiteInfo combines the REST server info with the gateway cloud id.
// A failed cloud id lookup is logged and leaves CloudID empty (Data Center
// sites have no gateway).
func (c *Client) SiteInfo(ctx context.Context) (SiteInfo, error) {
	info := SiteInfo{BaseURL: c.BaseURL(), Host: c.baseURL.Host}

	doc, err := c.ServerInfo(ctx)
	if err != nil {
		return SiteInfo{}, fmt.Errorf("failed to get server info: %w", err)
	}
	server := gjson.ParseBytes(doc)
	info.Version = server.Get("version").String()
	info.DeploymentType = server.Get("deploymentType").String()
	info.ServerTitle = server.Get("serverTitle").String()

	cloudID, err := c.CloudID(ctx)
	if err != nil {
		c.logger.Warn("cloud id lookup failed", "error", err)
	}
	info.CloudID = cloudID
	return info, nil
}
