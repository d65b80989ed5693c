package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"

	"github.com/h0rv/jira-mcp/internal/bridge"
	"github.com/h0rv/jira-mcp/internal/fields"
	"github.com/h0rv/jira-mcp/internal/mcpserver"
	"github.com/h0rv/jira-mcp/internal/render"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve Jira tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := mcpserver.New(a.rc, version).Run(ctx); err != nil && ctx.Err() == nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
}

func newIssueCmd() *cobra.Command {
	var (
		boardID int64
		asJSON  bool
		open    bool
		width   int
	)

	cmd := &cobra.Command{
		Use:   "issue KEY",
		Short: "Show one issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			view, err := bridge.BuildIssueView(cmd.Context(), a.rc, args[0], boardID)
			if err != nil {
				return err
			}

			if asJSON {
				if err := printJSON(view); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), render.Issue(view, width))
			}

			if open {
				if err := browser.OpenURL(view.URL); err != nil {
					return fmt.Errorf("failed to open %s: %w", view.URL, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&boardID, "board", 0, "Show only the fields relevant to this board")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the issue view as JSON")
	cmd.Flags().BoolVar(&open, "open", false, "Open the issue in a browser")
	cmd.Flags().IntVar(&width, "width", render.DefaultWidth, "Wrap width for text output")
	return cmd
}

func newFieldsCmd() *cobra.Command {
	var requiredOnly bool

	cmd := &cobra.Command{
		Use:   "fields PROJECT ISSUE_TYPE",
		Short: "List the fields available when creating an issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			out, err := bridge.ListFields(cmd.Context(), a.rc, args[0], args[1], fields.Filter{RequiredOnly: requiredOnly})
			if err != nil {
				return err
			}

			ids := make([]string, 0, len(out))
			for id := range out {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", id, out[id])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&requiredOnly, "required", false, "List only required fields")
	return cmd
}

func newSiteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "site",
		Short: "Show the Jira site and authenticated user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			return printSite(cmd.Context(), a)
		},
	}
}

func printSite(ctx context.Context, a *app) error {
	info, err := a.client.SiteInfo(ctx)
	if err != nil {
		return fmt.Errorf("failed to get site info: %w", err)
	}
	me, err := a.client.Myself(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	fmt.Printf("Site:    %s\n", info.BaseURL)
	fmt.Printf("Title:   %s\n", info.ServerTitle)
	fmt.Printf("Version: %s (%s)\n", info.Version, info.DeploymentType)
	if info.CloudID != "" {
		fmt.Printf("Cloud:   %s\n", info.CloudID)
	}
	fmt.Printf("User:    %s (%s)\n", me.DisplayName, strconv.Quote(me.AccountID))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
