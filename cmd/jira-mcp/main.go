package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	// CLI flags
	configFlag   string
	baseURLFlag  string
	usernameFlag string
	tokenFlag    string
	logLevelFlag string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "jira-mcp",
		Short: "MCP server for Jira",
		Long: `jira-mcp exposes Jira issues, boards and projects as MCP tools.

Run 'jira-mcp serve' from an MCP client to serve tools over stdio.

Authentication (first match wins):
  1. --username and --token flags
  2. JIRA_USERNAME and JIRA_API_TOKEN environment variables
  3. auth.username and auth.token in the config file

The site URL comes from --base-url, JIRA_BASE_URL or base_url in the config file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFlag, "config", "", "Path to a YAML config file (default $JIRA_MCP_CONFIG)")
	flags.StringVar(&baseURLFlag, "base-url", "", "Jira site URL, e.g. https://example.atlassian.net")
	flags.StringVar(&usernameFlag, "username", "", "Account email for basic auth")
	flags.StringVar(&tokenFlag, "token", "", "API token")
	flags.StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(newServeCmd(), newIssueCmd(), newFieldsCmd(), newSiteCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
