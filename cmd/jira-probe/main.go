// jira-probe exercises a live Jira site end to end: the authenticated user,
// projects, boards and, given an issue, its board field selection.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/h0rv/jira-mcp/internal/auth"
	"github.com/h0rv/jira-mcp/internal/board"
	"github.com/h0rv/jira-mcp/internal/bridge"
	"github.com/h0rv/jira-mcp/internal/config"
	"github.com/h0rv/jira-mcp/internal/jira"
	"github.com/spf13/cobra"
)

var (
	configFlag  string
	projectFlag string
	issueFlag   string
	boardFlag   int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "jira-probe",
		Short: "Check connectivity and field selection against a live Jira site",
		Args:  cobra.NoArgs,
		Run:   run,
	}
	rootCmd.Flags().StringVar(&configFlag, "config", "", "Path to a YAML config file")
	rootCmd.Flags().StringVar(&projectFlag, "project", "", "Project key to list boards for (default: first project)")
	rootCmd.Flags().StringVar(&issueFlag, "issue", "", "Issue key to select board fields for")
	rootCmd.Flags().Int64Var(&boardFlag, "board", 0, "Board id (default: first board of the project)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	creds, err := auth.GetCredentials(cfg.CredentialProviders()...)
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client, err := jira.New(jira.Config{BaseURL: cfg.BaseURL, Credentials: creds, Logger: logger})
	if err != nil {
		log.Fatal(err)
	}
	rc := &bridge.Context{
		API:     client,
		Logger:  logger,
		BaseURL: client.BaseURL(),
		Options: bridge.Options{MaxPageSize: cfg.MaxPageSize, SampleSize: cfg.BoardSampleSize},
	}

	ctx := cmd.Context()

	me, err := client.Myself(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("User: %s (%s)\n\n", me.DisplayName, me.AccountID)

	projects, err := bridge.ListProjects(ctx, rc, 50)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Projects (%d):\n", len(projects))
	for _, p := range projects {
		fmt.Printf("  %s: %s\n", p.Key, p.Name)
	}

	projectKey := projectFlag
	if projectKey == "" {
		if len(projects) == 0 {
			return
		}
		projectKey = projects[0].Key
	}

	boards, err := bridge.ListBoards(ctx, rc, projectKey, 50)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nBoards in %s (%d):\n", projectKey, len(boards))
	for _, b := range boards {
		fmt.Printf("  #%d: %s (%s)\n", b.ID, b.Name, b.Type)
	}

	boardID := boardFlag
	if boardID == 0 && len(boards) > 0 {
		boardID = boards[0].ID
	}
	if issueFlag == "" || boardID == 0 {
		return
	}

	probeIssue(ctx, rc, issueFlag, boardID)
}

func probeIssue(ctx context.Context, rc *bridge.Context, key string, boardID int64) {
	view, err := bridge.BuildIssueView(ctx, rc, key, 0)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\n%s has %d fields (flagged=%v)\n", view.Key, len(view.Fields), view.Flagged)

	keys, err := bridge.ComputeBoardFieldKeys(ctx, rc, view, boardID)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Board #%d keeps %d:\n", boardID, len(keys))
	for _, id := range board.Sorted(keys) {
		fmt.Printf("  %-24s %s\n", id, view.Fields[id].Name)
	}
}
