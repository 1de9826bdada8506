package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studypal/internal/store"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect recorded events",
}

var eventsProgressCmd = &cobra.Command{
	Use:   "progress",
	Short: "List recent progress events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		sessionID, _ := cmd.Flags().GetString("session")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		events, err := s.EventRepo().QueryProgressEvents(context.Background(), store.QueryOpts{
			Limit:     limit,
			SessionID: sessionID,
		})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No progress events found.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-16s  %-36s  %s\n",
			"ID", "Timestamp", "Type", "Session", "Summary")
		fmt.Println(strings.Repeat("─", 110))

		for _, e := range events {
			summary := e.Summary
			if summary == "" {
				summary = e.Question
			}
			if len(summary) > 40 {
				summary = summary[:40]
			}
			fmt.Printf("%-5d  %-19s  %-16s  %-36s  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.EventType,
				e.SessionID,
				summary,
			)
		}
		return nil
	},
}

var eventsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "List recent model request events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No model request events found.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-10s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 100))

		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			model := e.Model
			if len(model) > 28 {
				model = model[:28]
			}
			fmt.Printf("%-5d  %-19s  %-10s  %-28s  %-6d  %-6d  %-7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				model,
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

func init() {
	eventsProgressCmd.Flags().Int("limit", 20, "Maximum events to show")
	eventsProgressCmd.Flags().String("session", "", "Filter by session id")
	eventsLLMCmd.Flags().Int("limit", 20, "Maximum events to show")

	eventsCmd.AddCommand(eventsProgressCmd)
	eventsCmd.AddCommand(eventsLLMCmd)
}
