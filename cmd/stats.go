package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/abhisek/studypal/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics across all sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		agg, err := s.EventRepo().Aggregate(context.Background())
		if err != nil {
			return fmt.Errorf("aggregate events: %w", err)
		}

		if agg.TotalQuestions == 0 {
			fmt.Println("No questions recorded yet. Start with: studypal chat")
			return nil
		}

		fmt.Printf("Sessions:         %d\n", agg.Sessions)
		fmt.Printf("Questions asked:  %d\n", agg.TotalQuestions)
		fmt.Printf("Hints requested:  %d\n", agg.HintsRequested)

		if len(agg.QuestionsByType) > 0 {
			fmt.Println("\nQuestions by type:")
			printCounts(agg.QuestionsByType)
		}
		if len(agg.StrategiesUsed) > 0 {
			fmt.Println("\nStrategies used:")
			printCounts(agg.StrategiesUsed)
		}
		return nil
	},
}

func printCounts(counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-26s %d\n", k, counts[k])
	}
}
