package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studypal/internal/assistant"
	"github.com/abhisek/studypal/internal/progress"
	"github.com/abhisek/studypal/internal/strategy"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive tutoring session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		sess, err := newSession(ctx, cmd, false)
		if err != nil {
			return err
		}
		defer sess.Close()

		a := sess.Assistant

		fmt.Println("StudyPal: ask me anything, and I'll help you figure it out yourself.")
		fmt.Println("Commands: /hint  /strategy <name>  /stats  /status  /reset  /quit")
		fmt.Println()

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("you> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if ctx.Err() != nil {
				break
			}

			switch {
			case line == "/quit" || line == "/exit":
				a.ResetSession(ctx)
				fmt.Println("Keep learning! 👋")
				return nil

			case line == "/hint":
				printAnswer(a.RequestHint(ctx))

			case line == "/stats":
				printStats(a.SessionStats())

			case line == "/status":
				fmt.Println(a.CheckModel(ctx).Message)
				fmt.Println(a.CheckRemote(ctx).Message)

			case line == "/reset":
				a.ResetSession(ctx)
				fmt.Println("Session reset. Fresh start!")

			case strings.HasPrefix(line, "/strategy"):
				setStrategy(a, strings.TrimSpace(strings.TrimPrefix(line, "/strategy")))

			default:
				// "/help" falls through to the chain's help handler.
				printAnswer(a.ProcessQuestion(ctx, strings.TrimPrefix(line, "/")))
			}
		}
		return scanner.Err()
	},
}

func printAnswer(ans *assistant.Answer) {
	if ans.Metadata.Error == "cancelled" {
		fmt.Println("(cancelled)")
		return
	}

	fmt.Printf("\n%s\n\n", ans.Response)
	if ans.Metadata.RequiresAI {
		fmt.Printf("  [%s · %s", ans.Metadata.QuestionType, ans.Metadata.Strategy)
		if ans.Metadata.HintCount > 0 {
			fmt.Printf(" · hint %d", ans.Metadata.HintCount)
		}
		fmt.Println("]")
	}
}

func printStats(stats progress.Stats) {
	fmt.Printf("Questions asked:  %d\n", stats.TotalQuestions)
	fmt.Printf("Hints requested:  %d\n", stats.HintsRequested)

	if len(stats.QuestionsByType) > 0 {
		fmt.Println("By type:")
		types := make([]string, 0, len(stats.QuestionsByType))
		for qt := range stats.QuestionsByType {
			types = append(types, qt)
		}
		sort.Strings(types)
		for _, qt := range types {
			fmt.Printf("  %-12s %d\n", qt, stats.QuestionsByType[qt])
		}
	}
	if len(stats.StrategiesUsed) > 0 {
		fmt.Println("Strategies:")
		names := make([]string, 0, len(stats.StrategiesUsed))
		for n := range stats.StrategiesUsed {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Printf("  %-26s %d\n", n, stats.StrategiesUsed[n])
		}
	}
}

func setStrategy(a *assistant.Assistant, name string) {
	if name == "" || name == "auto" {
		a.ClearStrategyOverride()
		fmt.Println("Strategy: automatic")
		return
	}

	s := strategy.Strategy(name)
	switch s {
	case strategy.Socratic, strategy.HintBased, strategy.Conceptual, strategy.ProblemDecomposition:
		a.OverrideStrategy(s)
		fmt.Printf("Strategy pinned: %s\n", s.DisplayName())
	default:
		fmt.Printf("Unknown strategy %q. Choose one of: socratic, hint_based, conceptual, problem_decomposition, auto\n", name)
	}
}
