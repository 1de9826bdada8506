package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the model and remote backends",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		sess, err := newSession(ctx, cmd, false)
		if err != nil {
			return err
		}
		defer sess.Close()

		model := sess.Assistant.CheckModel(ctx)
		fmt.Println(model.Message)
		if model.Available && len(model.Models) > 0 {
			fmt.Println("Models:")
			for _, m := range model.Models {
				fmt.Printf("  %s\n", m)
			}
		}

		fmt.Println()
		fmt.Println(sess.Assistant.CheckRemote(ctx).Message)
		return nil
	},
}
