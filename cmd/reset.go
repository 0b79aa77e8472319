package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard every in-progress assessment",
	Long:  "Discard every in-progress assessment. Completed results are kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		n, err := e.sessions.DeleteInProgress(cmd.Context())
		if err != nil {
			return fmt.Errorf("discard in-progress assessments: %w", err)
		}
		switch n {
		case 0:
			fmt.Println("No in-progress assessments.")
		case 1:
			fmt.Println("Discarded 1 in-progress assessment.")
		default:
			fmt.Printf("Discarded %d in-progress assessments.\n", n)
		}
		return nil
	},
}
