package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print the active question catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := resolveCatalog(cmd)
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n", c.Title(), c.Version())
		fmt.Println(strings.Repeat("─", 72))

		for i, q := range c.Questions() {
			tags := c.CategoryLabel(q.Category)
			if q.Role != "" {
				tags += ", " + string(q.Role)
			}
			fmt.Printf("%2d. %s  [%s]\n", i+1, q.Prompt, tags)
			for _, o := range q.Options {
				fmt.Printf("      %-40s %-16s %d\n", o.Label, o.Value, o.Score)
			}
			fmt.Println()
		}

		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%d questions, max score %d\n", c.Len(), c.MaxScore())
		return nil
	},
}
