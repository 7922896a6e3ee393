package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print the question catalog",
	Long: `Print the question catalog in the order the wizard asks it.

With --questions the file is loaded and validated first, which makes this a
quick check for a custom catalog.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog(loadConfig())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSECTION\tOPT\tQUESTION")
		for _, q := range catalog.Questions() {
			opt := ""
			if q.Optional {
				opt = "yes"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", q.ID, q.Section, opt, q.Text)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%d questions, %d optional\n", catalog.Len(), catalog.OptionalCount())
		return nil
	},
}
