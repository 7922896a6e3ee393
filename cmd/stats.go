package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/vastu/internal/questionnaire"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show submission statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(loadConfig())
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.SubmissionRepo().Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("compute stats: %w", err)
		}

		out := cmd.OutOrStdout()
		if stats.Total == 0 {
			fmt.Fprintln(out, "No submissions yet.")
			return nil
		}

		fmt.Fprintf(out, "Submissions:   %d\n", stats.Total)
		fmt.Fprintf(out, "Average score: %.1f%%\n", stats.AveragePercent)
		fmt.Fprintf(out, "Latest:        %s\n", stats.Latest.Local().Format("2006-01-02 15:04"))
		if stats.MailFailed > 0 {
			fmt.Fprintf(out, "Mail failures: %d\n", stats.MailFailed)
		}
		fmt.Fprintln(out)
		for _, g := range []questionnaire.Grade{
			questionnaire.GradeAPlus, questionnaire.GradeA, questionnaire.GradeB,
			questionnaire.GradeC, questionnaire.GradeD,
		} {
			n := stats.ByGrade[g]
			fmt.Fprintf(out, "  %-2s  %4d  %s\n", g, n, bar(n, stats.Total, 30))
		}
		return nil
	},
}

func bar(n, total, width int) string {
	if total == 0 {
		return ""
	}
	filled := n * width / total
	s := make([]rune, width)
	for i := range s {
		if i < filled {
			s[i] = '█'
		} else {
			s[i] = '·'
		}
	}
	return string(s)
}
