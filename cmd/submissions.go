package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/vastu/internal/questionnaire"
	"github.com/abhisek/vastu/internal/store"
)

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "Inspect results received by the notification service",
}

var submissionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		grade, _ := cmd.Flags().GetString("grade")

		opts := store.QueryOpts{Limit: limit}
		if grade != "" {
			g, err := parseGrade(grade)
			if err != nil {
				return err
			}
			opts.Grade = g
		}

		st, err := openStore(loadConfig())
		if err != nil {
			return err
		}
		defer st.Close()

		subs, err := st.SubmissionRepo().List(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query submissions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(subs) == 0 {
			fmt.Fprintln(out, "No submissions found.")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SEQ\tRECEIVED\tNAME\tEMAIL\tGRADE\tSCORE\tMAIL")
		for _, s := range subs {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d%%\t%s\n",
				s.Sequence,
				s.ReceivedAt.Local().Format("2006-01-02 15:04"),
				s.Name,
				s.Email,
				s.Grade,
				s.ScorePercent,
				s.MailStatus,
			)
		}
		return tw.Flush()
	},
}

var submissionsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one submission with its answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		catalog, err := loadCatalog(cfg)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		s, err := st.SubmissionRepo().Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get submission: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:        %s\n", s.ID)
		fmt.Fprintf(out, "Received:  %s\n", s.ReceivedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Name:      %s\n", s.Name)
		fmt.Fprintf(out, "Email:     %s\n", s.Email)
		if s.Phone != "" {
			fmt.Fprintf(out, "Phone:     %s\n", s.Phone)
		}
		fmt.Fprintf(out, "Grade:     %s (%d%%, %d of %d)\n", s.Grade, s.ScorePercent, s.UserScore, s.TotalAnswered)
		fmt.Fprintf(out, "Mail:      %s", s.MailStatus)
		if s.MailError != "" {
			fmt.Fprintf(out, " (%s)", s.MailError)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out)

		for _, q := range catalog.Questions() {
			a, ok := s.Answers.Get(q.ID)
			if !ok {
				continue
			}
			fmt.Fprintf(out, "%3d. %-16s %s\n", q.ID, a, q.Text)
		}
		return nil
	},
}

func init() {
	submissionsListCmd.Flags().Int("limit", 20, "Number of submissions to show")
	submissionsListCmd.Flags().String("grade", "", "Only show this grade (A+, A, B, C, D)")

	submissionsCmd.AddCommand(submissionsListCmd, submissionsViewCmd)
}

func parseGrade(s string) (questionnaire.Grade, error) {
	g := questionnaire.Grade(strings.ToUpper(strings.TrimSpace(s)))
	switch g {
	case questionnaire.GradeAPlus, questionnaire.GradeA, questionnaire.GradeB, questionnaire.GradeC, questionnaire.GradeD:
		return g, nil
	}
	return "", fmt.Errorf("invalid grade %q: must be A+, A, B, C or D", s)
}
