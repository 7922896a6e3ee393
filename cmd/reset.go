package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all stored submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		path, err := resolveDBPath(cfg)
		if err != nil {
			return err
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			ok, err := confirm(cmd, fmt.Sprintf("Delete every submission in %s?", path))
			if err != nil || !ok {
				return err
			}
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.SubmissionRepo().DeleteAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("delete submissions: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d submissions.\n", n)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

// confirm asks a y/N question on the command's input.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(cmd.OutOrStdout())
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
	return false, nil
}
