package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newImportCommand(flags *storeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import records from CSV or a JSON backup",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "csv <collection> <file>",
		Short: "Prepend the rows of a CSV file to a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			text, err := readInput(cmd.InOrStdin(), args[1])
			if err != nil {
				return err
			}
			svc, err := openService(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			n, err := svc.ImportCSV(cmd.Context(), kind, text)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d %s\n", n, kind)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "json <file>",
		Short: "Restore a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			svc, err := openService(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			report, err := svc.ImportJSON(cmd.Context(), text)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "applied: %s\n", joinOrNone(report.Applied)); err != nil {
				return err
			}
			if len(report.Skipped) > 0 {
				_, err = fmt.Fprintf(out, "skipped: %s\n", joinOrNone(report.Skipped))
			}
			return err
		},
	})
	return cmd
}

func joinOrNone(s []string) string {
	if len(s) == 0 {
		return "none"
	}
	return strings.Join(s, ", ")
}
