package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/agentdesk/internal/domain/model"
)

func newExportCommand(flags *storeFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export records as CSV or a JSON backup",
	}
	cmd.PersistentFlags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	cmd.AddCommand(&cobra.Command{
		Use:   "csv <collection>",
		Short: "Export one collection as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			svc, err := openService(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			text, err := svc.ExportCSV(kind)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, text)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "json",
		Short: "Export every collection and the branding as one backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := openService(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			text, err := svc.ExportJSON()
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, text)
		},
	})
	return cmd
}

func parseKind(s string) (model.Kind, error) {
	kind, ok := model.ParseKind(s)
	if !ok {
		return "", fmt.Errorf("unknown collection %q (want one of %v)", s, model.Kinds)
	}
	return kind, nil
}
