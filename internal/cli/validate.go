package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/information-sharing-networks/pkpass/pkg/pass"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <pass.json>",
	Short: "Validate a pass.json template",
	Long: `Validate a pass.json template without signing it. Every problem found is listed so the
template can be fixed in one go.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read pass template: %w", err)
		}

		p, err := pass.Parse(data)
		if err != nil {
			var verr *pass.ValidationError
			if errors.As(err, &verr) {
				for _, problem := range verr.Problems {
					fmt.Fprintf(cmd.OutOrStdout(), "✗ %s\n", problem)
				}
			}
			return err
		}

		appLogger.Debug("pass template is valid",
			slog.String("path", args[0]),
			slog.String("style", string(p.Style())),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is a valid %s pass with %d fields\n", args[0], p.Style(), len(p.Keys()))
		return nil
	},
}
