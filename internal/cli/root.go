package cli

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/information-sharing-networks/pkpass/internal/config"
	"github.com/information-sharing-networks/pkpass/internal/logger"
	"github.com/information-sharing-networks/pkpass/internal/version"
	"github.com/spf13/cobra"
)

var (
	cfg       *config.CLIEnvironment
	appLogger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:               "pkpass",
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	Short:             "Build, sign and verify wallet pass archives",
	Long: `pkpass builds signed wallet pass archives (.pkpass) from a pass.json template and a
directory of images and localizations, and verifies existing archives.

Signing material can be given with flags or with the environment variables
PASS_SIGNER_CERT_PATH, PASS_SIGNER_KEY_PATH and PASS_INTERMEDIATE_CERT_PATH.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.NewCLIConfig()
		if err != nil {
			log.Printf("failed to load configuration: %v", err.Error())
			return err
		}

		appLogger = logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)
		return nil
	},
}

func Execute() {
	v := version.Get()
	rootCmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(keygenCmd)
}

// firstNonEmpty returns the flag value if set, otherwise the configured value.
func firstNonEmpty(flag, configured string) string {
	if flag != "" {
		return flag
	}
	return configured
}
