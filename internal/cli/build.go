package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/information-sharing-networks/pkpass/pkg/crypto"
	"github.com/information-sharing-networks/pkpass/pkg/pass"
	"github.com/information-sharing-networks/pkpass/pkg/pkpass"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build and sign a .pkpass archive",
	Long: `Build a signed .pkpass archive from a pass.json template and an assets directory.

The assets directory holds the images (icon.png, logo@2x.png, ...) and the localization
folders (en.lproj/pass.strings, ...). Hidden files are skipped.

Field values can be replaced with --set key=value. The value is parsed according to the
kind the field currently holds: numbers, dates (RFC 3339) and currency amounts keep their kind.

Examples:
  pkpass build --pass pass.json --assets ./assets --cert signer.pem --key signer.key \
    --intermediate intermediate.pem --output ticket.pkpass

  pkpass build --pass pass.json --assets ./assets --serial auto --set gate=B12 --output ticket.pkpass`,
	RunE: runBuild,
}

var (
	buildPassPath         string
	buildAssetsDir        string
	buildCertPath         string
	buildKeyPath          string
	buildIntermediatePath string
	buildOutputPath       string
	buildSerial           string
	buildSet              []string
	buildDeterministic    bool
)

func init() {
	buildCmd.Flags().StringVar(&buildPassPath, "pass", "", "Path to the pass.json template [required]")
	buildCmd.Flags().StringVar(&buildAssetsDir, "assets", "", "Directory of images and localizations")
	buildCmd.Flags().StringVar(&buildCertPath, "cert", "", "Signer certificate PEM (default: PASS_SIGNER_CERT_PATH)")
	buildCmd.Flags().StringVar(&buildKeyPath, "key", "", "Signer private key, PEM or JWK (default: PASS_SIGNER_KEY_PATH)")
	buildCmd.Flags().StringVar(&buildIntermediatePath, "intermediate", "", "Intermediate certificate PEM (default: PASS_INTERMEDIATE_CERT_PATH)")
	buildCmd.Flags().StringVarP(&buildOutputPath, "output", "o", "", "Path of the .pkpass archive to write [required]")
	buildCmd.Flags().StringVar(&buildSerial, "serial", "", "Replace the serial number ('auto' generates a UUID)")
	buildCmd.Flags().StringArrayVar(&buildSet, "set", nil, "Replace a field value, key=value (repeatable)")
	buildCmd.Flags().BoolVar(&buildDeterministic, "deterministic", false, "Omit the signing time so identical input gives an identical archive")
	buildCmd.MarkFlagRequired("pass")
	buildCmd.MarkFlagRequired("output")
}

func runBuild(cmd *cobra.Command, args []string) error {
	certPath := firstNonEmpty(buildCertPath, cfg.SignerCertPath)
	keyPath := firstNonEmpty(buildKeyPath, cfg.SignerKeyPath)
	intermediatePath := firstNonEmpty(buildIntermediatePath, cfg.IntermediateCertPath)
	if certPath == "" || keyPath == "" {
		return fmt.Errorf("signer certificate and key are required (--cert/--key or PASS_SIGNER_CERT_PATH/PASS_SIGNER_KEY_PATH)")
	}

	data, err := os.ReadFile(buildPassPath)
	if err != nil {
		return fmt.Errorf("failed to read pass template: %w", err)
	}
	p, err := pass.Parse(data)
	if err != nil {
		return fmt.Errorf("failed to parse pass template: %w", err)
	}

	if buildSerial != "" {
		serial := buildSerial
		if serial == "auto" {
			serial = uuid.NewString()
		}
		p, err = p.ToBuilder().WithSerialNumber(serial).Build()
		if err != nil {
			return fmt.Errorf("failed to set serial number: %w", err)
		}
	}

	for _, assignment := range buildSet {
		key, raw, ok := strings.Cut(assignment, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid --set %q: expected key=value", assignment)
		}
		if err := setField(p, key, raw); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	pkg := pkpass.New(p)
	if buildAssetsDir != "" {
		if err := pkg.AddAssetsDir(buildAssetsDir); err != nil {
			return fmt.Errorf("failed to add assets: %w", err)
		}
	}

	id, err := crypto.LoadSigningIdentity(certPath, keyPath, intermediatePath)
	if err != nil {
		return fmt.Errorf("failed to load signing identity: %w", err)
	}

	opts := pkpass.WriteOptions{
		Workers:            cfg.DigestWorkers,
		MaxAssetSize:       cfg.MaxAssetSize,
		IncludeSigningTime: cfg.IncludeSigningTime && !buildDeterministic,
		Logger:             appLogger,
	}
	if err := pkg.WriteFile(buildOutputPath, id, opts); err != nil {
		return fmt.Errorf("failed to write pass: %w", err)
	}

	appLogger.Info("pass written",
		slog.String("path", buildOutputPath),
		slog.String("serial_number", p.SerialNumber()),
		slog.Int("assets", len(pkg.AssetNames())))

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s (serial %s)\n", buildOutputPath, p.SerialNumber())
	return nil
}

// setField replaces the value of key, keeping the kind of value the field holds.
func setField(p *pass.Pass, key, raw string) error {
	current, ok := p.GetValue(key)
	if !ok {
		// let SetValue report the missing key
		return p.SetValue(key, pass.StringValue(raw))
	}

	var v pass.Value
	switch current.Kind() {
	case pass.KindNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", raw)
		}
		v = pass.NumberValue(n)
	case pass.KindDate:
		ts, err := pass.ParseTimestamp(raw)
		if err != nil {
			return err
		}
		v = pass.DateValue(ts.Time)
	case pass.KindCurrency:
		_, code, _ := current.Currency()
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("invalid amount %q", raw)
		}
		v = pass.CurrencyValue(amount, code)
	default:
		v = pass.StringValue(raw)
	}
	return p.SetValue(key, v)
}
