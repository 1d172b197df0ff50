package cli

import (
	"crypto/x509"
	"fmt"
	"io"
	"time"

	"github.com/information-sharing-networks/pkpass/pkg/crypto"
	"github.com/information-sharing-networks/pkpass/pkg/pkpass"
	"github.com/spf13/cobra"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <archive.pkpass>",
	Short: "Verify a .pkpass archive and print its contents",
	Long: `Verify a .pkpass archive: every file must match the manifest, the manifest signature must be
valid and pass.json must describe a valid pass.

When trusted roots are given (--roots or PASS_TRUSTED_ROOTS_PATH) the signer certificate must
also chain to one of them.

Examples:
  pkpass verify ticket.pkpass
  pkpass verify ticket.pkpass --roots root.pem`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

var (
	verifyRootsPath string
	verifyQuiet     bool
)

func init() {
	verifyCmd.Flags().StringVar(&verifyRootsPath, "roots", "", "Trusted root certificates PEM (default: PASS_TRUSTED_ROOTS_PATH)")
	verifyCmd.Flags().BoolVarP(&verifyQuiet, "quiet", "q", false, "Only report the result")
}

func runVerify(cmd *cobra.Command, args []string) error {
	var roots *x509.CertPool
	if path := firstNonEmpty(verifyRootsPath, cfg.TrustedRootsPath); path != "" {
		var err error
		roots, err = crypto.LoadCustomRootCAs(path)
		if err != nil {
			return fmt.Errorf("failed to load trusted roots: %w", err)
		}
	}

	pkg, err := pkpass.ReadFile(args[0], pkpass.ReadOptions{
		Roots:        roots,
		MaxEntrySize: cfg.MaxAssetSize,
		Workers:      cfg.DigestWorkers,
		Logger:       appLogger,
	})
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ %s is valid\n", args[0])
	if verifyQuiet {
		return nil
	}
	printPackage(out, pkg)
	return nil
}

func printPackage(w io.Writer, pkg *pkpass.Package) {
	p := pkg.Pass()

	fmt.Fprintf(w, "\nPass\n")
	fmt.Fprintf(w, "  Serial number:   %s\n", p.SerialNumber())
	fmt.Fprintf(w, "  Pass type:       %s\n", p.PassTypeIdentifier())
	fmt.Fprintf(w, "  Team:            %s\n", p.TeamIdentifier())
	fmt.Fprintf(w, "  Organization:    %s\n", p.OrganizationName())
	fmt.Fprintf(w, "  Style:           %s\n", p.Style())
	if tt := p.TransitType(); tt != "" {
		fmt.Fprintf(w, "  Transit type:    %s\n", tt)
	}
	if d, ok := p.RelevantDate(); ok {
		fmt.Fprintf(w, "  Relevant date:   %s\n", d.Format(time.RFC3339))
	}
	if p.Voided() {
		fmt.Fprintf(w, "  Voided:          yes\n")
	}

	if signer := pkg.Signer(); signer != nil {
		fmt.Fprintf(w, "\nSigner\n")
		fmt.Fprintf(w, "  Subject:         %s\n", signer.Subject.CommonName)
		fmt.Fprintf(w, "  Pass type:       %s\n", crypto.PassTypeIdentifier(signer))
		fmt.Fprintf(w, "  Expires:         %s\n", signer.NotAfter.Format(time.RFC3339))
		if !pkg.PassTypeIdentifierMatches() {
			fmt.Fprintf(w, "  ⚠ certificate pass type does not match pass.json\n")
		}
	}

	fmt.Fprintf(w, "\nFields\n")
	for _, key := range p.Keys() {
		f, _ := p.Field(key)
		fmt.Fprintf(w, "  %-16s %s\n", key, f.Value)
	}

	if m := pkg.Manifest(); m != nil {
		fmt.Fprintf(w, "\nManifest (%d files)\n", m.Len())
		for _, name := range m.Names() {
			digest, _ := m.Digest(name)
			fmt.Fprintf(w, "  %s  %s\n", digest, name)
		}
	}
}
