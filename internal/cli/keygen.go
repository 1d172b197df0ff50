package cli

import (
	"crypto"
	"fmt"
	"log/slog"
	"os"

	pkcrypto "github.com/information-sharing-networks/pkpass/pkg/crypto"
	"github.com/spf13/cobra"
)

// file names written by keygen
const (
	rootCertFile         = "root.pem"
	intermediateCertFile = "intermediate.pem"
	signerCertFile       = "signer.pem"
	signerKeyFile        = "signer.key"
	signerJWKFile        = "signer.jwk"
)

// keygenCmd represents the keygen command
var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate development signing certificates",
	Long: `Generate a development certificate hierarchy (root, intermediate and signer) for a
pass type identifier.

Passes signed with these certificates verify with "pkpass verify --roots root.pem" but are
not accepted by a wallet app: production passes need a pass type certificate issued by
the wallet vendor.

Files written to the output directory:
  root.pem          trusted root (use with --roots or PASS_TRUSTED_ROOTS_PATH)
  intermediate.pem  intermediate CA certificate
  signer.pem        signer certificate
  signer.key        signer private key (PKCS#8 PEM, unencrypted)
  signer.jwk        signer private key as a JWK set

Example:
  pkpass keygen --pass-type-id pass.com.example.ticket --team-id AA00AA0A0A --outputdir ./certs`,
	RunE: runKeygen,
}

var (
	keygenPassTypeID string
	keygenTeamID     string
	keygenOutputDir  string
	keygenKeyType    string
	keygenRSASize    int
	keygenKeyID      string
	keygenSelfSigned bool
)

func init() {
	keygenCmd.Flags().StringVarP(&keygenPassTypeID, "pass-type-id", "p", "", "Pass type identifier (e.g., pass.com.example.ticket) [required]")
	keygenCmd.Flags().StringVarP(&keygenTeamID, "team-id", "t", "", "Team identifier [required]")
	keygenCmd.Flags().StringVarP(&keygenOutputDir, "outputdir", "o", "", "Output directory for generated files [required]")
	keygenCmd.Flags().StringVar(&keygenKeyType, "type", "rsa", "Signer key type: rsa or ecdsa")
	keygenCmd.Flags().IntVarP(&keygenRSASize, "size", "s", 2048, "RSA key size in bits (2048 or 4096)")
	keygenCmd.Flags().StringVarP(&keygenKeyID, "kid", "k", "", "Key ID for the JWK (default: derived from the thumbprint)")
	keygenCmd.Flags().BoolVar(&keygenSelfSigned, "self-signed", false, "Write a self-signed signer certificate without root and intermediate")
	keygenCmd.MarkFlagRequired("pass-type-id")
	keygenCmd.MarkFlagRequired("team-id")
	keygenCmd.MarkFlagRequired("outputdir")
}

func runKeygen(cmd *cobra.Command, args []string) error {
	if keygenKeyType != "rsa" && keygenKeyType != "ecdsa" {
		return fmt.Errorf("invalid key type: %s (must be 'rsa' or 'ecdsa')", keygenKeyType)
	}
	if keygenKeyType == "rsa" && keygenRSASize != 2048 && keygenRSASize != 4096 {
		return fmt.Errorf("invalid RSA key size: %d (must be 2048 or 4096)", keygenRSASize)
	}

	// make the directory if it doesn't exist
	if err := os.MkdirAll(keygenOutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var signerKey crypto.Signer
	var err error
	if keygenKeyType == "rsa" {
		signerKey, err = pkcrypto.GenerateRSAKeyPair(keygenRSASize)
	} else {
		signerKey, err = pkcrypto.GenerateECDSAKeyPair()
	}
	if err != nil {
		return fmt.Errorf("failed to generate signer key: %w", err)
	}

	opts := pkcrypto.DevelopmentPKIOptions{
		PassTypeIdentifier: keygenPassTypeID,
		TeamIdentifier:     keygenTeamID,
		Validity:           cfg.DevCertValidity,
		SignerKey:          signerKey,
	}

	appLogger.Info("generating development certificates",
		slog.String("pass_type_identifier", keygenPassTypeID),
		slog.String("key_type", keygenKeyType),
		slog.Bool("self_signed", keygenSelfSigned))

	out := cmd.OutOrStdout()

	if keygenSelfSigned {
		id, err := pkcrypto.GenerateSelfSignedIdentity(opts)
		if err != nil {
			return fmt.Errorf("failed to generate certificate: %w", err)
		}
		if err := pkcrypto.SaveCertificatesToPEMFile(keygenOutputDir, signerCertFile, id.Certificate); err != nil {
			return fmt.Errorf("failed to save signer certificate: %w", err)
		}
		fmt.Fprintf(out, "✓ Signer certificate: %s (self-signed)\n", signerCertFile)
	} else {
		pki, err := pkcrypto.GenerateDevelopmentPKI(opts)
		if err != nil {
			return fmt.Errorf("failed to generate certificates: %w", err)
		}
		if err := pkcrypto.SaveCertificatesToPEMFile(keygenOutputDir, rootCertFile, pki.Root); err != nil {
			return fmt.Errorf("failed to save root certificate: %w", err)
		}
		if err := pkcrypto.SaveCertificatesToPEMFile(keygenOutputDir, intermediateCertFile, pki.Intermediate); err != nil {
			return fmt.Errorf("failed to save intermediate certificate: %w", err)
		}
		if err := pkcrypto.SaveCertificatesToPEMFile(keygenOutputDir, signerCertFile, pki.Signer); err != nil {
			return fmt.Errorf("failed to save signer certificate: %w", err)
		}
		fmt.Fprintf(out, "✓ Root certificate:         %s\n", rootCertFile)
		fmt.Fprintf(out, "✓ Intermediate certificate: %s\n", intermediateCertFile)
		fmt.Fprintf(out, "✓ Signer certificate:       %s\n", signerCertFile)
	}

	if err := pkcrypto.SavePrivateKeyToPEMFile(signerKey, keygenOutputDir, signerKeyFile); err != nil {
		return fmt.Errorf("failed to save private key: %w", err)
	}
	if err := pkcrypto.SavePrivateKeyToJWKFile(signerKey, keygenKeyID, keygenOutputDir, signerJWKFile); err != nil {
		return fmt.Errorf("failed to save private JWK: %w", err)
	}
	fmt.Fprintf(out, "✓ Private key: %s, %s (keep these secret)\n", signerKeyFile, signerJWKFile)

	return nil
}
