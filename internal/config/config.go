package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/Netflix/go-env"
)

// Environment variables with defaults
type CLIEnvironment struct {
	Environment string `env:"ENVIRONMENT,default=dev"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`

	// signing material (the flags of the build command override these)
	SignerCertPath       string `env:"PASS_SIGNER_CERT_PATH"`
	SignerKeyPath        string `env:"PASS_SIGNER_KEY_PATH"`
	IntermediateCertPath string `env:"PASS_INTERMEDIATE_CERT_PATH"`

	// trusted roots used when reading archives; empty = only the embedded chain is checked
	TrustedRootsPath string `env:"PASS_TRUSTED_ROOTS_PATH"`

	// packaging settings
	DigestWorkers      int   `env:"PASS_DIGEST_WORKERS,default=0"`
	MaxAssetSize       int64 `env:"PASS_MAX_ASSET_SIZE,default=20971520"`
	IncludeSigningTime bool  `env:"PASS_INCLUDE_SIGNING_TIME,default=true"`

	// development certificates
	DevCertValidity time.Duration `env:"PASS_DEV_CERT_VALIDITY,default=8760h"`
}

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"prod":    true,
	"staging": true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// NewCLIConfig loads environment variables and returns a CLIEnvironment struct that contains the values
func NewCLIConfig() (*CLIEnvironment, error) {
	var cfg CLIEnvironment

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateConfig checks the env variables
func validateConfig(cfg *CLIEnvironment) error {
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid ENVIRONMENT: %s", cfg.Environment)
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid LOG_LEVEL: %s", cfg.LogLevel)
	}

	if cfg.DigestWorkers < 0 {
		return fmt.Errorf("PASS_DIGEST_WORKERS must be 0 or greater")
	}
	if cfg.DigestWorkers > 4*runtime.NumCPU() {
		return fmt.Errorf("PASS_DIGEST_WORKERS (%d) cannot be greater than %d", cfg.DigestWorkers, 4*runtime.NumCPU())
	}
	if cfg.MaxAssetSize < 1 {
		return fmt.Errorf("PASS_MAX_ASSET_SIZE must be at least 1")
	}
	if cfg.DevCertValidity < time.Hour {
		return fmt.Errorf("PASS_DEV_CERT_VALIDITY must be at least 1h, got %s", cfg.DevCertValidity)
	}

	// signing material is given as a set
	if (cfg.SignerCertPath == "") != (cfg.SignerKeyPath == "") {
		return fmt.Errorf("PASS_SIGNER_CERT_PATH and PASS_SIGNER_KEY_PATH must be set together")
	}
	if cfg.IntermediateCertPath != "" && cfg.SignerCertPath == "" {
		return fmt.Errorf("PASS_INTERMEDIATE_CERT_PATH requires PASS_SIGNER_CERT_PATH")
	}

	return nil
}
