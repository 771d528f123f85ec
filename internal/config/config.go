package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"lookout/internal/bright"
	"lookout/pkg/config"
)

// LookoutConfig holds all configuration for the lookout service.
// Required vars cause the service to fail at startup if missing.
type LookoutConfig struct {
	// CMDaemon connection
	BrightHost      string
	BrightPort      int
	BrightProtocol  string
	BrightUsername  string
	BrightPassword  string
	BrightCertFile  string
	BrightKeyFile   string
	BrightVerifyTLS bool
	BrightTimeout   time.Duration

	// BrightVersion pins the upstream protocol version. Empty probes the
	// appliance at startup.
	BrightVersion string

	// Measurables is the ordered allow-list of health check names served
	// by the API. Comes from SUPPORTED_MEASURABLES, or from the YAML file
	// named by MEASURABLES_FILE, which overrides the env list.
	Measurables []string

	// HTTP listen port
	HTTPPort string
}

// LoadLookoutConfig loads configuration from environment variables.
// Call this after config.LoadEnv() has been called.
func LoadLookoutConfig() (*LookoutConfig, error) {
	cfg := &LookoutConfig{
		BrightHost:      config.RequireEnv("BRIGHT_HOST"),
		BrightPort:      config.GetEnvInt("BRIGHT_PORT", 8081),
		BrightProtocol:  config.GetEnv("BRIGHT_PROTOCOL", "https"),
		BrightUsername:  config.GetEnv("BRIGHT_USERNAME", ""),
		BrightPassword:  config.GetEnv("BRIGHT_PASSWORD", ""),
		BrightCertFile:  config.GetEnv("BRIGHT_CERT_PATH", ""),
		BrightKeyFile:   config.GetEnv("BRIGHT_KEY_PATH", ""),
		BrightVerifyTLS: config.GetEnvBool("BRIGHT_TLS_VERIFY", true),
		BrightTimeout:   time.Duration(config.GetEnvInt("BRIGHT_TIMEOUT_SECONDS", 5)) * time.Second,
		BrightVersion:   config.GetEnv("BRIGHT_VERSION", ""),
		Measurables:     config.GetEnvSlice("SUPPORTED_MEASURABLES", nil),
		HTTPPort:        config.GetEnv("LOOKOUT_PORT", "18020"),
	}

	if file := config.GetEnv("MEASURABLES_FILE", ""); file != "" {
		measurables, err := loadMeasurablesFile(file)
		if err != nil {
			return nil, err
		}
		cfg.Measurables = measurables
	}

	return cfg, nil
}

// ServiceConfig maps the loaded configuration onto the upstream facade
// configuration.
func (c *LookoutConfig) ServiceConfig() bright.ServiceConfig {
	return bright.ServiceConfig{
		Client: bright.Config{
			Host:      c.BrightHost,
			Port:      c.BrightPort,
			Protocol:  c.BrightProtocol,
			Username:  c.BrightUsername,
			Password:  c.BrightPassword,
			CertFile:  c.BrightCertFile,
			KeyFile:   c.BrightKeyFile,
			VerifyTLS: c.BrightVerifyTLS,
			Timeout:   c.BrightTimeout,
		},
		Version:     c.BrightVersion,
		Measurables: c.Measurables,
	}
}

type measurablesFile struct {
	Measurables []string `yaml:"measurables"`
}

func loadMeasurablesFile(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read measurables file: %w", err)
	}
	var parsed measurablesFile
	if err := yaml.Unmarshal(b, &parsed); err != nil {
		return nil, fmt.Errorf("parse measurables file %s: %w", path, err)
	}
	return parsed.Measurables, nil
}
