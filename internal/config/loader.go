package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dbsmoke/pkg/logging"

	"github.com/spf13/viper"
)

const (
	defaultEnvFile     = ".env"
	profileFileName    = ".databrickscfg"
	defaultProfileName = "DEFAULT"
)

// LoadOptions control where the loader looks for configuration.
type LoadOptions struct {
	// EnvFile is the dotenv file to load before reading the environment.
	// Empty means "./.env"; the file is optional either way.
	EnvFile string
	// Profile overrides the DATABRICKS_PROFILE environment variable.
	Profile string
	// HomeDir overrides the user home directory used to locate
	// .databrickscfg. Empty means os.UserHomeDir.
	HomeDir string
}

// Load resolves the smoke-test configuration from the environment, the
// optional dotenv file, and the Databricks CLI profile file. Load never
// fails on missing values; Validate reports those afterwards so the doctor
// check can list every problem at once.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	v.SetDefault(EnvUCCatalog, "main")
	v.SetDefault(EnvUCSchema, "default")

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = defaultEnvFile
	}
	loadedEnvFile := ""
	if _, err := os.Stat(envFile); err == nil {
		v.SetConfigFile(envFile)
		v.SetConfigType("dotenv")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading env file %s: %w", envFile, err)
		}
		loadedEnvFile = envFile
		logging.Info("Config", "loaded environment variables from %s", envFile)
	} else if opts.EnvFile != "" {
		// An explicitly requested file must exist.
		return nil, fmt.Errorf("env file %s: %w", opts.EnvFile, err)
	}

	// Process environment wins over the dotenv file.
	v.AutomaticEnv()

	cfg := &Config{
		TrackingURI:    v.GetString(EnvTrackingURI),
		RegistryURI:    v.GetString(EnvRegistryURI),
		ExperimentName: v.GetString(EnvExperimentName),
		Profile:        v.GetString(EnvProfile),
		Host:           v.GetString(EnvHost),
		Token:          v.GetString(EnvToken),
		ClientID:       v.GetString(EnvClientID),
		ClientSecret:   v.GetString(EnvClientSecret),
		ClusterID:      v.GetString(EnvClusterID),
		UCCatalog:      v.GetString(EnvUCCatalog),
		UCSchema:       v.GetString(EnvUCSchema),
		EnvFile:        loadedEnvFile,
	}

	if opts.Profile != "" {
		cfg.Profile = opts.Profile
	}
	if cfg.Profile == "" {
		cfg.Profile = profileFromURI(cfg.TrackingURI)
	}
	if cfg.ExperimentName == "" {
		cfg.ExperimentName = defaultExperimentName()
	}

	if err := resolveProfile(cfg, opts.HomeDir); err != nil {
		return nil, err
	}

	cfg.Host = strings.TrimSuffix(cfg.Host, "/")
	return cfg, nil
}

// profileFromURI extracts the profile from a "databricks://<profile>" URI.
func profileFromURI(uri string) string {
	const prefix = "databricks://"
	if strings.HasPrefix(uri, prefix) {
		return strings.TrimPrefix(uri, prefix)
	}
	return ""
}

func defaultExperimentName() string {
	user := os.Getenv("USER")
	if user == "" {
		user = "default"
	}
	return "/Users/" + user + "/dbsmoke"
}

// resolveProfile fills host and credential fields from ~/.databrickscfg when
// the environment did not provide them. A missing profile file is not an
// error here; Validate flags it when credentials end up absent.
func resolveProfile(cfg *Config, homeDir string) error {
	if homeDir == "" {
		var err error
		homeDir, err = os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not determine user home directory: %w", err)
		}
	}

	path := filepath.Join(homeDir, profileFileName)
	if _, err := os.Stat(path); err != nil {
		logging.Debug("Config", "no profile file at %s", path)
		return nil
	}
	cfg.ProfileFile = path

	p := viper.New()
	p.SetConfigFile(path)
	p.SetConfigType("ini")
	if err := p.ReadInConfig(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	section := cfg.Profile
	if section == "" {
		section = defaultProfileName
	}
	if !p.IsSet(section) && !p.IsSet(strings.ToLower(section)) {
		logging.Warn("Config", "profile %q not found in %s", section, path)
		return nil
	}

	get := func(key string) string {
		return p.GetString(section + "." + key)
	}
	if cfg.Host == "" {
		cfg.Host = get("host")
	}
	if cfg.Token == "" {
		cfg.Token = get("token")
	}
	if cfg.ClientID == "" {
		cfg.ClientID = get("client_id")
	}
	if cfg.ClientSecret == "" {
		cfg.ClientSecret = get("client_secret")
	}

	logging.Debug("Config", "resolved profile %q from %s", section, path)
	return nil
}
