package config

import (
	"fmt"
	"strings"
)

// MissingError reports configuration required by the checks that could not
// be resolved from any source. The CLI maps it to the configuration exit
// code.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Keys, ", "))
}

// Validate checks that the configuration is sufficient to authenticate and
// run the checks. It reports every missing key at once rather than stopping
// at the first.
func Validate(cfg *Config) error {
	var missing []string

	if cfg.TrackingURI == "" {
		missing = append(missing, EnvTrackingURI)
	}
	if cfg.Host == "" {
		if cfg.Profile == "" {
			missing = append(missing, EnvProfile)
		}
		missing = append(missing, EnvHost)
	}
	if !cfg.HasCredentials() {
		missing = append(missing, EnvToken)
	}

	if len(missing) > 0 {
		return &MissingError{Keys: missing}
	}
	return nil
}

// ValidateForConnect additionally requires the cluster id used by the
// connectivity check.
func ValidateForConnect(cfg *Config) error {
	if err := Validate(cfg); err != nil {
		merr := err.(*MissingError)
		if cfg.ClusterID == "" {
			merr.Keys = append(merr.Keys, EnvClusterID)
		}
		return merr
	}
	if cfg.ClusterID == "" {
		return &MissingError{Keys: []string{EnvClusterID}}
	}
	return nil
}
