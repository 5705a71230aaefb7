package config

import (
	pkgstrings "dbsmoke/pkg/strings"
)

// Registry URI values understood by the checks. The workspace registry is
// addressed as "databricks" (optionally "databricks://<profile>"), Unity
// Catalog as "databricks-uc".
const (
	RegistryWorkspace = "databricks"
	RegistryUC        = "databricks-uc"
)

// Environment variable names read by the loader.
const (
	EnvTrackingURI    = "MLFLOW_TRACKING_URI"
	EnvRegistryURI    = "MLFLOW_REGISTRY_URI"
	EnvExperimentName = "MLFLOW_EXPERIMENT_NAME"
	EnvProfile        = "DATABRICKS_PROFILE"
	EnvHost           = "DATABRICKS_HOST"
	EnvToken          = "DATABRICKS_TOKEN"
	EnvClientID       = "DATABRICKS_CLIENT_ID"
	EnvClientSecret   = "DATABRICKS_CLIENT_SECRET"
	EnvClusterID      = "DATABRICKS_CLUSTER_ID"
	EnvUCCatalog      = "UC_CATALOG"
	EnvUCSchema       = "UC_SCHEMA"
)

// Config holds the resolved smoke-test configuration. Values come from the
// process environment, an optional dotenv file, and the Databricks CLI
// profile file, in that order of precedence.
type Config struct {
	// TrackingURI is the MLflow tracking server address, normally
	// "databricks" or "databricks://<profile>".
	TrackingURI string
	// RegistryURI selects the model registry surface: RegistryWorkspace or
	// RegistryUC. Empty means RegistryWorkspace.
	RegistryURI string
	// ExperimentName is the experiment path used by the checks.
	ExperimentName string

	// Profile is the Databricks CLI profile name.
	Profile string
	// Host is the workspace URL, resolved from the environment or the
	// profile file.
	Host string
	// Token is the personal access token, if any.
	Token string
	// ClientID and ClientSecret carry OAuth machine-to-machine credentials
	// used when no token is available.
	ClientID     string
	ClientSecret string

	// ClusterID identifies the cluster for the connectivity check.
	ClusterID string

	// UCCatalog and UCSchema locate Unity Catalog model registrations.
	UCCatalog string
	UCSchema  string

	// ProfileFile is the path of the .databrickscfg file that was consulted,
	// empty when none was found.
	ProfileFile string
	// EnvFile is the dotenv file that was loaded, empty when none was found.
	EnvFile string
}

// UsesUCRegistry reports whether model registration targets Unity Catalog.
func (c *Config) UsesUCRegistry() bool {
	return c.RegistryURI == RegistryUC
}

// HasCredentials reports whether some credential (token or OAuth client
// secret) is available for the workspace.
func (c *Config) HasCredentials() bool {
	return c.Token != "" || (c.ClientID != "" && c.ClientSecret != "")
}

// Setting describes one configuration value for display purposes.
type Setting struct {
	Key      string
	Value    string
	Set      bool
	Required bool
	Secret   bool
}

// DisplayValue returns the value with secrets masked, suitable for console
// output.
func (s Setting) DisplayValue() string {
	if !s.Set {
		return ""
	}
	if s.Secret {
		return maskSecret(s.Value)
	}
	return pkgstrings.TruncateValue(s.Value, pkgstrings.DefaultValueMaxLen)
}

func maskSecret(v string) string {
	if len(v) <= 8 {
		return "********"
	}
	return v[:4] + "..." + v[len(v)-4:]
}

// Settings returns the required and optional settings in display order,
// mirroring the split the doctor check reports.
func (c *Config) Settings() []Setting {
	return []Setting{
		{Key: EnvTrackingURI, Value: c.TrackingURI, Set: c.TrackingURI != "", Required: true},
		{Key: EnvProfile, Value: c.Profile, Set: c.Profile != "", Required: c.Token == "" || c.Host == ""},
		{Key: EnvRegistryURI, Value: c.RegistryURI, Set: c.RegistryURI != ""},
		{Key: EnvExperimentName, Value: c.ExperimentName, Set: c.ExperimentName != ""},
		{Key: EnvHost, Value: c.Host, Set: c.Host != ""},
		{Key: EnvToken, Value: c.Token, Set: c.Token != "", Secret: true},
		{Key: EnvClientID, Value: c.ClientID, Set: c.ClientID != ""},
		{Key: EnvClientSecret, Value: c.ClientSecret, Set: c.ClientSecret != "", Secret: true},
		{Key: EnvClusterID, Value: c.ClusterID, Set: c.ClusterID != ""},
		{Key: EnvUCCatalog, Value: c.UCCatalog, Set: c.UCCatalog != ""},
		{Key: EnvUCSchema, Value: c.UCSchema, Set: c.UCSchema != ""},
	}
}
