// Package databricks covers the non-MLflow workspace surfaces the smoke
// checks touch: authentication (personal access token or OAuth
// machine-to-machine), cluster state, the command execution API used by the
// connectivity check, and DBFS uploads for run artifacts.
//
// Authentication produces a plain *http.Client whose transport injects the
// bearer token; both this package and the mlflow client ride on it. Token
// refresh for the OAuth path is handled by golang.org/x/oauth2.
package databricks
