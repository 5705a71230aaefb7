// Package mlflow is a typed client for the slice of the MLflow REST API the
// smoke checks exercise on a Databricks workspace: experiments, runs,
// params/metrics, artifact listing, the model registry (workspace and Unity
// Catalog surfaces), and the v3 trace endpoints.
//
// The package owns no state beyond request plumbing. Every entity it
// returns (experiment, run, model version, trace) is created, persisted, and
// governed by the remote tracking server; the client reports whether each
// call succeeded and maps MLflow error codes onto errors the checks can
// classify with IsNotFound, IsAlreadyExists, and IsPermissionDenied.
package mlflow
