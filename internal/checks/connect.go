package checks

import (
	"context"
	"fmt"
	"time"

	"dbsmoke/internal/databricks"
	"dbsmoke/internal/smoke"
)

const (
	connectQuery   = "SELECT COUNT(*) AS row_count, CAST(AVG(id) AS DOUBLE) AS avg_id FROM RANGE(100)"
	connectMaxWait = 5 * time.Minute
)

// Context keys published by the connect check for the CLI to render.
const (
	KeyQueryHeaders = "query_headers"
	KeyQueryRows    = "query_rows"
)

// keyClusterReady marks that the cluster was resolved and is running; the
// query steps skip when it is absent so a missing cluster id skips the
// whole check instead of failing it.
const keyClusterReady = "cluster_ready"

// Connect builds the cluster connectivity check: resolve the configured
// cluster, run a small aggregation on it through the command execution API,
// and verify the result.
func Connect(d *Deps) smoke.Check {
	steps := []smoke.Step{
		{
			Name: "resolve cluster",
			Run: func(ctx context.Context, sc *smoke.StepContext) error {
				if d.Config.ClusterID == "" {
					return smoke.Skipf("no cluster id configured")
				}
				cluster, err := d.Databricks.GetCluster(ctx, d.Config.ClusterID)
				if err != nil {
					return fmt.Errorf("resolving cluster %s: %w", d.Config.ClusterID, err)
				}
				if cluster.State != databricks.ClusterStateRunning {
					return fmt.Errorf("cluster %s is %s, needs to be %s",
						d.Config.ClusterID, cluster.State, databricks.ClusterStateRunning)
				}
				sc.Set(keyClusterReady, true)
				sc.Detailf("cluster %s (%s) is running", cluster.ClusterName, cluster.ClusterID)
				return nil
			},
		},
		{
			Name: "run query",
			Run: func(ctx context.Context, sc *smoke.StepContext) error {
				if ready, _ := sc.Value(keyClusterReady).(bool); !ready {
					return smoke.Skipf("no cluster id configured")
				}
				results, err := d.Databricks.RunCommand(ctx, d.Config.ClusterID,
					databricks.LanguageSQL, connectQuery, connectMaxWait)
				if err != nil {
					return fmt.Errorf("executing query: %w", err)
				}
				if results.ResultType != "table" {
					return fmt.Errorf("unexpected result type %q: %s", results.ResultType, results.Summary)
				}

				headers := make([]string, len(results.Schema))
				for i, col := range results.Schema {
					headers[i] = col.Name
				}
				rows := make([][]string, len(results.Data))
				for i, row := range results.Data {
					cells := make([]string, len(row))
					for j, cell := range row {
						cells[j] = fmt.Sprintf("%v", cell)
					}
					rows[i] = cells
				}
				sc.Set(KeyQueryHeaders, headers)
				sc.Set(KeyQueryRows, rows)
				if d.QuerySink != nil {
					d.QuerySink(headers, rows)
				}
				sc.Detailf("query returned %d rows", len(rows))
				return nil
			},
		},
		{
			Name: "verify result",
			Run: func(ctx context.Context, sc *smoke.StepContext) error {
				if ready, _ := sc.Value(keyClusterReady).(bool); !ready {
					return smoke.Skipf("no cluster id configured")
				}
				rows, _ := sc.Value(KeyQueryRows).([][]string)
				if len(rows) != 1 || len(rows[0]) < 1 {
					return fmt.Errorf("expected one aggregation row, got %d", len(rows))
				}
				if rows[0][0] != "100" {
					return fmt.Errorf("row count is %s, want 100", rows[0][0])
				}
				sc.Detailf("aggregation over RANGE(100) verified")
				return nil
			},
		},
	}

	return smoke.Check{
		Name:        "connect",
		Description: "cluster connectivity and remote query execution",
		Steps:       steps,
	}
}
