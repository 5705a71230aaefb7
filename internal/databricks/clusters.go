package databricks

import (
	"context"
	"net/url"
)

// Cluster states relevant to the connectivity check.
const (
	ClusterStateRunning    = "RUNNING"
	ClusterStatePending    = "PENDING"
	ClusterStateTerminated = "TERMINATED"
)

// Cluster describes a compute cluster.
type Cluster struct {
	ClusterID    string `json:"cluster_id"`
	ClusterName  string `json:"cluster_name"`
	State        string `json:"state"`
	StateMessage string `json:"state_message,omitempty"`
	SparkVersion string `json:"spark_version"`
	NumWorkers   int    `json:"num_workers"`
}

// GetCluster fetches a cluster's metadata and state.
func (c *Client) GetCluster(ctx context.Context, clusterID string) (*Cluster, error) {
	query := url.Values{"cluster_id": {clusterID}}
	var cluster Cluster
	if err := c.get(ctx, "/api/2.0/clusters/get", query, &cluster); err != nil {
		return nil, err
	}
	return &cluster, nil
}
