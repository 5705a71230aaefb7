package databricks

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"dbsmoke/pkg/logging"

	"github.com/cenkalti/backoff/v5"
)

// Command languages accepted by the execution API.
const (
	LanguageSQL    = "sql"
	LanguagePython = "python"
	LanguageScala  = "scala"
)

// Command states reported by the execution API.
const (
	CommandStatusQueued    = "Queued"
	CommandStatusRunning   = "Running"
	CommandStatusFinished  = "Finished"
	CommandStatusCancelled = "Cancelled"
	CommandStatusError     = "Error"
)

// ExecutionContext is a remote REPL context on a cluster.
type ExecutionContext struct {
	ID        string
	ClusterID string
	Language  string
}

// CommandResults is the result payload of a finished command.
type CommandResults struct {
	ResultType string          `json:"resultType"`
	Data       [][]interface{} `json:"data,omitempty"`
	Schema     []ColumnInfo    `json:"schema,omitempty"`
	Cause      string          `json:"cause,omitempty"`
	Summary    string          `json:"summary,omitempty"`
}

// ColumnInfo describes one column of a tabular command result.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// CommandStatus is the polled state of a submitted command.
type CommandStatus struct {
	ID      string          `json:"id"`
	Status  string          `json:"status"`
	Results *CommandResults `json:"results,omitempty"`
}

func (s *CommandStatus) terminal() bool {
	switch s.Status {
	case CommandStatusFinished, CommandStatusCancelled, CommandStatusError:
		return true
	}
	return false
}

// CreateContext opens an execution context on the cluster.
func (c *Client) CreateContext(ctx context.Context, clusterID, language string) (*ExecutionContext, error) {
	req := struct {
		ClusterID string `json:"clusterId"`
		Language  string `json:"language"`
	}{ClusterID: clusterID, Language: language}

	var resp struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/api/1.2/contexts/create", req, &resp); err != nil {
		return nil, fmt.Errorf("creating execution context on %s: %w", clusterID, err)
	}
	logging.Debug("Databricks", "created execution context %s on %s", resp.ID, clusterID)
	return &ExecutionContext{ID: resp.ID, ClusterID: clusterID, Language: language}, nil
}

// DestroyContext tears the execution context down. Safe to call on failure
// paths; errors are returned but callers typically just log them.
func (c *Client) DestroyContext(ctx context.Context, ec *ExecutionContext) error {
	req := struct {
		ClusterID string `json:"clusterId"`
		ContextID string `json:"contextId"`
	}{ClusterID: ec.ClusterID, ContextID: ec.ID}
	return c.post(ctx, "/api/1.2/contexts/destroy", req, nil)
}

// Execute submits a command to the context and returns the command id.
func (c *Client) Execute(ctx context.Context, ec *ExecutionContext, command string) (string, error) {
	req := struct {
		ClusterID string `json:"clusterId"`
		ContextID string `json:"contextId"`
		Language  string `json:"language"`
		Command   string `json:"command"`
	}{ClusterID: ec.ClusterID, ContextID: ec.ID, Language: ec.Language, Command: command}

	var resp struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/api/1.2/commands/execute", req, &resp); err != nil {
		return "", fmt.Errorf("executing command: %w", err)
	}
	return resp.ID, nil
}

// CommandStatus polls the state of a command once.
func (c *Client) CommandStatus(ctx context.Context, ec *ExecutionContext, commandID string) (*CommandStatus, error) {
	query := url.Values{
		"clusterId": {ec.ClusterID},
		"contextId": {ec.ID},
		"commandId": {commandID},
	}
	var status CommandStatus
	if err := c.get(ctx, "/api/1.2/commands/status", query, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// WaitForCommand polls until the command reaches a terminal state, backing
// off exponentially, bounded by maxWait and the context.
func (c *Client) WaitForCommand(ctx context.Context, ec *ExecutionContext, commandID string, maxWait time.Duration) (*CommandStatus, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	status, err := backoff.Retry(ctx, func() (*CommandStatus, error) {
		st, err := c.CommandStatus(ctx, ec, commandID)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if !st.terminal() {
			logging.Debug("Databricks", "command %s still %s", commandID, st.Status)
			return nil, fmt.Errorf("command %s not finished (status %s)", commandID, st.Status)
		}
		return st, nil
	}, backoff.WithBackOff(bo), backoff.WithMaxElapsedTime(maxWait))
	if err != nil {
		return nil, fmt.Errorf("waiting for command %s: %w", commandID, err)
	}

	if status.Status == CommandStatusError {
		cause := ""
		if status.Results != nil {
			cause = status.Results.Cause
		}
		return status, fmt.Errorf("command %s failed remotely: %s", commandID, cause)
	}
	return status, nil
}

// RunCommand is the full lifecycle the connectivity check uses: create a
// context, execute one command, wait for the result, destroy the context.
func (c *Client) RunCommand(ctx context.Context, clusterID, language, command string, maxWait time.Duration) (*CommandResults, error) {
	ec, err := c.CreateContext(ctx, clusterID, language)
	if err != nil {
		return nil, err
	}
	defer func() {
		if derr := c.DestroyContext(context.WithoutCancel(ctx), ec); derr != nil {
			logging.Warn("Databricks", "failed to destroy execution context %s: %v", ec.ID, derr)
		}
	}()

	commandID, err := c.Execute(ctx, ec, command)
	if err != nil {
		return nil, err
	}
	status, err := c.WaitForCommand(ctx, ec, commandID, maxWait)
	if err != nil {
		return nil, err
	}
	return status.Results, nil
}
