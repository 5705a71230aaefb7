package databricks

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"dbsmoke/pkg/logging"
)

// dbfsChunkSize is the block size for streamed uploads. The put endpoint
// caps single-shot uploads at 1 MB of decoded data.
const dbfsChunkSize = 1024 * 1024

// DBFSPathFromURI converts a dbfs:/ artifact URI into the path form the
// DBFS API expects.
func DBFSPathFromURI(uri string) string {
	return strings.TrimPrefix(uri, "dbfs:")
}

// PutFile uploads data to the given DBFS path, choosing single-shot put for
// small payloads and the streamed handle API beyond the put limit.
func (c *Client) PutFile(ctx context.Context, path string, data []byte, overwrite bool) error {
	if len(data) < dbfsChunkSize {
		return c.putSmall(ctx, path, data, overwrite)
	}
	return c.putStreamed(ctx, path, data, overwrite)
}

func (c *Client) putSmall(ctx context.Context, path string, data []byte, overwrite bool) error {
	req := struct {
		Path      string `json:"path"`
		Contents  string `json:"contents"`
		Overwrite bool   `json:"overwrite"`
	}{Path: path, Contents: base64.StdEncoding.EncodeToString(data), Overwrite: overwrite}

	if err := c.post(ctx, "/api/2.0/dbfs/put", req, nil); err != nil {
		return fmt.Errorf("uploading %s: %w", path, err)
	}
	logging.Debug("Databricks", "uploaded %s (%d bytes)", path, len(data))
	return nil
}

func (c *Client) putStreamed(ctx context.Context, path string, data []byte, overwrite bool) error {
	var created struct {
		Handle int64 `json:"handle"`
	}
	createReq := struct {
		Path      string `json:"path"`
		Overwrite bool   `json:"overwrite"`
	}{Path: path, Overwrite: overwrite}
	if err := c.post(ctx, "/api/2.0/dbfs/create", createReq, &created); err != nil {
		return fmt.Errorf("opening DBFS handle for %s: %w", path, err)
	}

	for off := 0; off < len(data); off += dbfsChunkSize {
		end := off + dbfsChunkSize
		if end > len(data) {
			end = len(data)
		}
		blockReq := struct {
			Handle int64  `json:"handle"`
			Data   string `json:"data"`
		}{Handle: created.Handle, Data: base64.StdEncoding.EncodeToString(data[off:end])}
		if err := c.post(ctx, "/api/2.0/dbfs/add-block", blockReq, nil); err != nil {
			return fmt.Errorf("uploading block of %s at offset %d: %w", path, off, err)
		}
	}

	closeReq := struct {
		Handle int64 `json:"handle"`
	}{Handle: created.Handle}
	if err := c.post(ctx, "/api/2.0/dbfs/close", closeReq, nil); err != nil {
		return fmt.Errorf("closing DBFS handle for %s: %w", path, err)
	}
	logging.Debug("Databricks", "uploaded %s (%d bytes, streamed)", path, len(data))
	return nil
}
