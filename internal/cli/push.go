package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const defaultPushTimeout = 30 * time.Second

// httpClient wraps http.Client with the server base URL.
type httpClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *httpClient {
	return &httpClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// post sends body to path and returns the response body on 2xx.
func (c *httpClient) post(ctx context.Context, path, contentType, body string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("post %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var e apiError
		if json.Unmarshal(data, &e) == nil && e.Message != "" {
			return nil, resp.StatusCode, fmt.Errorf("server rejected %s (%d %s): %s", path, resp.StatusCode, e.Code, e.Message)
		}
		return nil, resp.StatusCode, fmt.Errorf("server rejected %s: %s", path, resp.Status)
	}
	return data, resp.StatusCode, nil
}

func newPushCommand() *cobra.Command {
	var (
		baseURL    string
		collection string
		async      bool
		timeout    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "push <file>",
		Short: "Send a CSV file or a JSON backup to a running server",
		Long: "Without --collection the file is restored as a JSON backup; " +
			"with it the file is imported as CSV into that collection.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			path, contentType := "/api/backup", "application/json"
			if collection != "" {
				kind, err := parseKind(collection)
				if err != nil {
					return err
				}
				path, contentType = "/api/"+string(kind)+"/import", "text/csv"
			}
			if async {
				path += "?async=true"
			}

			client := newHTTPClient(baseURL, timeout)
			body, status, err := client.post(cmd.Context(), path, contentType, text)
			if err != nil {
				return err
			}
			if status == http.StatusAccepted {
				var job struct {
					ID string `json:"id"`
				}
				_ = json.Unmarshal(body, &job)
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "queued job %s\n", job.ID)
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(string(body)))
			return err
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:9080", "base URL of the server")
	cmd.Flags().StringVarP(&collection, "collection", "c", "", "import the file as CSV into this collection")
	cmd.Flags().BoolVar(&async, "async", false, "queue the import on the server instead of waiting")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultPushTimeout, "HTTP request timeout")
	return cmd
}
