package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/mieubrisse/stacktrace"

	"github.com/odyssey/cronctl/internal/schedule"
)

// Client is an HTTP client that connects to the dispatcher via unix socket.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new client that connects to the dispatcher at the
// given socket path.
func NewClient(socketPath string) *Client {
	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
					return net.DialTimeout("unix", socketPath, 5*time.Second)
				},
			},
			Timeout: 30 * time.Second,
		},
		// The host doesn't matter for unix sockets, but HTTP requires one
		baseURL: "http://cronctl",
	}
}

// Get sends a GET request and decodes the response into result.
func (c *Client) Get(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return stacktrace.Propagate(err, "failed to connect to dispatcher")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.decodeError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return stacktrace.Propagate(err, "failed to decode dispatcher response")
		}
	}

	return nil
}

// Post sends a POST request with a JSON body and decodes the response into
// result.
func (c *Client) Post(path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		pr, pw := io.Pipe()
		go func() {
			pw.CloseWithError(json.NewEncoder(pw).Encode(body))
		}()
		bodyReader = pr
	}

	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", bodyReader)
	if err != nil {
		return stacktrace.Propagate(err, "failed to connect to dispatcher")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.decodeError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return stacktrace.Propagate(err, "failed to decode dispatcher response")
		}
	}

	return nil
}

// Delete sends a DELETE request.
func (c *Client) Delete(path string) error {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return stacktrace.Propagate(err, "failed to create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return stacktrace.Propagate(err, "failed to connect to dispatcher")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.decodeError(resp)
	}

	return nil
}

// decodeError extracts an error message from an error response body.
func (c *Client) decodeError(resp *http.Response) error {
	var errResp errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Message == "" {
		return stacktrace.NewError("dispatcher returned HTTP %d", resp.StatusCode)
	}
	return stacktrace.NewError("%s", errResp.Message)
}

// ============================================================================
// High-level dispatcher API methods
// ============================================================================

// Health fetches the dispatcher's health report.
func (c *Client) Health() (*HealthReport, error) {
	var report HealthReport
	if err := c.Get("/health", &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// HealthReport mirrors the GET /health response.
type HealthReport struct {
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// SpawnResult mirrors the POST /spawn response.
type SpawnResult struct {
	Due    int  `json:"due"`
	DryRun bool `json:"dry_run"`
}

// Spawn asks the dispatcher to fire everything currently due. With dryRun,
// the dispatcher only reports how many events are due.
func (c *Client) Spawn(dryRun bool) (*SpawnResult, error) {
	path := "/spawn"
	if dryRun {
		path += "?" + url.Values{"dry_run": {"true"}}.Encode()
	}
	var result SpawnResult
	if err := c.Post(path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListSchedules fetches the dispatcher's live schedule registry.
func (c *Client) ListSchedules() ([]schedule.Schedule, error) {
	var schedules []schedule.Schedule
	if err := c.Get("/schedules", &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// DeleteEvent removes one event by ID.
func (c *Client) DeleteEvent(id string) error {
	return c.Delete("/events/" + url.PathEscape(id))
}

// WaitForReady polls the dispatcher's health endpoint until it responds or
// the timeout elapses. Used after forking the dispatcher process, since the
// socket takes a moment to come up.
func WaitForReady(socketPath string) error {
	client := NewClient(socketPath)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := client.Health(); err == nil {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	return stacktrace.NewError("dispatcher did not become ready within 5 seconds")
}
