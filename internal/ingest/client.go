package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/five82/trawl/internal/record"
)

// LogFetcher is implemented by *Client and can be faked in tests.
type LogFetcher interface {
	FetchLogs(ctx context.Context, query LogQuery) (LogBatch, error)
}

var _ LogFetcher = (*Client)(nil)

// Client reads records from a remote log API.
//
// The endpoint answers GET requests with a JSON LogBatch. Passing the
// previous batch's Next value as since returns only newer events.
type Client struct {
	endpoint  *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIURL    = "http://127.0.0.1:7487"
	defaultLogsPath  = "/api/logs"
	defaultUserAgent = "trawl/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client for apiURL. A bare host:port gets http:// and
// the default /api/logs path.
func NewClient(apiURL string) (*Client, error) {
	endpoint, err := parseEndpoint(apiURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		endpoint:  endpoint,
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: defaultUserAgent,
	}, nil
}

// Endpoint returns the resolved logs URL.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// LogQuery configures log requests.
type LogQuery struct {
	Since uint64
	Limit int
	Tail  bool
	Level string
	App   string
}

// LogEvent is one log entry as served by the API.
type LogEvent struct {
	Sequence  uint64 `json:"seq"`
	Timestamp string `json:"ts"`
	Kind      string `json:"kind,omitempty"`
	Session   string `json:"session,omitempty"`
	App       string `json:"app,omitempty"`
	Host      string `json:"host,omitempty"`
	Process   string `json:"process,omitempty"`
	Thread    string `json:"thread,omitempty"`
	Level     string `json:"level"`
	Type      string `json:"type,omitempty"`
	Message   string `json:"msg"`
	Payload   string `json:"payload,omitempty"`
}

// Record converts the event, using now when the timestamp is missing or
// malformed.
func (e LogEvent) Record(now time.Time) record.Record {
	rec := record.Record{
		Timestamp: now,
		Session:   e.Session,
		App:       e.App,
		Host:      e.Host,
		Process:   e.Process,
		Thread:    e.Thread,
		Level:     normalizeLevel(e.Level),
		Type:      e.Type,
		Title:     e.Message,
		Payload:   e.Payload,
	}
	if ts, ok := parseTime(e.Timestamp); ok {
		rec.Timestamp = ts
	}
	if strings.EqualFold(e.Kind, "separator") {
		rec.Kind = record.KindSeparator
	}
	return rec
}

// LogBatch is a page of events plus the cursor for the next request.
type LogBatch struct {
	Events []LogEvent `json:"events"`
	Next   uint64     `json:"next"`
}

// FetchLogs retrieves events newer than query.Since.
func (c *Client) FetchLogs(ctx context.Context, query LogQuery) (LogBatch, error) {
	if c == nil {
		return LogBatch{}, fmt.Errorf("client is nil")
	}
	values := c.endpoint.Query()
	if query.Since > 0 {
		values.Set("since", strconv.FormatUint(query.Since, 10))
	}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Tail {
		values.Set("tail", "1")
	}
	if level := strings.TrimSpace(query.Level); level != "" {
		values.Set("level", level)
	}
	if app := strings.TrimSpace(query.App); app != "" {
		values.Set("app", app)
	}
	reqURL := *c.endpoint
	reqURL.RawQuery = values.Encode()

	var payload LogBatch
	if err := c.get(ctx, &reqURL, &payload); err != nil {
		return LogBatch{}, err
	}
	return payload, nil
}

func (c *Client) get(ctx context.Context, u *url.URL, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", u.Path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseEndpoint(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", apiURL)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = defaultLogsPath
	}
	u.Fragment = ""
	return u, nil
}
