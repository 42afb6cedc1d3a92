package ingest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/five82/trawl/internal/record"
)

type fakeHealth struct {
	mu       sync.Mutex
	received int
	errs     []error
}

func (h *fakeHealth) Update(received int, _ uint64, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.received += received
	if err != nil {
		h.errs = append(h.errs, err)
	}
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestParse_JSON(t *testing.T) {
	line := `{"ts":"2024-05-01T10:00:00Z","level":"warning","app":"api","hostname":"h1","msg":"boom","session":"s1","thread":7,"payload":"aGk="}`
	rec := Parse(line, fixedNow)

	if rec.Level != "WARN" || rec.App != "api" || rec.Host != "h1" || rec.Title != "boom" || rec.Session != "s1" {
		t.Fatalf("Parse = %+v", rec)
	}
	if rec.Thread != "7" {
		t.Fatalf("Thread = %q, want 7", rec.Thread)
	}
	if !rec.Timestamp.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("Timestamp = %v", rec.Timestamp)
	}
	if got := rec.DecodedPayload(); got != "hi" {
		t.Fatalf("DecodedPayload = %q, want hi", got)
	}
}

func TestParse_Logfmt(t *testing.T) {
	rec := Parse(`level=err app=worker msg="disk almost full" detail="line one"`, fixedNow)
	if rec.Level != "ERROR" || rec.App != "worker" || rec.Title != "disk almost full" {
		t.Fatalf("Parse = %+v", rec)
	}
	if !rec.Timestamp.Equal(fixedNow) {
		t.Fatalf("Timestamp = %v, want fallback %v", rec.Timestamp, fixedNow)
	}
	if got := rec.DecodedPayload(); got != "line one" {
		t.Fatalf("DecodedPayload = %q, want %q", got, "line one")
	}
}

func TestParse_PlainTextAndSeparators(t *testing.T) {
	rec := Parse("just some words", fixedNow)
	if rec.Title != "just some words" || rec.IsSeparator() {
		t.Fatalf("Parse plain = %+v", rec)
	}
	if !Parse("-----", fixedNow).IsSeparator() {
		t.Fatalf("dash line is not a separator")
	}
	if !Parse(`{"kind":"separator","msg":"restart"}`, fixedNow).IsSeparator() {
		t.Fatalf("json separator not recognised")
	}
}

func TestParse_BadPayloadFallsBack(t *testing.T) {
	rec := Parse(`{"msg":"x","payload":"%%%not base64"}`, fixedNow)
	if got := rec.DecodedPayload(); got != record.PayloadPlaceholder {
		t.Fatalf("DecodedPayload = %q, want placeholder", got)
	}
}

func TestReader_Run(t *testing.T) {
	ring := record.NewRing(10)
	health := &fakeHealth{}
	r := &Reader{R: strings.NewReader("a=1 msg=first\n\nmsg=second\n"), Now: func() time.Time { return fixedNow }}

	if err := r.Run(context.Background(), ring, health); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	snap := ring.Snapshot()
	if len(snap) != 2 || snap[0].Title != "first" || snap[1].Title != "second" {
		t.Fatalf("ring = %+v, want first, second", snap)
	}
	if health.received != 2 {
		t.Fatalf("received = %d, want 2", health.received)
	}
}

func TestReadTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	var b strings.Builder
	for i := 1; i <= 10; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	lines, offset, err := ReadTail(path, 3)
	if err != nil {
		t.Fatalf("ReadTail returned error: %v", err)
	}
	if strings.Join(lines, ",") != "line 8,line 9,line 10" {
		t.Fatalf("ReadTail = %v", lines)
	}
	if offset != int64(b.Len()) {
		t.Fatalf("offset = %d, want %d", offset, b.Len())
	}

	lines, offset, err = ReadTail(filepath.Join(t.TempDir(), "missing.log"), 3)
	if err != nil || lines != nil || offset != 0 {
		t.Fatalf("ReadTail(missing) = %v, %d, %v want nil, 0, nil", lines, offset, err)
	}
}

func TestReadTail_StopsBeforePartialLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(path, []byte("a\r\nb\nhalf"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tests := []struct {
		max        int
		wantLines  string
		wantOffset int64
	}{
		{max: 5, wantLines: "a,b", wantOffset: 5},
		{max: 1, wantLines: "b", wantOffset: 5},
		{max: 0, wantLines: "", wantOffset: 9},
	}
	for _, tt := range tests {
		lines, offset, err := ReadTail(path, tt.max)
		if err != nil {
			t.Fatalf("ReadTail(%d) returned error: %v", tt.max, err)
		}
		if got := strings.Join(lines, ","); got != tt.wantLines || offset != tt.wantOffset {
			t.Fatalf("ReadTail(%d) = %q, %d want %q, %d", tt.max, got, offset, tt.wantLines, tt.wantOffset)
		}
	}
}

func TestFile_Backfill(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(path, []byte("msg=a\nmsg=b\nmsg=c\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	ring := record.NewRing(10)
	f := &File{Path: path, Backfill: 2}
	if err := f.Run(context.Background(), ring, &fakeHealth{}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	snap := ring.Snapshot()
	if len(snap) != 2 || snap[0].Title != "b" || snap[1].Title != "c" {
		t.Fatalf("ring = %+v, want b, c", snap)
	}
}

func TestFile_Follow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(path, []byte("msg=old\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	ring := record.NewRing(10)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- (&File{Path: path, Backfill: 5, Follow: true, Poll: true}).Run(ctx, ring, &fakeHealth{})
	}()

	deadline := time.Now().Add(5 * time.Second)
	for ring.Len() < 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	// Give the tailer time to open the file.
	time.Sleep(300 * time.Millisecond)
	fh, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	_, _ = fh.WriteString("msg=new\n")
	_ = fh.Close()

	for ring.Len() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	snap := ring.Snapshot()
	if len(snap) != 2 || snap[1].Title != "new" {
		t.Fatalf("ring = %+v, want old then new", snap)
	}
}

func TestFile_FollowResumesAfterBackfill(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	// The last line is still being written when the backfill runs.
	if err := os.WriteFile(path, []byte("msg=old\nmsg=mid"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	ring := record.NewRing(10)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- (&File{Path: path, Backfill: 5, Follow: true, Poll: true}).Run(ctx, ring, &fakeHealth{})
	}()

	deadline := time.Now().Add(5 * time.Second)
	for ring.Len() < 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(300 * time.Millisecond)
	fh, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	_, _ = fh.WriteString("dle\nmsg=new\n")
	_ = fh.Close()

	for ring.Len() < 3 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	var titles []string
	for _, r := range ring.Snapshot() {
		titles = append(titles, r.Title)
	}
	if got := strings.Join(titles, ","); got != "old,middle,new" {
		t.Fatalf("titles = %q, want old,middle,new", got)
	}
}

func TestDemo_Limit(t *testing.T) {
	ring := record.NewRing(100)
	d := &Demo{Rate: 1000, Limit: 5, Seed: 1}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Run(ctx, ring, &fakeHealth{}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if ring.Len() != 5 {
		t.Fatalf("Len = %d, want 5", ring.Len())
	}
	for _, rec := range ring.Snapshot() {
		if rec.App == "" || rec.Level == "" || rec.Title == "" {
			t.Fatalf("incomplete demo record %+v", rec)
		}
	}
}

func TestClient_FetchLogs(t *testing.T) {
	t.Parallel()

	var gotQuery string
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/logs" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(LogBatch{
			Events: []LogEvent{{Sequence: 5, Timestamp: "2024-05-01T10:00:00Z", Level: "info", App: "api", Message: "hello",
				Payload: base64.StdEncoding.EncodeToString([]byte("body"))}},
			Next: 6,
		})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	batch, err := c.FetchLogs(ctx, LogQuery{Since: 5, Limit: 100, Level: " error "})
	if err != nil {
		t.Fatalf("FetchLogs returned error: %v", err)
	}
	if gotQuery != "level=error&limit=100&since=5" {
		t.Fatalf("query = %q", gotQuery)
	}
	if gotUserAgent != defaultUserAgent {
		t.Fatalf("User-Agent = %q, want %q", gotUserAgent, defaultUserAgent)
	}
	if batch.Next != 6 || len(batch.Events) != 1 {
		t.Fatalf("batch = %+v", batch)
	}
	rec := batch.Events[0].Record(fixedNow)
	if rec.Level != "INFO" || rec.Title != "hello" || rec.DecodedPayload() != "body" {
		t.Fatalf("Record = %+v", rec)
	}
}

func TestClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.FetchLogs(context.Background(), LogQuery{}); err == nil || !strings.Contains(err.Error(), "503") {
		t.Fatalf("FetchLogs error = %v, want status 503", err)
	}
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "http://127.0.0.1:7487/api/logs"},
		{"logs.local:9000", "http://logs.local:9000/api/logs"},
		{"https://example.com/v2/events?token=x#frag", "https://example.com/v2/events?token=x"},
	}
	for _, tt := range tests {
		u, err := parseEndpoint(tt.in)
		if err != nil {
			t.Fatalf("parseEndpoint(%q) returned error: %v", tt.in, err)
		}
		if u.String() != tt.want {
			t.Fatalf("parseEndpoint(%q) = %q, want %q", tt.in, u.String(), tt.want)
		}
	}
}
