package ingest

import (
	"context"
	"encoding/base64"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/five82/trawl/internal/record"
)

// Demo generates synthetic records at Rate records per second.
type Demo struct {
	Rate  float64
	Limit int // stop after Limit records; zero runs until cancelled
	Seed  uint64
}

var (
	demoApps     = []string{"api", "worker", "scheduler", "gateway"}
	demoHosts    = []string{"node-a", "node-b", "node-c"}
	demoLevels   = []string{"DEBUG", "INFO", "INFO", "INFO", "WARN", "ERROR"}
	demoTypes    = []string{"request", "job", "metric", "audit"}
	demoMessages = []string{
		"request completed",
		"cache miss for key %d",
		"job %d finished",
		"retrying upstream call (attempt %d)",
		"disk usage at %d%%",
		"connection reset by peer after %dms",
	}
)

// Name implements Source.
func (d *Demo) Name() string {
	return "demo"
}

// Run implements Source.
func (d *Demo) Run(ctx context.Context, sink Sink, health Health) error {
	rate := d.Rate
	if rate <= 0 {
		rate = 5
	}
	rng := rand.New(rand.NewPCG(d.Seed, d.Seed^0x9e3779b97f4a7c15))
	ticker := time.NewTicker(time.Duration(float64(time.Second) / rate))
	defer ticker.Stop()

	session := fmt.Sprintf("s-%04x", rng.IntN(0xffff))
	emitted := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if emitted > 0 && emitted%500 == 0 {
				session = fmt.Sprintf("s-%04x", rng.IntN(0xffff))
				sink.Append(Separator("session "+session, now))
			}
			sink.Append(demoRecord(rng, session, now))
			health.Update(1, 0, nil)
			emitted++
			if d.Limit > 0 && emitted >= d.Limit {
				return nil
			}
		}
	}
}

func demoRecord(rng *rand.Rand, session string, now time.Time) record.Record {
	msg := demoMessages[rng.IntN(len(demoMessages))]
	title := msg
	if strings.Contains(msg, "%d") {
		title = fmt.Sprintf(msg, rng.IntN(1000))
	}
	rec := record.Record{
		Timestamp: now,
		Session:   session,
		App:       demoApps[rng.IntN(len(demoApps))],
		Host:      demoHosts[rng.IntN(len(demoHosts))],
		Process:   fmt.Sprintf("%d", 1000+rng.IntN(50)),
		Thread:    fmt.Sprintf("t%d", rng.IntN(8)),
		Level:     demoLevels[rng.IntN(len(demoLevels))],
		Type:      demoTypes[rng.IntN(len(demoTypes))],
		Title:     title,
	}
	if rec.Level == "ERROR" {
		rec.Payload = base64.StdEncoding.EncodeToString(
			[]byte(fmt.Sprintf("error detail\nhost=%s\napp=%s\n", rec.Host, rec.App)))
	}
	return rec
}
