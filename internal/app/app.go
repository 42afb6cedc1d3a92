package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/five82/trawl/internal/config"
	"github.com/five82/trawl/internal/ingest"
	"github.com/five82/trawl/internal/prefs"
	"github.com/five82/trawl/internal/record"
	"github.com/five82/trawl/internal/state"
	"github.com/five82/trawl/internal/ui"
)

// Options configure the trawl application. Non-zero fields override the
// config file.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/trawl/profile.toml
	ExportPath string // CSV export target; empty uses ./trawl-export.csv

	Source   string
	Path     string
	Backfill int // negative keeps the configured value
	APIURL   string
	Capacity int
	Level    string // server side level filter for the http source

	Stdin io.Reader
}

// Run boots the trawl TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := opts.apply(&cfg); err != nil {
		return err
	}

	profile := loadProfile(opts.PrefsPath)

	src, err := newSource(cfg, opts)
	if err != nil {
		return fmt.Errorf("init source: %w", err)
	}

	ring := record.NewRing(cfg.Capacity)
	store := &state.Store{}
	store.SetSource(src.Name())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	startSource(ctx, src, ring, store)

	return ui.Run(ui.Options{
		Context:    ctx,
		Ring:       ring,
		Store:      store,
		Config:     cfg,
		Prefs:      profile,
		PrefsPath:  opts.PrefsPath,
		ExportPath: opts.ExportPath,
		InputTTY:   cfg.Source == config.SourceStdin,
	})
}

// loadProfile never fails; errors are logged and defaults used.
func loadProfile(path string) prefs.Prefs {
	profile, err := prefs.Load(path)
	if err != nil {
		log.Printf("app: load profile: %v", err)
	}
	return profile
}

func (o Options) apply(cfg *config.Config) error {
	if s := strings.ToLower(strings.TrimSpace(o.Source)); s != "" {
		if err := config.ValidateSource(s); err != nil {
			return err
		}
		cfg.Source = s
	}
	if p := strings.TrimSpace(o.Path); p != "" {
		expanded, err := config.ExpandPath(p)
		if err != nil {
			return fmt.Errorf("resolve path: %w", err)
		}
		cfg.Path = expanded
	}
	if o.Backfill >= 0 {
		cfg.Backfill = o.Backfill
	}
	if u := strings.TrimSpace(o.APIURL); u != "" {
		cfg.APIURL = u
	}
	if o.Capacity > 0 {
		cfg.Capacity = o.Capacity
	}
	return nil
}

func newSource(cfg config.Config, opts Options) (ingest.Source, error) {
	switch cfg.Source {
	case config.SourceFile, config.SourceFollow:
		if cfg.Path == "" {
			return nil, fmt.Errorf("source %s needs a path", cfg.Source)
		}
		return &ingest.File{
			Path:     cfg.Path,
			Backfill: cfg.Backfill,
			Follow:   cfg.Source == config.SourceFollow,
		}, nil
	case config.SourceHTTP:
		client, err := ingest.NewClient(cfg.APIURL)
		if err != nil {
			return nil, err
		}
		return &Poller{
			Fetcher:  client,
			Interval: cfg.PollInterval,
			Backfill: cfg.Backfill,
			Query:    ingest.LogQuery{Level: opts.Level},
		}, nil
	case config.SourceDemo:
		return &ingest.Demo{Rate: 20}, nil
	default:
		in := opts.Stdin
		if in == nil {
			in = os.Stdin
		}
		return &ingest.Reader{R: in, Label: "stdin"}, nil
	}
}

// startSource runs src in the background. Its errors are logged and
// surfaced through the store; the UI keeps running.
func startSource(ctx context.Context, src ingest.Source, sink ingest.Sink, store *state.Store) {
	go func() {
		if err := src.Run(ctx, sink, store); err != nil {
			log.Printf("ingest: %s: %v", src.Name(), err)
			return
		}
		log.Printf("ingest: %s: input ended", src.Name())
	}()
}
