package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/trawl/internal/app"
	"github.com/five82/trawl/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (optional, defaults to ~/.config/trawl/config.toml)")
	profilePath := flag.String("profile", "", "view profile path (optional, defaults to ~/.config/trawl/profile.toml)")
	source := flag.String("source", "", "record source: stdin, file, follow, http or demo")
	path := flag.String("path", "", "log file for the file and follow sources")
	backfill := flag.Int("backfill", -1, "records to load from the end of the file or API before following")
	apiURL := flag.String("api", "", "log API base URL for the http source")
	capacity := flag.Int("capacity", 0, "records kept in memory")
	level := flag.String("level", "", "minimum level requested from the http source")
	logFile := flag.String("log-file", "", "write diagnostics to this file")
	exportPath := flag.String("export", "", "CSV export path (defaults to ./trawl-export.csv)")
	flag.Parse()

	// A bare path argument implies the follow source.
	if flag.NArg() > 0 && *path == "" {
		*path = flag.Arg(0)
		if *source == "" {
			*source = "follow"
		}
	}

	cleanup, err := logging.Setup(*logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "trawl: %v\n", err)
		return 1
	}
	defer cleanup()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *profilePath,
		ExportPath: *exportPath,
		Source:     *source,
		Path:       *path,
		Backfill:   *backfill,
		APIURL:     *apiURL,
		Capacity:   *capacity,
		Level:      *level,
		Stdin:      os.Stdin,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "trawl: %v\n", err)
		return 1
	}
	return 0
}
