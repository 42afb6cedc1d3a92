// Package config loads the trawl application config.
//
// The file lives at ~/.config/trawl/config.toml unless a path is given. A
// missing file is not an error: Default is used, so trawl runs without any
// setup. Empty or zero fields keep their defaults; malformed values fail
// with a "parse config" error.
//
// Example:
//
//	capacity = 10000
//	source = "follow"          # stdin, file, follow, http or demo
//	path = "~/logs/app.log"
//	backfill = 1000
//	api_url = "http://127.0.0.1:7487"
//	poll_interval = "2s"
//	frame_interval = "16ms"
//
//	[scroll]
//	lerp_factor = 0.15
//	rate_threshold = 10
//	lock_window = "150ms"
//	bottom_threshold = 1
//
//	[overscan]
//	base = 5
//	fast = 20
//	drag = 30
//
// Distances in [scroll] are in terminal lines. Command-line flags override
// file values.
package config
