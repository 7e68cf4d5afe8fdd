package engine

import (
	"net/http"
	"runtime"
	"time"
)

// ThumbMode selects which thumbnail accompanies a result.
type ThumbMode string

const (
	ThumbChannel ThumbMode = "channel" // channel avatar, circle-masked
	ThumbVideo   ThumbMode = "video"   // video preview, rounded-rect-masked
	ThumbNone    ThumbMode = "none"    // default icon only, no fetching
)

// Layout selects one of the fixed result-row templates.
type Layout string

const (
	LayoutClassic  Layout = "classic"
	LayoutInverted Layout = "inverted"
	LayoutMinimal  Layout = "minimal"
)

const (
	defaultMaxResults   = 7
	defaultFetchTimeout = 3 * time.Second
	maxThumbWorkers     = 4
)

// Config holds all engine configuration, injected from main.
type Config struct {
	MaxResults   int
	ThumbMode    ThumbMode
	Layout       Layout
	CacheDir     string
	DefaultIcon  string // sentinel icon path used whenever no thumbnail resolves
	FetchTimeout time.Duration
	MaxWorkers   int                           // thumbnail pool size; 0 = min(4, NumCPU)
	HTTPClient   *http.Client                  // long-lived, shared across queries
	I18n         func(key, def string) string  // nil = identity lookup
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages and tests.
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration, filling in
// defaults for anything left unset, and constructs the process-wide
// thumbnail cache.
func Init(c Config) {
	cfg = normalizeConfig(c)
	Cfg = &cfg
	thumbCache = NewThumbCache(cfg.CacheDir, cfg.HTTPClient)
}

func normalizeConfig(c Config) Config {
	if c.MaxResults < 1 {
		c.MaxResults = defaultMaxResults
	}
	switch c.ThumbMode {
	case ThumbChannel, ThumbVideo, ThumbNone:
	default:
		c.ThumbMode = ThumbChannel
	}
	switch c.Layout {
	case LayoutClassic, LayoutInverted, LayoutMinimal:
	default:
		c.Layout = LayoutInverted
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = defaultFetchTimeout
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = min(maxThumbWorkers, runtime.NumCPU())
	}
	if c.HTTPClient == nil {
		c.HTTPClient = NewFetchClient(c.FetchTimeout)
	}
	if c.I18n == nil {
		c.I18n = func(_, def string) string { return def }
	}
	return c
}
