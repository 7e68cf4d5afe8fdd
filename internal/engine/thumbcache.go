package engine

import (
	"bytes"
	"context"
	"image"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	thumbSize   = 100 // processed thumbnails are a fixed 100×100 square
	thumbRadius = 12  // corner radius for video previews

	maxCachedThumbs = 100

	maxThumbBytes = 8 * 1024 * 1024
)

// ThumbShape selects the alpha mask applied to a processed thumbnail.
type ThumbShape int

const (
	ShapeRounded ThumbShape = iota
	ShapeCircle
)

// ThumbKey identifies one logical thumbnail target. The same target always
// yields the same key regardless of which record asked for it, so records
// sharing a channel share one cached file.
type ThumbKey struct {
	Mode     ThumbMode
	EntityID string // channel browse ID in channel mode, video ID otherwise
}

// FileName derives the cache file name for the key.
func (k ThumbKey) FileName() string {
	prefix := "v"
	if k.Mode == ThumbChannel {
		prefix = "c"
	}
	return prefix + "_" + k.EntityID + ".png"
}

// Shape returns the mask matching the key's target kind.
func (k ThumbKey) Shape() ThumbShape {
	if k.Mode == ThumbChannel {
		return ShapeCircle
	}
	return ShapeRounded
}

// ThumbCache maps thumbnail keys to processed image files on disk. A file
// existing at the derived path *is* the cache-hit signal; there is no
// separate index and entries never expire except via TrimCache at startup.
type ThumbCache struct {
	dir    string
	client *http.Client
}

// NewThumbCache creates a cache rooted at dir, fetching misses with client.
func NewThumbCache(dir string, client *http.Client) *ThumbCache {
	return &ThumbCache{dir: dir, client: client}
}

// Path returns the deterministic file path for key.
func (c *ThumbCache) Path(key ThumbKey) string {
	return filepath.Join(c.dir, key.FileName())
}

// hit reports whether key is already cached, with zero network activity.
func (c *ThumbCache) hit(key ThumbKey) (string, bool) {
	path := c.Path(key)
	if _, err := os.Stat(path); err == nil {
		incrThumbCacheHit()
		return path, true
	}
	return "", false
}

// Resolve returns the cached file path for key, fetching and processing
// sourceURL on a miss. Every failure — fetch, decode, write — degrades to
// ("", false); the caller falls back to the default icon and never retries.
func (c *ThumbCache) Resolve(ctx context.Context, key ThumbKey, sourceURL string) (string, bool) {
	if path, ok := c.hit(key); ok {
		return path, ok
	}
	incrThumbCacheMiss()
	if sourceURL == "" {
		return "", false
	}

	data, err := c.fetch(ctx, normalizeThumbURL(sourceURL))
	if err != nil {
		incrThumbFetchError()
		slog.Debug("thumb fetch failed", slog.String("url", sourceURL), slog.Any("error", err))
		return "", false
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		incrThumbFetchError()
		slog.Debug("thumb decode failed", slog.String("url", sourceURL), slog.Any("error", err))
		return "", false
	}

	path := c.Path(key)
	if err := EncodePNG(path, RenderThumb(img, thumbSize, thumbRadius, key.Shape())); err != nil {
		// Unwritable cache dir is not fatal; the record just keeps the default icon.
		slog.Debug("thumb write failed", slog.String("path", path), slog.Any("error", err))
		return "", false
	}
	return path, true
}

func (c *ThumbCache) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "image/webp,image/png,image/*,*/*;q=0.8")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &httpStatusError{StatusCode: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxThumbBytes))
}

// httpStatusError reports a non-success thumbnail response.
type httpStatusError struct {
	StatusCode int
}

func (e *httpStatusError) Error() string {
	return "status " + http.StatusText(e.StatusCode)
}

// normalizeThumbURL upgrades protocol-relative URLs to https.
func normalizeThumbURL(url string) string {
	if strings.HasPrefix(url, "//") {
		return "https:" + url
	}
	return url
}

// EnsureCacheDir creates the cache directory if absent.
func EnsureCacheDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// TrimCache deletes the oldest-by-modification-time cached thumbnails beyond
// max. Run at startup only, never mid-query. Errors are logged and ignored.
func TrimCache(dir string, max int) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Warn("cache trim: read dir failed", slog.String("dir", dir), slog.Any("error", err))
		return
	}

	type cacheFile struct {
		path  string
		mtime int64
	}
	var files []cacheFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".png") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, cacheFile{
			path:  filepath.Join(dir, e.Name()),
			mtime: info.ModTime().UnixNano(),
		})
	}
	if len(files) <= max {
		return
	}

	sort.Slice(files, func(i, j int) bool { return files[i].mtime < files[j].mtime })
	for _, f := range files[:len(files)-max] {
		if err := os.Remove(f.path); err != nil {
			slog.Warn("cache trim: remove failed", slog.String("path", f.path), slog.Any("error", err))
		}
	}
	slog.Debug("cache trimmed", slog.Int("removed", len(files)-max), slog.Int("kept", max))
}
