package engine

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/elx4vier/UTube/internal/engine/sources"
)

// minQueryLen is the minimum query length (in runes) before any network
// activity happens.
const minQueryLen = 3

// RenderRecord is one renderable result row. Constructed fresh per query,
// never persisted, never mutated after construction.
type RenderRecord struct {
	IconPath      string
	PrimaryText   string
	SecondaryText string
	ActionURL     string // empty for purely informational records
}

// thumbCache is the process-wide cache instance, built by Init.
var thumbCache *ThumbCache

// Search runs the full query pipeline: fetch the results page, extract
// records, resolve thumbnails, assemble render records. Every failure mode
// short-circuits to a non-empty, displayable list — the caller never sees an
// error or an empty result.
func Search(ctx context.Context, rawQuery string) (records []RenderRecord) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("search pipeline fault", slog.Any("panic", r))
			records = []RenderRecord{errorRecord()}
		}
	}()

	query := strings.TrimSpace(rawQuery)
	if utf8.RuneCountInString(query) < minQueryLen {
		return []RenderRecord{promptRecord()}
	}
	incrSearchRequest()

	// --- Init → PageFetched ---
	searchURL := sources.SearchURL(query)
	body, err := sources.FetchSearchPage(ctx, cfg.HTTPClient, query)
	if err != nil {
		slog.Warn("search page fetch failed", slog.String("query", query), slog.Any("error", err))
		return []RenderRecord{networkErrorRecord()}
	}

	// --- PageFetched → Extracted ---
	recs, err := sources.ExtractSearchRecords(body, cfg.ThumbMode == ThumbChannel, cfg.MaxResults)
	if err != nil {
		incrExtractionFailure()
		slog.Warn("extraction failed, degrading to browser record",
			slog.String("query", query), slog.Any("error", err))
		return []RenderRecord{browserRecord(query, searchURL)}
	}
	slog.Debug("extracted records", slog.String("query", query), slog.Int("count", len(recs)))

	// --- Extracted → ThumbnailsResolved ---
	icons := resolveIcons(ctx, recs)

	// --- ThumbnailsResolved → Rendered ---
	out := make([]RenderRecord, 0, len(recs)+1)
	out = append(out, browserRecord(query, searchURL))
	for _, r := range recs {
		out = append(out, renderRecord(r, icons[r.ID]))
	}
	return out
}

// resolveIcons maps each record's video ID to an icon path, deduplicating
// thumbnail requests by cache key so records sharing a channel dispatch one
// fetch between them.
func resolveIcons(ctx context.Context, recs []sources.SearchRecord) map[string]string {
	icons := make(map[string]string, len(recs))
	if cfg.ThumbMode == ThumbNone {
		for _, r := range recs {
			icons[r.ID] = cfg.DefaultIcon
		}
		return icons
	}

	seen := make(map[ThumbKey]bool, len(recs))
	reqs := make([]ThumbRequest, 0, len(recs))
	for _, r := range recs {
		k := thumbKeyFor(r)
		if seen[k] {
			continue
		}
		seen[k] = true
		reqs = append(reqs, ThumbRequest{Key: k, SourceURL: r.ThumbnailURL})
	}

	resolved := thumbCache.ResolveAll(ctx, reqs)
	for _, r := range recs {
		if path, ok := resolved[thumbKeyFor(r)]; ok {
			icons[r.ID] = path
		} else {
			icons[r.ID] = cfg.DefaultIcon
		}
	}
	return icons
}

func thumbKeyFor(r sources.SearchRecord) ThumbKey {
	if cfg.ThumbMode == ThumbChannel {
		return ThumbKey{Mode: ThumbChannel, EntityID: r.ChannelKey}
	}
	return ThumbKey{Mode: ThumbVideo, EntityID: r.ID}
}

// renderRecord applies the configured layout template to one record.
func renderRecord(r sources.SearchRecord, icon string) RenderRecord {
	if icon == "" {
		icon = cfg.DefaultIcon
	}
	views := FormatViewCount(r.RawViewText)
	published := TranslateRelativeDate(r.RawPublishedText)
	action := sources.WatchURL(r.ID)

	switch cfg.Layout {
	case LayoutClassic:
		desc := r.DurationText + " • " + r.ChannelName
		if published != "" {
			desc += " • " + published
		}
		return RenderRecord{IconPath: icon, PrimaryText: r.Title, SecondaryText: desc, ActionURL: action}
	case LayoutMinimal:
		return RenderRecord{IconPath: icon, PrimaryText: r.ChannelName + " • " + r.Title, ActionURL: action}
	default: // LayoutInverted
		desc := r.Title + " • " + r.DurationText + "\n" + views
		if published != "" {
			desc += " • " + published
		}
		return RenderRecord{IconPath: icon, PrimaryText: r.ChannelName, SecondaryText: desc, ActionURL: action}
	}
}

func promptRecord() RenderRecord {
	return RenderRecord{
		IconPath:    cfg.DefaultIcon,
		PrimaryText: cfg.I18n("search_prompt", "Digite para pesquisar no YouTube"),
	}
}

func networkErrorRecord() RenderRecord {
	return RenderRecord{
		IconPath:      cfg.DefaultIcon,
		PrimaryText:   cfg.I18n("network_error", "Erro de conexão"),
		SecondaryText: cfg.I18n("search_error_desc", "Verifique sua internet e tente novamente"),
	}
}

// browserRecord is the leading "search in browser" row, and the sole result
// when extraction degrades gracefully.
func browserRecord(query, searchURL string) RenderRecord {
	return RenderRecord{
		IconPath:      cfg.DefaultIcon,
		PrimaryText:   "'" + query + "'",
		SecondaryText: cfg.I18n("search_browser_line2", "Pesquisar no YouTube via navegador"),
		ActionURL:     searchURL,
	}
}

func errorRecord() RenderRecord {
	return RenderRecord{
		IconPath:      cfg.DefaultIcon,
		PrimaryText:   cfg.I18n("search_error", "Ops! Algo deu errado na busca"),
		SecondaryText: cfg.I18n("search_error_desc", "Verifique sua internet e tente novamente"),
	}
}
