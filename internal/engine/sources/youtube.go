// Package sources fetches the YouTube results page and extracts structured
// video records from the data block embedded in it. It is self-contained:
// the HTTP client and limits are passed in by the caller.
package sources

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	searchBaseURL = "https://www.youtube.com/results?search_query="
	watchBaseURL  = "https://www.youtube.com/watch?v="

	initialDataPrefix = "var ytInitialData = "
	initialDataSuffix = ";</script>"

	maxBodyBytes = 4 * 1024 * 1024

	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptLanguage = "en-US,en;q=0.5"
)

// ErrExtractionFailed reports that the embedded data block was missing or
// malformed. Callers must treat it differently from an empty result list:
// the page could not be interpreted at all.
var ErrExtractionFailed = errors.New("embedded search data not found or malformed")

// SearchRecord is one video extracted from the results page. Immutable once
// extracted; absent fields carry their documented defaults instead.
type SearchRecord struct {
	ID               string
	Title            string
	ChannelName      string
	ChannelKey       string // channel browse ID; falls back to the video ID
	DurationText     string // "LIVE" for ongoing broadcasts
	RawViewText      string
	RawPublishedText string
	ThumbnailURL     string // may be empty or protocol-relative
}

// SearchURL builds the results-page URL for a query.
func SearchURL(query string) string {
	return searchBaseURL + strings.ReplaceAll(query, " ", "+")
}

// WatchURL builds the playback URL for a video ID.
func WatchURL(videoID string) string {
	return watchBaseURL + videoID
}

// FetchSearchPage GETs the results page for query. The client's timeout
// bounds the request; any network or status failure is returned as-is for
// the pipeline to degrade on.
func FetchSearchPage(ctx context.Context, client *http.Client, query string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, SearchURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", acceptLanguage)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("search page: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read search page: %w", err)
	}
	return body, nil
}

// ExtractSearchRecords pulls up to max video records, in document order, out
// of the raw page body. channelThumbs selects the channel avatar URL instead
// of the video preview. A page that parses but holds no videos yields an
// empty slice; a page without a parseable data block yields
// ErrExtractionFailed.
func ExtractSearchRecords(body []byte, channelThumbs bool, max int) ([]SearchRecord, error) {
	if max < 1 {
		max = 1
	}
	payload, err := embeddedData(body)
	if err != nil {
		return nil, err
	}

	records := make([]SearchRecord, 0, max)
	sections := gjson.GetBytes(payload,
		"contents.twoColumnSearchResultsRenderer.primaryContents.sectionListRenderer.contents")
	sections.ForEach(func(_, section gjson.Result) bool {
		section.Get("itemSectionRenderer.contents").ForEach(func(_, item gjson.Result) bool {
			v := item.Get("videoRenderer")
			if !v.Exists() || v.Get("videoId").String() == "" {
				return true // not a video entry; keep scanning
			}
			records = append(records, recordFromRenderer(v, channelThumbs))
			return len(records) < max
		})
		return len(records) < max
	})
	return records, nil
}

// embeddedData cuts the JSON block between the data markers and validates it.
func embeddedData(body []byte) ([]byte, error) {
	start := bytes.Index(body, []byte(initialDataPrefix))
	if start < 0 {
		return nil, fmt.Errorf("%w: marker prefix missing", ErrExtractionFailed)
	}
	rest := body[start+len(initialDataPrefix):]
	end := bytes.Index(rest, []byte(initialDataSuffix))
	if end < 0 {
		return nil, fmt.Errorf("%w: marker suffix missing", ErrExtractionFailed)
	}
	payload := rest[:end]
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("%w: invalid JSON between markers", ErrExtractionFailed)
	}
	return payload, nil
}

// recordFromRenderer maps one videoRenderer object to a SearchRecord,
// substituting defaults for every absent field.
func recordFromRenderer(v gjson.Result, channelThumbs bool) SearchRecord {
	id := v.Get("videoId").String()

	rec := SearchRecord{
		ID:               id,
		Title:            stringOr(v.Get("title.runs.0.text"), "No title"),
		ChannelName:      stringOr(v.Get("longBylineText.runs.0.text"), "Channel"),
		ChannelKey:       stringOr(v.Get("longBylineText.runs.0.navigationEndpoint.browseEndpoint.browseId"), id),
		DurationText:     stringOr(v.Get("lengthText.simpleText"), "LIVE"),
		RawViewText:      v.Get("shortViewCountText.simpleText").String(),
		RawPublishedText: v.Get("publishedTimeText.simpleText").String(),
	}

	if channelThumbs {
		rec.ThumbnailURL = v.Get("channelThumbnailSupportedRenderers.channelThumbnailWithLinkRenderer.thumbnail.thumbnails.0.url").String()
	} else {
		rec.ThumbnailURL = v.Get("thumbnail.thumbnails.0.url").String()
	}
	return rec
}

func stringOr(r gjson.Result, def string) string {
	if s := r.String(); s != "" {
		return s
	}
	return def
}
