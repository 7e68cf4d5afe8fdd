package sources

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// videoRenderer builds a fully populated videoRenderer JSON object.
func videoRenderer(id string) string {
	return fmt.Sprintf(`{
		"videoId": %[1]q,
		"title": {"runs": [{"text": "Title %[1]s"}]},
		"longBylineText": {"runs": [{
			"text": "Channel %[1]s",
			"navigationEndpoint": {"browseEndpoint": {"browseId": "UC%[1]s"}}
		}]},
		"lengthText": {"simpleText": "10:03"},
		"shortViewCountText": {"simpleText": "1.2M views"},
		"publishedTimeText": {"simpleText": "3 days ago"},
		"thumbnail": {"thumbnails": [{"url": "https://i.ytimg.com/vi/%[1]s/default.jpg"}]},
		"channelThumbnailSupportedRenderers": {"channelThumbnailWithLinkRenderer": {
			"thumbnail": {"thumbnails": [{"url": "//yt3.ggpht.com/%[1]s"}]}
		}}
	}`, id)
}

// searchPage wraps item-section JSON arrays into a full results-page body.
func searchPage(sections ...[]string) []byte {
	var sectionJSON []string
	for _, items := range sections {
		var wrapped []string
		for _, item := range items {
			wrapped = append(wrapped, `{"videoRenderer":`+item+`}`)
		}
		sectionJSON = append(sectionJSON,
			`{"itemSectionRenderer":{"contents":[`+strings.Join(wrapped, ",")+`]}}`)
	}
	payload := `{"contents":{"twoColumnSearchResultsRenderer":{"primaryContents":{"sectionListRenderer":{"contents":[` +
		strings.Join(sectionJSON, ",") + `]}}}}}`
	return []byte("<html><body><script>var ytInitialData = " + payload + ";</script></body></html>")
}

func TestSearchURL(t *testing.T) {
	got := SearchURL("golang tutorial")
	assert.Equal(t, "https://www.youtube.com/results?search_query=golang+tutorial", got)
}

func TestExtractSearchRecords(t *testing.T) {
	t.Run("full record", func(t *testing.T) {
		recs, err := ExtractSearchRecords(searchPage([]string{videoRenderer("abc")}), false, 5)
		require.NoError(t, err)
		require.Len(t, recs, 1)

		r := recs[0]
		assert.Equal(t, "abc", r.ID)
		assert.Equal(t, "Title abc", r.Title)
		assert.Equal(t, "Channel abc", r.ChannelName)
		assert.Equal(t, "UCabc", r.ChannelKey)
		assert.Equal(t, "10:03", r.DurationText)
		assert.Equal(t, "1.2M views", r.RawViewText)
		assert.Equal(t, "3 days ago", r.RawPublishedText)
		assert.Equal(t, "https://i.ytimg.com/vi/abc/default.jpg", r.ThumbnailURL)
	})

	t.Run("channel thumbnail mode", func(t *testing.T) {
		recs, err := ExtractSearchRecords(searchPage([]string{videoRenderer("abc")}), true, 5)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "//yt3.ggpht.com/abc", recs[0].ThumbnailURL)
	})

	t.Run("defaults for absent fields", func(t *testing.T) {
		recs, err := ExtractSearchRecords(searchPage([]string{`{"videoId":"xyz"}`}), false, 5)
		require.NoError(t, err)
		require.Len(t, recs, 1)

		r := recs[0]
		assert.Equal(t, "No title", r.Title)
		assert.Equal(t, "Channel", r.ChannelName)
		assert.Equal(t, "xyz", r.ChannelKey, "channel key falls back to the video ID")
		assert.Equal(t, "LIVE", r.DurationText)
		assert.Empty(t, r.RawViewText)
		assert.Empty(t, r.ThumbnailURL)
	})

	t.Run("truncates to max in document order", func(t *testing.T) {
		var items []string
		for i := 0; i < 20; i++ {
			items = append(items, videoRenderer(fmt.Sprintf("vid%02d", i)))
		}
		recs, err := ExtractSearchRecords(searchPage(items), false, 5)
		require.NoError(t, err)
		require.Len(t, recs, 5)
		for i, r := range recs {
			assert.Equal(t, fmt.Sprintf("vid%02d", i), r.ID)
		}
	})

	t.Run("early exit spans sections", func(t *testing.T) {
		recs, err := ExtractSearchRecords(searchPage(
			[]string{videoRenderer("a"), videoRenderer("b")},
			[]string{videoRenderer("c"), videoRenderer("d")},
		), false, 3)
		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, "c", recs[2].ID)
	})

	t.Run("non-video entries skipped", func(t *testing.T) {
		body := searchPage([]string{videoRenderer("a")})
		// splice a foreign renderer ahead of the video
		patched := strings.Replace(string(body), `{"videoRenderer":`,
			`{"shelfRenderer":{"title":"x"}},{"videoRenderer":`, 1)
		recs, err := ExtractSearchRecords([]byte(patched), false, 5)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "a", recs[0].ID)
	})

	t.Run("parsed but empty payload is no error", func(t *testing.T) {
		body := []byte(`<script>var ytInitialData = {"contents":{}};</script>`)
		recs, err := ExtractSearchRecords(body, false, 5)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("missing marker prefix", func(t *testing.T) {
		_, err := ExtractSearchRecords([]byte("<html>nothing here</html>"), false, 5)
		require.ErrorIs(t, err, ErrExtractionFailed)
	})

	t.Run("missing marker suffix", func(t *testing.T) {
		_, err := ExtractSearchRecords([]byte(`var ytInitialData = {"contents":{}}`), false, 5)
		require.ErrorIs(t, err, ErrExtractionFailed)
	})

	t.Run("malformed JSON between markers", func(t *testing.T) {
		_, err := ExtractSearchRecords([]byte(`var ytInitialData = {broken;</script>`), false, 5)
		require.ErrorIs(t, err, ErrExtractionFailed)
	})
}
