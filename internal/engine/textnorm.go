package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// relativeDateWords is the fixed vocabulary of relative-time words appearing
// in "published" text. Singulars precede their plurals so each form is
// substituted by its own translation, never a partial one.
var relativeDateWords = []string{
	"ago", "hour", "hours", "day", "days", "week", "weeks",
	"month", "months", "year", "years", "minute", "minutes",
}

var relativeDateRE = func() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(relativeDateWords))
	for _, w := range relativeDateWords {
		res[w] = regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`)
	}
	return res
}()

// TranslateRelativeDate localizes relative-time words in published text
// ("3 days ago"). Only whole words are replaced; a channel called "Today"
// keeps its name. Unknown words pass through unchanged.
func TranslateRelativeDate(text string) string {
	if text == "" {
		return ""
	}
	out := strings.ToLower(text)
	for _, w := range relativeDateWords {
		out = relativeDateRE[w].ReplaceAllString(out, cfg.I18n(w, w))
	}
	return out
}

var viewNumberRE = regexp.MustCompile(`(\d+[\d.]*)`)

// FormatViewCount turns abbreviated view-count text ("1.2M views") into a
// compact localized form ("1 mi"). It fails soft: absent or unparseable
// input yields "".
//
// Magnitude markers are checked in strict priority order — billion before
// million before thousand — and the million check must reject "mil" and "k"
// so decimal abbreviations are not misclassified. The value is truncated,
// never rounded.
func FormatViewCount(raw string) string {
	if raw == "" {
		return ""
	}
	v := strings.ReplaceAll(strings.ToLower(raw), ",", ".")
	digits := viewNumberRE.FindString(v)
	if digits == "" {
		return ""
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(digits, "."), 64)
	if err != nil {
		return ""
	}
	n := int64(f)

	switch {
	case strings.Contains(v, "bi") || strings.Contains(v, "b"):
		return fmt.Sprintf("%d %s", n, cfg.I18n("suffix_billion", "bi"))
	case strings.Contains(v, "mi") ||
		(strings.Contains(v, "m") && !strings.Contains(v, "mil") && !strings.Contains(v, "k")):
		return fmt.Sprintf("%d %s", n, cfg.I18n("suffix_million", "mi"))
	case strings.Contains(v, "mil") || strings.Contains(v, "k"):
		return fmt.Sprintf("%d%s", n, cfg.I18n("suffix_thousand", " mil"))
	}
	return strconv.FormatInt(n, 10)
}
