package engine

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

// Translations is a flat key → localized-string table loaded from one
// translations/<lang>.json file.
type Translations map[string]string

// Lookup returns the translation for key, or def when the key is absent.
// It satisfies the lookup contract the engine is configured with.
func (t Translations) Lookup(key, def string) string {
	if v, ok := t[key]; ok {
		return v
	}
	return def
}

// DetectLang resolves the two-letter base language to load translations for.
// The override wins; otherwise LC_ALL / LANG are consulted. Anything
// unparseable falls back to "en".
func DetectLang(override string) string {
	candidates := []string{override, os.Getenv("LC_ALL"), os.Getenv("LANG")}
	for _, raw := range candidates {
		if raw == "" {
			continue
		}
		// "pt_BR.UTF-8" → "pt-BR"
		raw = strings.ReplaceAll(strings.SplitN(raw, ".", 2)[0], "_", "-")
		tag, err := language.Parse(raw)
		if err != nil {
			continue
		}
		base, _ := tag.Base()
		return base.String()
	}
	return "en"
}

// LoadTranslations reads dir/<lang>.json, falling back to dir/en.json and
// finally to an empty table. A missing or malformed file never fails the
// caller; untranslated keys simply resolve to their defaults.
func LoadTranslations(dir, lang string) Translations {
	for _, name := range []string{lang + ".json", "en.json"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var t Translations
		if err := json.Unmarshal(data, &t); err != nil {
			slog.Warn("i18n: malformed translation file", slog.String("path", path), slog.Any("error", err))
			continue
		}
		return t
	}
	slog.Debug("i18n: no translation file found, using defaults", slog.String("lang", lang))
	return Translations{}
}
