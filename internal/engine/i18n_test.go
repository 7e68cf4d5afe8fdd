package engine

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetectLang(t *testing.T) {
	t.Run("override wins", func(t *testing.T) {
		t.Setenv("LC_ALL", "")
		t.Setenv("LANG", "en_US.UTF-8")
		if got := DetectLang("pt_BR.UTF-8"); got != "pt" {
			t.Errorf("got %q, want pt", got)
		}
	})

	t.Run("falls back to LANG", func(t *testing.T) {
		t.Setenv("LC_ALL", "")
		t.Setenv("LANG", "de_DE.UTF-8")
		if got := DetectLang(""); got != "de" {
			t.Errorf("got %q, want de", got)
		}
	})

	t.Run("defaults to en", func(t *testing.T) {
		t.Setenv("LC_ALL", "")
		t.Setenv("LANG", "")
		if got := DetectLang(""); got != "en" {
			t.Errorf("got %q, want en", got)
		}
	})
}

func TestLoadTranslations(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("en.json", `{"search_prompt": "Type to search"}`)
	write("pt.json", `{"search_prompt": "Digite para pesquisar"}`)

	t.Run("loads requested language", func(t *testing.T) {
		tr := LoadTranslations(dir, "pt")
		if got := tr.Lookup("search_prompt", "fallback"); got != "Digite para pesquisar" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("falls back to english", func(t *testing.T) {
		tr := LoadTranslations(dir, "fr")
		if got := tr.Lookup("search_prompt", "fallback"); got != "Type to search" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("missing dir yields empty table", func(t *testing.T) {
		tr := LoadTranslations(filepath.Join(dir, "nope"), "en")
		if got := tr.Lookup("search_prompt", "fallback"); got != "fallback" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("lookup default on missing key", func(t *testing.T) {
		tr := LoadTranslations(dir, "en")
		if got := tr.Lookup("unknown_key", "default text"); got != "default text" {
			t.Errorf("got %q", got)
		}
	})
}
