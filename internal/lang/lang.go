// Package lang holds the language packs of the report. Packs are YAML
// files embedded at build time; English is the fallback for missing keys.
package lang

import (
	"embed"
	"fmt"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fallback is the language used when a key or a language is missing.
const Fallback = "en"

//go:embed packs/*.yaml
var packFS embed.FS

// Pack is one language.
type Pack struct {
	Name    string            `yaml:"name"`
	Strings map[string]string `yaml:"strings"`
	Plugins map[string]string `yaml:"plugins"`
}

// Bundle is a read-only set of packs, safe for concurrent use.
type Bundle struct {
	packs       map[string]*Pack
	defaultLang string
}

// Load parses the embedded packs. defaultLang is used when a caller asks
// for an empty or unknown language.
func Load(defaultLang string) (*Bundle, error) {
	entries, err := packFS.ReadDir("packs")
	if err != nil {
		return nil, err
	}

	b := &Bundle{packs: make(map[string]*Pack, len(entries))}
	for _, entry := range entries {
		raw, err := packFS.ReadFile(path.Join("packs", entry.Name()))
		if err != nil {
			return nil, err
		}
		var p Pack
		if err := yaml.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("lang: parse %s: %w", entry.Name(), err)
		}
		code := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))
		b.packs[code] = &p
	}

	if _, ok := b.packs[Fallback]; !ok {
		return nil, fmt.Errorf("lang: fallback pack %q missing", Fallback)
	}
	b.defaultLang = Fallback
	if _, ok := b.packs[defaultLang]; ok {
		b.defaultLang = defaultLang
	}
	return b, nil
}

// MustLoad is Load for package initialisation and tests.
func MustLoad(defaultLang string) *Bundle {
	b, err := Load(defaultLang)
	if err != nil {
		panic(err)
	}
	return b
}

// Languages returns the available language codes, sorted.
func (b *Bundle) Languages() []string {
	codes := make([]string, 0, len(b.packs))
	for code := range b.packs {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// Resolve maps a requested language (e.g. "fr", "fr-CA", "") to an
// available one.
func (b *Bundle) Resolve(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if _, ok := b.packs[lang]; ok {
		return lang
	}
	if base, _, found := strings.Cut(lang, "-"); found {
		if _, ok := b.packs[base]; ok {
			return base
		}
	}
	return b.defaultLang
}

// Get returns the string for key, falling back to English and finally to
// "[[key]]" so that a missing string is visible rather than blank.
func (b *Bundle) Get(lang, key string) string {
	if s, ok := b.packs[b.Resolve(lang)].Strings[key]; ok {
		return s
	}
	if s, ok := b.packs[Fallback].Strings[key]; ok {
		return s
	}
	return "[[" + key + "]]"
}

// Getf formats the string for key with args.
func (b *Bundle) Getf(lang, key string, args ...any) string {
	return fmt.Sprintf(b.Get(lang, key), args...)
}

// PluginName returns the display name of a component (e.g. "mod_quiz") and
// whether one is known.
func (b *Bundle) PluginName(lang, component string) (string, bool) {
	if s, ok := b.packs[b.Resolve(lang)].Plugins[component]; ok {
		return s, true
	}
	s, ok := b.packs[Fallback].Plugins[component]
	return s, ok
}

// Localizer binds a bundle to one language for the duration of a request.
type Localizer struct {
	bundle *Bundle
	Lang   string
}

// For returns a Localizer for lang.
func (b *Bundle) For(lang string) Localizer {
	return Localizer{bundle: b, Lang: b.Resolve(lang)}
}

func (l Localizer) Get(key string) string { return l.bundle.Get(l.Lang, key) }

func (l Localizer) Getf(key string, args ...any) string { return l.bundle.Getf(l.Lang, key, args...) }

func (l Localizer) PluginName(component string) (string, bool) {
	return l.bundle.PluginName(l.Lang, component)
}

// Valid reports whether the Localizer is bound to a bundle.
func (l Localizer) Valid() bool { return l.bundle != nil }
