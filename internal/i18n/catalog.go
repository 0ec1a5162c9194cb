// Package i18n loads translation catalogs used to fill command descriptions
// and their per-locale variants.
package i18n

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/language"
)

var DefaultLocale = language.AmericanEnglish

// Catalog maps description keys to text in the default locale and any
// number of Discord-supported locales.
type Catalog struct {
	fallback discordgo.Locale
	entries  map[discordgo.Locale]map[string]string
}

func NewCatalog(fallback language.Tag) (*Catalog, error) {
	locale, err := discordLocale(fallback)
	if err != nil {
		return nil, err
	}
	return &Catalog{
		fallback: locale,
		entries:  make(map[discordgo.Locale]map[string]string),
	}, nil
}

// Load reads every <locale>.json file in dir. The fallback locale file must
// exist.
func Load(dir string, fallback language.Tag) (*Catalog, error) {
	c, err := NewCatalog(fallback)
	if err != nil {
		return nil, err
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}

	for _, path := range files {
		name := strings.TrimSuffix(filepath.Base(path), ".json")

		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: invalid locale %q: %w", path, name, err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}

		var entries map[string]string
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", path, err)
		}

		if err := c.Add(tag, entries); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", path, err)
		}
		slog.Debug("Loaded catalog", "locale", tag.String(), "entries", len(entries))
	}

	if _, ok := c.entries[c.fallback]; !ok {
		return nil, fmt.Errorf("no catalog for fallback locale %s in %s", c.fallback, dir)
	}

	return c, nil
}

func (c *Catalog) Add(tag language.Tag, entries map[string]string) error {
	locale, err := discordLocale(tag)
	if err != nil {
		return err
	}

	dst, ok := c.entries[locale]
	if !ok {
		dst = make(map[string]string, len(entries))
		c.entries[locale] = dst
	}
	for k, v := range entries {
		dst[k] = v
	}
	return nil
}

// Resolve returns the fallback text for key and its translations in every
// other locale that has one.
func (c *Catalog) Resolve(key string) (string, map[discordgo.Locale]string, bool) {
	text, ok := c.entries[c.fallback][key]
	if !ok {
		return "", nil, false
	}

	var locs map[discordgo.Locale]string
	for locale, entries := range c.entries {
		if locale == c.fallback {
			continue
		}
		if v, ok := entries[key]; ok && v != "" {
			if locs == nil {
				locs = make(map[discordgo.Locale]string)
			}
			locs[locale] = v
		}
	}

	return text, locs, true
}

func (c *Catalog) Locales() []discordgo.Locale {
	out := make([]discordgo.Locale, 0, len(c.entries))
	for locale := range c.entries {
		out = append(out, locale)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func discordLocale(tag language.Tag) (discordgo.Locale, error) {
	locale := discordgo.Locale(tag.String())
	if _, ok := discordgo.Locales[locale]; !ok {
		return "", fmt.Errorf("locale %s is not supported by Discord", tag)
	}
	return locale, nil
}
