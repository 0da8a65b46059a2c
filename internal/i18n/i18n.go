// Package i18n holds the UI message bundle and per-request localizers.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

var jsonUnmarshal = json.Unmarshal

//go:embed locales/*.json
var localeFS embed.FS

type (
	ctxKey  struct{}
	langKey struct{}
)

var (
	bundle    *i18n.Bundle
	supported []language.Tag
	matcher   language.Matcher
)

// Init loads the translation bundle with lang as the default language. A
// language without a locale file falls back to English.
func Init(lang string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("parse language %q: %w", lang, err)
	}

	b, err := loadBundle(tag)
	if err != nil {
		return err
	}
	def, ok := loadedTag(b, tag)
	if !ok {
		slog.Warn("no locale file for default language, using English", "lang", lang)
		def = language.English
	}
	if def != tag {
		if b, err = loadBundle(def); err != nil {
			return err
		}
	}
	bundle = b

	// The default language goes first so the matcher falls back to it.
	supported = []language.Tag{def}
	for _, t := range bundle.LanguageTags() {
		if t != def {
			supported = append(supported, t)
		}
	}
	matcher = language.NewMatcher(supported)
	return nil
}

func loadBundle(tag language.Tag) (*i18n.Bundle, error) {
	b := i18n.NewBundle(tag)
	b.RegisterUnmarshalFunc("json", jsonUnmarshal)

	// Load all locale files from embedded FS.
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read locale file %s: %w", e.Name(), err)
		}
		if _, err := b.ParseMessageFileBytes(data, e.Name()); err != nil {
			return nil, fmt.Errorf("parse locale file %s: %w", e.Name(), err)
		}
		slog.Debug("loaded locale file", "file", e.Name())
	}
	return b, nil
}

// loadedTag returns the loaded locale sharing tag's base language.
func loadedTag(b *i18n.Bundle, tag language.Tag) (language.Tag, bool) {
	want, _ := tag.Base()
	for _, t := range b.LanguageTags() {
		if base, _ := t.Base(); base == want {
			return t, true
		}
	}
	return language.Und, false
}

// Supported returns the loaded languages, default first.
func Supported() []language.Tag {
	return supported
}

// Match picks the best loaded language for the given preferences, which may
// be explicit language codes or Accept-Language header values.
func Match(prefs ...string) string {
	if matcher == nil {
		return "en"
	}
	var tags []language.Tag
	for _, p := range prefs {
		if p == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	_, idx, _ := matcher.Match(tags...)
	base, _ := supported[idx].Base()
	return base.String()
}

// NewLocalizer creates a localizer for the given language, falling back to
// the bundle default.
func NewLocalizer(lang string) *i18n.Localizer {
	return i18n.NewLocalizer(bundle, lang)
}

// WithLocalizer stores a localizer in the context.
func WithLocalizer(ctx context.Context, loc *i18n.Localizer) context.Context {
	return context.WithValue(ctx, ctxKey{}, loc)
}

// WithLang records the negotiated language code in the context.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// Lang returns the negotiated language code, "en" if none was set.
func Lang(ctx context.Context) string {
	if lang, ok := ctx.Value(langKey{}).(string); ok {
		return lang
	}
	return "en"
}

// localizerFromCtx retrieves the localizer from context.
func localizerFromCtx(ctx context.Context) *i18n.Localizer {
	if loc, ok := ctx.Value(ctxKey{}).(*i18n.Localizer); ok {
		return loc
	}
	// Fallback: return English localizer.
	return i18n.NewLocalizer(bundle, "en")
}

// T translates a message by ID.
func T(ctx context.Context, msgID string) string {
	loc := localizerFromCtx(ctx)
	s, err := loc.Localize(&i18n.LocalizeConfig{MessageID: msgID})
	if err != nil {
		slog.Warn("missing translation", "id", msgID, "error", err)
		return msgID
	}
	return s
}

// Td translates a message by ID with template data.
func Td(ctx context.Context, msgID string, data map[string]any) string {
	loc := localizerFromCtx(ctx)
	s, err := loc.Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: data,
	})
	if err != nil {
		slog.Warn("missing translation", "id", msgID, "error", err)
		return msgID
	}
	return s
}

// Tp translates a pluralized message by ID.
func Tp(ctx context.Context, msgID string, count int) string {
	loc := localizerFromCtx(ctx)
	s, err := loc.Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
	if err != nil {
		slog.Warn("missing translation", "id", msgID, "error", err)
		return msgID
	}
	return s
}
