package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init(lang); err != nil {
		t.Fatalf("Init(%q): %v", lang, err)
	}
	loc := NewLocalizer(lang)
	return WithLocalizer(context.Background(), loc)
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "NavArchive")
	if got != "Archive" {
		t.Errorf("T(NavArchive) = %q, want 'Archive'", got)
	}

	got = T(ctx, "Field_studytime")
	if got != "Weekly study time" {
		t.Errorf("T(Field_studytime) = %q, want 'Weekly study time'", got)
	}
}

func TestTranslateRussian(t *testing.T) {
	ctx := initLang(t, "ru")

	got := T(ctx, "NavArchive")
	if got != "Архив" {
		t.Errorf("T(NavArchive) = %q, want 'Архив'", got)
	}

	got = T(ctx, "Predict")
	if got != "Спрогнозировать" {
		t.Errorf("T(Predict) = %q, want 'Спрогнозировать'", got)
	}
}

func TestPluralTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	if got := Tp(ctx, "TotalRecords", 1); got != "1 record" {
		t.Errorf("Tp(TotalRecords, 1) = %q, want '1 record'", got)
	}
	if got := Tp(ctx, "TotalRecords", 95); got != "95 records" {
		t.Errorf("Tp(TotalRecords, 95) = %q, want '95 records'", got)
	}

	ru := WithLocalizer(context.Background(), NewLocalizer("ru"))
	if got := Tp(ru, "TotalRecords", 5); got != "5 записей" {
		t.Errorf("Tp(ru TotalRecords, 5) = %q, want '5 записей'", got)
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got := Td(ctx, "PageNofM", map[string]any{"N": 2, "M": 4})
	if got != "Page 2 of 4" {
		t.Errorf("Td(PageNofM) = %q, want 'Page 2 of 4'", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "NonExistentKey")
	if got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

func TestMatch(t *testing.T) {
	initLang(t, "en")

	tests := []struct {
		prefs []string
		want  string
	}{
		{[]string{"ru"}, "ru"},
		{[]string{"", "ru-RU,ru;q=0.9,en;q=0.8", "en"}, "ru"},
		{[]string{"en", "ru"}, "en"},
		{[]string{"de-DE", "en"}, "en"},
		{[]string{"not a language"}, "en"},
		{nil, "en"},
	}

	for _, tt := range tests {
		if got := Match(tt.prefs...); got != tt.want {
			t.Errorf("Match(%q) = %q, want %q", tt.prefs, got, tt.want)
		}
	}
}

func TestMiddleware(t *testing.T) {
	initLang(t, "en")

	var gotLang, gotTitle string
	h := Middleware("en")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLang = Lang(r.Context())
		gotTitle = T(r.Context(), "NavHome")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ru")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if gotLang != "ru" || gotTitle != "Главная" {
		t.Errorf("Accept-Language ru: lang=%q title=%q", gotLang, gotTitle)
	}

	req = httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	req.Header.Set("Accept-Language", "ru")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if gotLang != "en" || gotTitle != "Home" {
		t.Errorf("lang=en override: lang=%q title=%q", gotLang, gotTitle)
	}
}

func TestInitUnknownDefaultFallsBackToEnglish(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"fr", "en"},
		{"en-US", "en"},
		{"ru-RU", "ru"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			if err := Init(tt.lang); err != nil {
				t.Fatalf("Init(%q): %v", tt.lang, err)
			}
			if got := Match(); got != tt.want {
				t.Errorf("Match() = %q, want %q", got, tt.want)
			}
			if got := Match(tt.lang); got != tt.want {
				t.Errorf("Match(%q) = %q, want %q", tt.lang, got, tt.want)
			}
		})
	}

	if err := Init("fr"); err != nil {
		t.Fatal(err)
	}
	var gotLang, gotTitle string
	h := Middleware("fr")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLang = Lang(r.Context())
		gotTitle = T(r.Context(), "NavArchive")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if gotLang != "en" || gotTitle != "Archive" {
		t.Errorf("fallback fr: lang=%q title=%q", gotLang, gotTitle)
	}

	// restore the default for the remaining tests
	if err := Init("en"); err != nil {
		t.Fatal(err)
	}
}
