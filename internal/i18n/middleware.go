package i18n

import "net/http"

// LangParam is the query parameter that overrides the negotiated language.
const LangParam = "lang"

// Middleware injects a localizer into every request context. The language is
// taken from the lang query parameter, then Accept-Language, then fallback.
func Middleware(fallback string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := Match(r.URL.Query().Get(LangParam), r.Header.Get("Accept-Language"), fallback)
			ctx := WithLocalizer(r.Context(), NewLocalizer(lang))
			ctx = WithLang(ctx, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
