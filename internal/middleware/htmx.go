package middleware

import (
	"net/http"
)

// HTMX marks requests coming from htmx so handlers/middlewares can adapt responses
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := HTMXInfo{
			Request:        r.Header.Get("HX-Request") == "true",
			CurrentURL:     r.Header.Get("HX-Current-URL"),
			HistoryRestore: r.Header.Get("HX-History-Restore-Request") == "true",
			Target:         r.Header.Get("HX-Target"),
			Trigger:        r.Header.Get("HX-Trigger"),
		}
		// fragments and full pages share URLs
		addVary(w.Header(), "HX-Request")
		ctx := WithHTMX(r.Context(), info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
