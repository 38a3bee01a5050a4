package middleware

import "net/http"

// Vary marks responses as depending on Accept (JSON or CBOR) and on
// Authorization, since the same profile renders differently for its owner.
// Origin is added separately by CORS.
func Vary() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Accept")
			w.Header().Add("Vary", "Authorization")
			next.ServeHTTP(w, r)
		})
	}
}
