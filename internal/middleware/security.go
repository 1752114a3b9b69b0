// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import "net/http"

// secureHeaders is the fixed set of response headers every API reply
// carries. The API serves JSON only, so the protections stay
// conservative: no MIME sniffing, no cross-origin framing, legacy XSS
// filter off, trimmed Referer, and FLoC opt-out.
var secureHeaders = map[string]string{
	"X-Content-Type-Options": "nosniff",
	"X-Frame-Options":        "SAMEORIGIN",
	"X-XSS-Protection":       "0",
	"Referrer-Policy":        "strict-origin-when-cross-origin",
	"Permissions-Policy":     "interest-cohort=()",
}

// SecureHeaders stamps secureHeaders onto every response before the
// next handler runs.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for name, value := range secureHeaders {
			h.Set(name, value)
		}
		next.ServeHTTP(w, r)
	})
}
