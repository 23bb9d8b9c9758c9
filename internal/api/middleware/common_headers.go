package middleware

import (
	"net/http"
)

var _ http.ResponseWriter = (*commonHeadersWriter)(nil)

// commonHeadersWriter stamps a fixed set of headers onto every response
// just before the status line is written, so handlers never have to set
// them individually.
type commonHeadersWriter struct {
	w       http.ResponseWriter
	headers map[string]string
}

func (s commonHeadersWriter) WriteHeader(code int) {
	for k, v := range s.headers {
		s.Header().Set(k, v)
	}
	s.w.WriteHeader(code)
}

func (s commonHeadersWriter) Write(b []byte) (int, error) {
	return s.w.Write(b)
}

func (s commonHeadersWriter) Header() http.Header {
	return s.w.Header()
}

// NewCommonHeadersMiddleware stamps headers onto every response this
// gateway server sends, regardless of which route handled it.
func NewCommonHeadersMiddleware(headers map[string]string) Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(&commonHeadersWriter{w: w, headers: headers}, r)
		})
	}
}
