package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

func loggingMiddleware(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now().UTC()
		next.ServeHTTP(w, r)
		logger.Printf("%s %s from=%s req_id=%s dur=%s",
			r.Method, r.URL.Path, r.RemoteAddr, w.Header().Get("X-Request-Id"), time.Since(start))
	})
}

// requestIDMiddleware tags every response with an X-Request-Id so a
// front-desk report ("the reader said invalid at 14:02") can be matched to
// a server log line.  An id supplied by the caller is kept.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}
