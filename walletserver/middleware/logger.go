package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"synnergy-network/internal/metrics"
)

// Logger logs method, path and latency for every request.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logrus.Infof("%s %s %s", r.Method, r.RequestURI, time.Since(start))
	})
}

// BodyLimit caps the request body at max bytes, per spec §6's per-endpoint
// size limits. http.MaxBytesReader makes the body reader itself return an
// error once the cap is exceeded, so a handler's json.Decoder surfaces it
// as a normal decode failure.
func BodyLimit(max int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, max)
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Metrics records request counts, latency and (4xx/5xx) error codes per
// path on reg (internal/metrics.Registry), per the teacher's
// registry-driven observability pattern.
func Metrics(reg *metrics.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)

			code := ""
			if rec.status >= 400 {
				code = strconv.Itoa(rec.status)
			}
			reg.Observe(r.URL.Path, code, time.Since(start))
		})
	}
}

// WorkerLimit bounds the number of requests handled concurrently to n,
// per spec §5's "fixed-size worker pool (size from request parameter)
// services HTTP requests in parallel" scheduling model: net/http already
// runs one goroutine per connection, so the pool is modelled as a
// counting semaphore rather than a literal goroutine pool.
func WorkerLimit(n int) func(http.Handler) http.Handler {
	sem := make(chan struct{}, n)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sem <- struct{}{}
			defer func() { <-sem }()
			next.ServeHTTP(w, r)
		})
	}
}
