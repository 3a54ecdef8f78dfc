package network

import (
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	logging "github.com/inconshreveable/log15"
	"github.com/ulule/limiter"
	"github.com/ulule/limiter/drivers/store/memory"

	"boscoin.io/ballotbox/lib/common"
	"boscoin.io/ballotbox/lib/metrics"
	"boscoin.io/ballotbox/lib/network/httputils"
)

func RecoverMiddleware(logger logging.Logger, printStack bool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("panic: %v", r)
					}
					httputils.WriteJSON(
						w,
						http.StatusInternalServerError,
						httputils.NewDetailedStatusProblem(http.StatusInternalServerError, err.Error()),
					)
					logger.Error("recover an panic", "err", err)
					if printStack == true {
						debug.PrintStack()
					}
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

// RateLimitMiddleware limits the requests per client ip; the rate of
// `rule.ByIPAddress` is used over `rule.Default`. The rate, which limit is 0
// is unlimited.
func RateLimitMiddleware(logger logging.Logger, rule common.RateLimitRule) mux.MiddlewareFunc {
	store := memory.NewStore()

	defaultLimiter := limiter.New(store, rule.Default)
	byIPAddress := map[string]*limiter.Limiter{}
	for ip, rate := range rule.ByIPAddress {
		byIPAddress[ip] = limiter.New(store, rate)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := remoteIP(r)

			lmt, found := byIPAddress[ip]
			if !found {
				lmt = defaultLimiter
			}

			if lmt.Rate.Limit < 1 {
				next.ServeHTTP(w, r)
				return
			}

			context, err := lmt.Get(r.Context(), ip)
			if err != nil {
				logger.Error("failed to check rate limit", "ip", ip, "error", err)
				httputils.WriteJSON(w, http.StatusInternalServerError, httputils.NewStatusProblem(http.StatusInternalServerError))
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(context.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(context.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(context.Reset, 10))

			if context.Reached {
				logger.Debug("rate limit reached", "ip", ip, "limit", context.Limit)
				httputils.WriteJSON(w, http.StatusTooManyRequests, httputils.NewStatusProblem(http.StatusTooManyRequests))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// MetricsMiddleware observes the requests by the path template of the
// matched route, not by the requested path.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()

		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				endpoint = tpl
			}
		}

		writer := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(writer, r)

		metrics.API.ObserveRequest(begin, endpoint, r.Method, writer.status)
	})
}
