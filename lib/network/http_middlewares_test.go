package network

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"boscoin.io/ballotbox/lib/common"
)

func newRateLimitTestServer(rule common.RateLimitRule) *httptest.Server {
	router := mux.NewRouter()
	router.Use(RateLimitMiddleware(log, rule))
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return httptest.NewServer(router)
}

func TestRateLimitMiddleware(t *testing.T) {
	ts := newRateLimitTestServer(common.NewRateLimitRule(common.MustParseRate("2-M")))
	defer ts.Close()

	for i := 0; i < 2; i++ {
		status, _ := getBody(t, ts.URL)
		require.Equal(t, http.StatusOK, status)
	}

	resp, err := http.Get(ts.URL)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
	require.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
}

func TestRateLimitMiddlewareUnlimited(t *testing.T) {
	ts := newRateLimitTestServer(common.NewRateLimitRule(common.MustParseRate("0-S")))
	defer ts.Close()

	for i := 0; i < 10; i++ {
		resp, err := http.Get(ts.URL)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Empty(t, resp.Header.Get("X-RateLimit-Limit"))
	}
}

func TestRateLimitMiddlewareByIPAddress(t *testing.T) {
	rule := common.NewRateLimitRule(common.MustParseRate("1-M"))
	rule.ByIPAddress["127.0.0.1"] = common.MustParseRate("0-S")

	ts := newRateLimitTestServer(rule)
	defer ts.Close()

	for i := 0; i < 3; i++ {
		status, _ := getBody(t, ts.URL)
		require.Equal(t, http.StatusOK, status)
	}
}
