package network

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	ghandlers "github.com/gorilla/handlers"
	"github.com/stretchr/testify/require"

	"boscoin.io/ballotbox/lib/common"
	"boscoin.io/ballotbox/lib/errors"
	"boscoin.io/ballotbox/lib/network/httputils"
)

func newTestHTTPServer(t *testing.T) *HTTPServer {
	endpoint, err := common.ParseEndpoint("http://localhost:12345")
	require.NoError(t, err)

	config, err := NewHTTPServerConfigFromEndpoint(endpoint)
	require.NoError(t, err)

	return NewHTTPServer(config)
}

func getBody(t *testing.T, url string) (int, []byte) {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, b
}

func TestHTTPServerAddHandler(t *testing.T) {
	s := newTestHTTPServer(t)

	s.AddHandler(UrlPathPrefixAPI+"/hello", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("api"))
	}))
	s.AddHandler(UrlPathPrefixMetric+"*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("metric"))
	}))
	s.AddHandler("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("root"))
	}))

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	{
		status, b := getBody(t, ts.URL+UrlPathPrefixAPI+"/hello")
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "api", string(b))
	}
	{
		status, b := getBody(t, ts.URL+UrlPathPrefixMetric)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "metric", string(b))
	}
	{
		status, b := getBody(t, ts.URL+"/")
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "root", string(b))
	}
	{
		status, _ := getBody(t, ts.URL+UrlPathPrefixAPI+"/unknown")
		require.Equal(t, http.StatusNotFound, status)
	}
}

func TestHTTPServerAddMiddleware(t *testing.T) {
	s := newTestHTTPServer(t)

	err := s.AddMiddleware("unknown", MetricsMiddleware)
	require.True(t, errors.NotMatchedHTTPRouter.Equal(err))

	require.NoError(t, s.AddMiddleware(RouterNameAPI, RecoverMiddleware(log, false)))
	require.NoError(t, s.AddMiddleware(RouterNameAPI, MetricsMiddleware))

	s.AddHandler(UrlPathPrefixAPI+"/panic", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("showme")
	}))

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	status, b := getBody(t, ts.URL+UrlPathPrefixAPI+"/panic")
	require.Equal(t, http.StatusInternalServerError, status)

	var problem httputils.Problem
	require.NoError(t, json.Unmarshal(b, &problem))
	require.Equal(t, http.StatusInternalServerError, problem.Status)
	require.Equal(t, "panic: showme", problem.Detail)
}

func TestHTTPServerCORS(t *testing.T) {
	s := newTestHTTPServer(t)
	s.SetCORS(
		ghandlers.AllowedOrigins([]string{"*"}),
		ghandlers.AllowedMethods([]string{"GET", "POST"}),
		ghandlers.AllowedHeaders([]string{"Content-Type"}),
	)
	s.AddHandler(UrlPathPrefixAPI+"/hello", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("api"))
	})).Methods("POST")

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	req, err := http.NewRequest("OPTIONS", ts.URL+UrlPathPrefixAPI+"/hello", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
