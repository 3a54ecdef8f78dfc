package network

import (
	goLog "log"
	"net/http"
	"strings"

	ghandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	logging "github.com/inconshreveable/log15"
	"golang.org/x/net/http2"

	"boscoin.io/ballotbox/lib/errors"
)

const (
	RouterNameAPI    = "api"
	RouterNameMetric = "metric"
)

const (
	UrlPathPrefixAPI    = "/api/v1"
	UrlPathPrefixMetric = "/metrics"
)

type HTTPServer struct {
	server *http.Server
	router *mux.Router

	routers map[string]*mux.Router
	cors    []ghandlers.CORSOption

	config HTTPServerConfig
	log    logging.Logger
}

func NewHTTPServer(config HTTPServerConfig) *HTTPServer {
	httpLog := log.New(logging.Ctx{"module": "http", "node": config.NodeName})
	errorLog := goLog.New(HTTPErrorLog15Writer{httpLog}, "", 0)

	server := &http.Server{
		Addr:              config.Addr,
		ReadTimeout:       config.ReadTimeout,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
		WriteTimeout:      config.WriteTimeout,
		IdleTimeout:       config.IdleTimeout,
		ErrorLog:          errorLog,
	}
	server.SetKeepAlivesEnabled(true)

	http2.ConfigureServer(
		server,
		&http2.Server{
			IdleTimeout: config.IdleTimeout,
		},
	)

	baseRouter := mux.NewRouter()

	s := &HTTPServer{
		server: server,
		router: baseRouter,
		config: config,
		log:    httpLog,
	}
	s.routers = map[string]*mux.Router{
		RouterNameAPI:    baseRouter.PathPrefix(UrlPathPrefixAPI).Subrouter(),
		RouterNameMetric: baseRouter.PathPrefix(UrlPathPrefixMetric).Subrouter(),
	}

	s.server.Handler = s.Handler()

	return s
}

func (s *HTTPServer) Config() HTTPServerConfig {
	return s.config
}

func (s *HTTPServer) Router(routerName string) (*mux.Router, bool) {
	r, found := s.routers[routerName]
	return r, found
}

// SetCORS enables CORS for every router. The preflight requests are
// answered before routing.
func (s *HTTPServer) SetCORS(opts ...ghandlers.CORSOption) {
	s.cors = opts
}

// Handler wraps the router with the request logger and, if
// `HTTPLogOutput` is set, the access log in the apache combined format.
func (s *HTTPServer) Handler() http.Handler {
	var handler http.Handler = s.router
	if len(s.cors) > 0 {
		handler = ghandlers.CORS(s.cors...)(handler)
	}

	handler = HTTPLog15Handler{log: s.log, handler: handler}
	if s.config.HTTPLogOutput != nil {
		handler = ghandlers.CombinedLoggingHandler(s.config.HTTPLogOutput, handler)
	}

	return handler
}

func (s *HTTPServer) AddMiddleware(routerName string, mws ...mux.MiddlewareFunc) error {
	var r *mux.Router
	if len(routerName) < 1 {
		r = s.router
	} else {
		var ok bool
		if r, ok = s.routers[routerName]; !ok {
			return errors.NotMatchedHTTPRouter
		}
	}
	for _, mw := range mws {
		r.Use(mw)
	}
	return nil
}

func (s *HTTPServer) AddHandler(pattern string, handler http.Handler) (router *mux.Route) {
	var routerName string
	var prefix string
	switch {
	case strings.HasPrefix(pattern, UrlPathPrefixAPI):
		routerName = RouterNameAPI
		prefix = pattern[len(UrlPathPrefixAPI):]
	case strings.HasPrefix(pattern, UrlPathPrefixMetric):
		routerName = RouterNameMetric
		prefix = pattern[len(UrlPathPrefixMetric):]
	default:
		return s.router.Handle(pattern, handler)
	}

	r := s.routers[routerName]

	// if a pattern has a suffix *,the router sets path prefix and handler
	if strings.HasSuffix(prefix, "*") {
		pathPrefix := strings.TrimSuffix(prefix, "*")
		return r.PathPrefix(pathPrefix).Handler(handler)
	}
	return r.Handle(prefix, handler)
}

// Ready applies the handlers and middlewares added so far; it must be
// called before `Start`.
func (s *HTTPServer) Ready() {
	s.server.Handler = s.Handler()
}

// Start blocks until the server is stopped. Stopping is not an error.
func (s *HTTPServer) Start() (err error) {
	s.log.Info("starting http server", "endpoint", s.config.Endpoint.String())

	if s.config.IsHTTPS() {
		err = s.server.ListenAndServeTLS(s.config.TLSCertFile, s.config.TLSKeyFile)
	} else {
		err = s.server.ListenAndServe()
	}

	if err == http.ErrServerClosed {
		err = nil
	}

	return
}

func (s *HTTPServer) Stop() {
	s.server.Close()
}
