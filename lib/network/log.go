package network

import (
	"net/http"

	"github.com/google/uuid"
	logging "github.com/inconshreveable/log15"

	"boscoin.io/ballotbox/lib/common"
)

type HTTPErrorLog15Writer struct {
	l logging.Logger
}

func (w HTTPErrorLog15Writer) Write(b []byte) (int, error) {
	w.l.Error("error", "error", string(b))
	return len(b), nil
}

type HTTPResponseLog15Writer struct {
	w      http.ResponseWriter
	status int
	size   int
}

func (l *HTTPResponseLog15Writer) Header() http.Header {
	return l.w.Header()
}

func (l *HTTPResponseLog15Writer) Write(b []byte) (int, error) {
	if l.status == 0 {
		l.status = http.StatusOK
	}

	size, err := l.w.Write(b)
	l.size += size
	return size, err
}

func (l *HTTPResponseLog15Writer) WriteHeader(s int) {
	l.w.WriteHeader(s)
	l.status = s
}

func (l *HTTPResponseLog15Writer) Status() int {
	return l.status
}

func (l *HTTPResponseLog15Writer) Size() int {
	return l.size
}

func (l *HTTPResponseLog15Writer) Flush() {
	f, ok := l.w.(http.Flusher)
	if ok {
		f.Flush()
	}
}

type HTTPLog15Handler struct {
	log     logging.Logger
	handler http.Handler
}

var HeaderKeyFiltered []string = []string{
	"Content-Length",
	"Content-Type",
	"Accept",
	"Accept-Encoding",
	"User-Agent",
}

// ServeHTTP will log in 2 phase, when request received and response sent. This
// was derived from github.com/gorilla/handlers/handlers.go
func (l HTTPLog15Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	uid := uuid.New().String()

	uri := r.RequestURI
	if r.ProtoMajor == 2 && r.Method == "CONNECT" {
		uri = r.Host
	}
	if uri == "" {
		uri = r.URL.RequestURI()
	}

	header := http.Header{}
	for key, value := range r.Header {
		if _, found := common.InStringArray(HeaderKeyFiltered, key); found {
			continue
		}
		header[key] = value
	}

	l.log.Debug(
		"request",
		"content-length", r.ContentLength,
		"content-type", r.Header.Get("Content-Type"),
		"headers", header,
		"host", r.Host,
		"id", uid,
		"method", r.Method,
		"proto", r.Proto,
		"referer", r.Referer(),
		"remote", r.RemoteAddr,
		"uri", uri,
		"user-agent", r.UserAgent(),
	)

	writer := &HTTPResponseLog15Writer{w: w}
	l.handler.ServeHTTP(writer, r)

	l.log.Debug(
		"response",
		"id", uid,
		"status", writer.Status(),
		"size", writer.Size(),
	)
}
