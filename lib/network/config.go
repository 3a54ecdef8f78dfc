package network

import (
	"errors"
	"io"
	"os"
	"time"

	"boscoin.io/ballotbox/lib/common"
)

type HTTPServerConfig struct {
	NodeName string
	Endpoint *common.Endpoint
	Addr     string

	ReadTimeout,
	ReadHeaderTimeout,
	WriteTimeout,
	IdleTimeout time.Duration

	TLSCertFile,
	TLSKeyFile string

	HTTPLogOutput io.Writer `json:"-"`
}

func parseTimeoutQuery(endpoint *common.Endpoint, key, defaultValue string) (d time.Duration, err error) {
	if d, err = time.ParseDuration(common.GetUrlQuery(endpoint.Query(), key, defaultValue)); err != nil {
		return
	}
	if d < 0*time.Second {
		err = errors.New("invalid '" + key + "'")
		return
	}

	return
}

// NewHTTPServerConfigFromEndpoint reads the server settings from the query
// of `endpoint`, like
// `https://0.0.0.0:12345?IdleTimeout=3s&TLSCertFile=a.crt&TLSKeyFile=a.key`.
func NewHTTPServerConfigFromEndpoint(endpoint *common.Endpoint) (config HTTPServerConfig, err error) {
	query := endpoint.Query()

	var ReadTimeout, ReadHeaderTimeout, WriteTimeout, IdleTimeout time.Duration
	var HTTPLogOutput io.Writer

	if ReadTimeout, err = parseTimeoutQuery(endpoint, "ReadTimeout", "0s"); err != nil {
		return
	}
	if ReadHeaderTimeout, err = parseTimeoutQuery(endpoint, "ReadHeaderTimeout", "0s"); err != nil {
		return
	}
	if WriteTimeout, err = parseTimeoutQuery(endpoint, "WriteTimeout", "0s"); err != nil {
		return
	}
	if IdleTimeout, err = parseTimeoutQuery(endpoint, "IdleTimeout", "5s"); err != nil {
		return
	}

	TLSCertFile := query.Get("TLSCertFile")
	TLSKeyFile := query.Get("TLSKeyFile")

	if endpoint.Scheme == "https" && (len(TLSCertFile) < 1 || len(TLSKeyFile) < 1) {
		err = errors.New("HTTPS needs `TLSCertFile` and `TLSKeyFile`")
		return
	}

	// access log is written only when `HTTPLogOutput` is given; "-" is
	// stdout.
	switch v := query.Get("HTTPLogOutput"); v {
	case "":
	case "-":
		HTTPLogOutput = os.Stdout
	default:
		HTTPLogOutput, err = os.OpenFile(v, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return
		}
	}

	config = HTTPServerConfig{
		NodeName:          common.GetUrlQuery(query, "NodeName", "ballotbox"),
		Endpoint:          endpoint,
		Addr:              endpoint.Host,
		ReadTimeout:       ReadTimeout,
		ReadHeaderTimeout: ReadHeaderTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
		TLSCertFile:       TLSCertFile,
		TLSKeyFile:        TLSKeyFile,
		HTTPLogOutput:     HTTPLogOutput,
	}

	return
}

func (config HTTPServerConfig) IsHTTPS() bool {
	return config.Endpoint.Scheme == "https"
}

func (config HTTPServerConfig) String() string {
	return string(common.MustMarshalJSON(config))
}
