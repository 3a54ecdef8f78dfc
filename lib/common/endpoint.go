package common

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var DefaultEndpointPort int = 12345

type Endpoint url.URL

func NewEndpointFromURL(u *url.URL) *Endpoint {
	return (*Endpoint)(u)
}

func (e *Endpoint) String() string {
	return (&url.URL{
		Scheme: e.Scheme,
		Host:   e.Host,
		Path:   e.Path,
	}).String()
}

func (e *Endpoint) Query() url.Values {
	return (*url.URL)(e).Query()
}

func (e *Endpoint) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(e.String())), nil
}

func (e *Endpoint) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return err
	}

	p, err := ParseEndpoint(s)
	if err != nil {
		return err
	}

	*e = *p

	return nil
}

// ParseEndpoint accepts only `http` and `https` uri; a missing port falls
// back to `DefaultEndpointPort`.
func ParseEndpoint(endpoint string) (u *Endpoint, err error) {
	var parsed *url.URL
	parsed, err = url.Parse(endpoint)
	if err != nil {
		return
	}
	if len(parsed.Scheme) < 1 {
		err = errors.New("missing scheme")
		return
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		err = fmt.Errorf("unsupported scheme, '%s'", parsed.Scheme)
		return
	}

	if len(parsed.Port()) < 1 {
		parsed.Host = fmt.Sprintf("%s:%d", parsed.Hostname(), DefaultEndpointPort)
	}

	var portInt int64
	if portInt, err = strconv.ParseInt(parsed.Port(), 10, 64); err != nil {
		return
	} else if portInt < 1 {
		err = errors.New("invalid port")
		return
	}

	if len(parsed.Hostname()) < 1 {
		parsed.Host = fmt.Sprintf("localhost:%s", parsed.Port())
	}

	parsed.Host = strings.ToLower(parsed.Host)

	u = (*Endpoint)(parsed)

	return
}

func GetUrlQuery(query url.Values, key, defaultValue string) string {
	v := query.Get(key)
	if len(v) > 0 {
		return v
	}

	return defaultValue
}
