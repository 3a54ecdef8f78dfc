package httpcache

import (
	"net/http"
	"time"
)

type Adapter interface {
	Get(key string) (*Response, bool)
	Set(key string, response *Response, expiration time.Time)
	Remove(key string)
}

// Purger is implemented by adapters which can drop every cached response
// at once.
type Purger interface {
	Purge()
}

type Response struct {
	Value      []byte
	StatusCode int
	Header     http.Header
	Expiration time.Time
}
