package httpcache

import "net/http"

// NopClient is used when no cache adapter is configured.
type NopClient struct {
}

func (NopClient) Middleware(next http.Handler) http.Handler {
	return next
}

func (NopClient) WrapHandlerFunc(handlerFunc http.HandlerFunc) http.HandlerFunc {
	return handlerFunc
}

func NewNopClient() *NopClient {
	return &NopClient{}
}
