package api

import (
	"github.com/gorilla/mux"
)

// RegisterHandlers adds every api endpoint to `router`; `router` is expected
// to be the subrouter of the api url prefix.
func (api NetworkHandlerAPI) RegisterHandlers(router *mux.Router) {
	router.HandleFunc(GetConfigHandlerPattern, api.GetConfigHandler).Methods("GET")
	router.HandleFunc(GetPollsHandlerPattern, api.GetPollsHandler).Methods("GET")
	router.HandleFunc(PostPollHandlerPattern, api.PostPollHandler).
		Methods("POST").
		HeadersRegexp("Content-Type", "^application/json")
	router.HandleFunc(GetPollHandlerPattern, api.GetPollHandler).Methods("GET")
	router.HandleFunc(PostBallotHandlerPattern, api.PostBallotHandler).
		Methods("POST").
		HeadersRegexp("Content-Type", "^application/json")
	router.HandleFunc(GetBallotHandlerPattern, api.GetBallotHandler).Methods("GET")
}
