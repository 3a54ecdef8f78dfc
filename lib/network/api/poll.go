package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"boscoin.io/ballotbox/lib/common/observer"
	"boscoin.io/ballotbox/lib/network/httputils"
	"boscoin.io/ballotbox/lib/poll"
)

type PostPollRequest struct {
	Sender   string   `json:"sender"`
	PollID   string   `json:"poll_id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type PostBallotRequest struct {
	Sender string `json:"sender"`
	Option string `json:"option"`
}

func (api NetworkHandlerAPI) GetConfigHandler(w http.ResponseWriter, r *http.Request) {
	var config poll.ConfigResponse
	if err := api.query(poll.QueryConfig, nil, &config); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.WriteJSON(w, http.StatusOK, config)
}

func (api NetworkHandlerAPI) GetPollsHandler(w http.ResponseWriter, r *http.Request) {
	var polls poll.AllPollsResponse
	if err := api.query(poll.QueryAllPolls, nil, &polls); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.WriteJSON(w, http.StatusOK, polls)
}

// GetPollHandler returns `{"poll": null}` for an unknown poll. With
// `Accept: text/event-stream` it streams the events of the poll instead.
func (api NetworkHandlerAPI) GetPollHandler(w http.ResponseWriter, r *http.Request) {
	pollID := mux.Vars(r)["id"]

	if httputils.IsEventStream(r) {
		event := observer.NewEvent(observer.ResourcePoll, observer.ConditionPollID, pollID).String()
		streaming(observer.ContractObserver, r, w, event, renderEventStream, nil)
		return
	}

	var p poll.PollResponse
	if err := api.query(poll.QueryPoll, poll.PollQueryMsg{PollID: pollID}, &p); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.WriteJSON(w, http.StatusOK, p)
}

func (api NetworkHandlerAPI) PostPollHandler(w http.ResponseWriter, r *http.Request) {
	var req PostPollRequest
	if err := decodeBody(r, &req); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	resp, err := api.execute(req.Sender, poll.MethodCreatePoll, poll.CreatePollMsg{
		PollID:   req.PollID,
		Question: req.Question,
		Options:  req.Options,
	})
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.WriteJSON(w, http.StatusCreated, resp)
}

func (api NetworkHandlerAPI) PostBallotHandler(w http.ResponseWriter, r *http.Request) {
	var req PostBallotRequest
	if err := decodeBody(r, &req); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	resp, err := api.execute(req.Sender, poll.MethodVote, poll.VoteMsg{
		PollID: mux.Vars(r)["id"],
		Vote:   req.Option,
	})
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.WriteJSON(w, http.StatusOK, resp)
}

func (api NetworkHandlerAPI) GetBallotHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var v poll.VoteResponse
	if err := api.query(poll.QueryVote, poll.VoteQueryMsg{PollID: vars["id"], Address: vars["address"]}, &v); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.WriteJSON(w, http.StatusOK, v)
}
