package api

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"

	"github.com/GianlucaGuarini/go-observable"

	"boscoin.io/ballotbox/lib/contract"
	"boscoin.io/ballotbox/lib/contract/payload"
	"boscoin.io/ballotbox/lib/errors"
	"boscoin.io/ballotbox/lib/event"
	"boscoin.io/ballotbox/lib/network/httputils"
	"boscoin.io/ballotbox/lib/poll"
)

// MaxRequestBodySize bounds the body of POST requests.
const MaxRequestBodySize int64 = 1 << 20

// API Endpoint patterns
const (
	GetConfigHandlerPattern  = "/config"
	GetPollsHandlerPattern   = "/polls"
	PostPollHandlerPattern   = "/polls"
	GetPollHandlerPattern    = "/polls/{id}"
	PostBallotHandlerPattern = "/polls/{id}/ballots"
	GetBallotHandlerPattern  = "/polls/{id}/ballots/{address}"
)

type NetworkHandlerAPI struct {
	executor *contract.Executor
}

func NewNetworkHandlerAPI(executor *contract.Executor) *NetworkHandlerAPI {
	return &NetworkHandlerAPI{
		executor: executor,
	}
}

func (api NetworkHandlerAPI) query(method string, args interface{}, v interface{}) error {
	code, err := payload.NewExecCode(poll.ContractAddress, method, args)
	if err != nil {
		return err
	}

	resp, err := api.executor.Query(code)
	if err != nil {
		return err
	}

	return resp.DecodeData(v)
}

func (api NetworkHandlerAPI) execute(sender, method string, args interface{}) (*payload.Response, error) {
	code, err := payload.NewExecCode(poll.ContractAddress, method, args)
	if err != nil {
		return nil, err
	}

	return api.executor.Execute(sender, code)
}

func decodeBody(r *http.Request, v interface{}) error {
	body, err := ioutil.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize))
	if err != nil {
		return errors.BadRequestParameter.Clone().SetData("error", err.Error())
	}

	if err := json.Unmarshal(body, v); err != nil {
		return errors.BadRequestParameter.Clone().SetData("error", err.Error())
	}

	return nil
}

func renderEventStream(args ...interface{}) ([]byte, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("render: value is empty")
	}

	sender, _ := args[0].(string)
	code, ok := args[1].(*payload.ExecCode)
	if !ok {
		return nil, fmt.Errorf("render: unknown value, %T", args[1])
	}
	resp, ok := args[2].(*payload.Response)
	if !ok {
		return nil, fmt.Errorf("render: unknown value, %T", args[2])
	}

	return event.NewEvent(sender, code, resp).Serialize()
}

// Implement `Server Sent Event`
// Listen event `event` thru `o`
// When the `event` triggered, `callBackFunc` fired
// readyChan is used to notify caller of this function that streaming is ready
// This function is not end until the connection is closed
func streaming(o *observable.Observable, r *http.Request, w http.ResponseWriter, event string, callBackFunc func(args ...interface{}) ([]byte, error), readyChan chan struct{}) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httputils.WriteJSON(w, http.StatusInternalServerError, httputils.NewStatusProblem(http.StatusInternalServerError))
		return
	}

	// consumerChan notify observerFunc that messageChan receiver is dismissed
	consumerChan := make(chan struct{})
	messageChan := make(chan []byte)

	observerFunc := func(args ...interface{}) {
		s, err := callBackFunc(args...)
		if err != nil {
			return
		}

		select {
		case messageChan <- s:
		case <-consumerChan:
		}
	}

	o.On(event, observerFunc)
	defer o.Off(event, observerFunc)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	if readyChan != nil {
		readyChan <- struct{}{}
	}
	for {
		select {
		case <-r.Context().Done():
			close(consumerChan)
			return
		case message := <-messageChan:
			fmt.Fprintf(w, "%s\n", message)
			flusher.Flush()
		}
	}
}
