package api

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"boscoin.io/ballotbox/lib/common/keypair"
	"boscoin.io/ballotbox/lib/contract/payload"
	"boscoin.io/ballotbox/lib/errors"
	"boscoin.io/ballotbox/lib/event"
	"boscoin.io/ballotbox/lib/poll"
)

func doRequest(t *testing.T, method, url string, body interface{}) (int, []byte) {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, b
}

func requireProblem(t *testing.T, b []byte, e *errors.Error) {
	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &problem))
	require.Equal(t, float64(e.Code), problem["code"], string(b))
}

func TestConfigHandler(t *testing.T) {
	ts, executor := prepareAPIServer()
	defer ts.Close()
	defer executor.Storage().Close()

	status, b := doRequest(t, "GET", ts.URL+GetConfigHandlerPattern, nil)
	require.Equal(t, http.StatusNotFound, status)
	requireProblem(t, b, errors.NotInitialized)

	admin := keypair.Random().Address()
	code, _ := payload.NewExecCode(poll.ContractAddress, poll.MethodInstantiate, nil)
	_, err := executor.Execute(admin, code)
	require.NoError(t, err)

	status, b = doRequest(t, "GET", ts.URL+GetConfigHandlerPattern, nil)
	require.Equal(t, http.StatusOK, status)

	var config poll.ConfigResponse
	require.NoError(t, json.Unmarshal(b, &config))
	require.Equal(t, admin, config.Admin)
}

func TestPollHandlers(t *testing.T) {
	ts, executor := prepareAPIServer()
	defer ts.Close()
	defer executor.Storage().Close()

	creator := keypair.Random().Address()
	v1 := keypair.Random().Address()
	v2 := keypair.Random().Address()

	// create
	status, b := doRequest(t, "POST", ts.URL+PostPollHandlerPattern, PostPollRequest{
		Sender:   creator,
		PollID:   "p1",
		Question: "favourite?",
		Options:  []string{"A", "B", "C"},
	})
	require.Equal(t, http.StatusCreated, status, string(b))

	var created payload.Response
	require.NoError(t, json.Unmarshal(b, &created))
	pollID, _ := created.Attribute("poll_id")
	require.Equal(t, "p1", pollID)

	var p poll.Poll
	require.NoError(t, created.DecodeData(&p))
	require.Equal(t, creator, p.Creator)

	// votes
	ballotURL := ts.URL + fmt.Sprintf("/polls/%s/ballots", "p1")
	for _, v := range []struct {
		sender string
		option string
	}{{v1, "B"}, {v1, "C"}, {v2, "C"}} {
		status, b = doRequest(t, "POST", ballotURL, PostBallotRequest{Sender: v.sender, Option: v.option})
		require.Equal(t, http.StatusOK, status, string(b))
	}

	status, b = doRequest(t, "GET", ts.URL+"/polls/p1", nil)
	require.Equal(t, http.StatusOK, status)

	var pr poll.PollResponse
	require.NoError(t, json.Unmarshal(b, &pr))
	require.NotNil(t, pr.Poll)
	require.Equal(t, []poll.Option{{Option: "A", Tally: 0}, {Option: "B", Tally: 0}, {Option: "C", Tally: 2}}, pr.Poll.Options)

	status, b = doRequest(t, "GET", ballotURL+"/"+v1, nil)
	require.Equal(t, http.StatusOK, status)

	var vr poll.VoteResponse
	require.NoError(t, json.Unmarshal(b, &vr))
	require.Equal(t, "C", vr.Vote.Option)

	status, b = doRequest(t, "GET", ts.URL+GetPollsHandlerPattern, nil)
	require.Equal(t, http.StatusOK, status)

	var all poll.AllPollsResponse
	require.NoError(t, json.Unmarshal(b, &all))
	require.Equal(t, 1, len(all.Polls))
}

func TestPollHandlersAbsent(t *testing.T) {
	ts, executor := prepareAPIServer()
	defer ts.Close()
	defer executor.Storage().Close()

	status, b := doRequest(t, "GET", ts.URL+"/polls/missing", nil)
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"poll":null}`, string(b))

	status, b = doRequest(t, "GET", ts.URL+"/polls/missing/ballots/"+keypair.Random().Address(), nil)
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"vote":null}`, string(b))

	status, b = doRequest(t, "GET", ts.URL+GetPollsHandlerPattern, nil)
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"polls":[]}`, string(b))
}

func TestPollHandlersErrors(t *testing.T) {
	ts, executor := prepareAPIServer()
	defer ts.Close()
	defer executor.Storage().Close()

	sender := keypair.Random().Address()

	var options []string
	for i := 0; i < 11; i++ {
		options = append(options, fmt.Sprintf("%d", i))
	}
	status, b := doRequest(t, "POST", ts.URL+PostPollHandlerPattern, PostPollRequest{Sender: sender, PollID: "p1", Options: options})
	require.Equal(t, http.StatusBadRequest, status)
	requireProblem(t, b, errors.TooManyOptions)

	status, b = doRequest(t, "POST", ts.URL+PostPollHandlerPattern, PostPollRequest{Sender: "nobody", PollID: "p1"})
	require.Equal(t, http.StatusBadRequest, status)
	requireProblem(t, b, errors.InvalidIdentity)

	status, _ = doRequest(t, "POST", ts.URL+PostPollHandlerPattern, PostPollRequest{Sender: sender, PollID: "p1", Options: []string{"A"}})
	require.Equal(t, http.StatusCreated, status)

	status, b = doRequest(t, "POST", ts.URL+PostPollHandlerPattern, PostPollRequest{Sender: sender, PollID: "p1", Options: []string{"A"}})
	require.Equal(t, http.StatusConflict, status)
	requireProblem(t, b, errors.PollAlreadyExists)

	status, b = doRequest(t, "POST", ts.URL+"/polls/missing/ballots", PostBallotRequest{Sender: sender, Option: "A"})
	require.Equal(t, http.StatusNotFound, status)
	requireProblem(t, b, errors.PollNotFound)

	status, b = doRequest(t, "POST", ts.URL+"/polls/p1/ballots", PostBallotRequest{Sender: sender, Option: "Z"})
	require.Equal(t, http.StatusBadRequest, status)
	requireProblem(t, b, errors.OptionNonExistent)

	status, b = doRequest(t, "GET", ts.URL+"/polls/p1/ballots/invalid", nil)
	require.Equal(t, http.StatusBadRequest, status)
	requireProblem(t, b, errors.InvalidIdentity)

	status, b = doRequest(t, "POST", ts.URL+"/polls/p1/ballots", "not an object")
	require.Equal(t, http.StatusBadRequest, status)
	requireProblem(t, b, errors.BadRequestParameter)
}

func TestGetPollHandlerStream(t *testing.T) {
	ts, executor := prepareAPIServer()
	defer ts.Close()
	defer executor.Storage().Close()

	sender := keypair.Random().Address()
	status, _ := doRequest(t, "POST", ts.URL+PostPollHandlerPattern, PostPollRequest{Sender: sender, PollID: "p1", Options: []string{"A", "B"}})
	require.Equal(t, http.StatusCreated, status)

	req, err := http.NewRequest("GET", ts.URL+"/polls/p1", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// the response header is flushed after the observer is registered
	go func() {
		for _, option := range []string{"A", "B"} {
			time.Sleep(50 * time.Millisecond)
			b, _ := json.Marshal(PostBallotRequest{Sender: sender, Option: option})
			if resp, err := http.Post(ts.URL+"/polls/p1/ballots", "application/json", bytes.NewReader(b)); err == nil {
				resp.Body.Close()
			}
		}
	}()

	reader := bufio.NewReader(resp.Body)
	for _, option := range []string{"A", "B"} {
		line, err := reader.ReadBytes('\n')
		require.NoError(t, err)

		var e event.Event
		require.NoError(t, json.Unmarshal(line, &e))
		require.Equal(t, poll.MethodVote, e.Method)
		require.Equal(t, sender, e.Sender)
		require.Equal(t, "p1", e.Key())

		var voted poll.CastVoteResponse
		require.NoError(t, json.Unmarshal(e.Data, &voted))
		require.Equal(t, option, voted.Vote)
	}
}
