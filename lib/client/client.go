package client

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"boscoin.io/ballotbox/lib/common"
	"boscoin.io/ballotbox/lib/contract/payload"
	"boscoin.io/ballotbox/lib/event"
	"boscoin.io/ballotbox/lib/network/api"
	"boscoin.io/ballotbox/lib/poll"
)

const (
	UrlPrefixForAPIV1 = "/api/v1"

	UrlConfig  = "/config"
	UrlPolls   = "/polls"
	UrlPoll    = "/polls/{id}"
	UrlBallots = "/polls/{id}/ballots"
	UrlBallot  = "/polls/{id}/ballots/{address}"
)

const DefaultTimeout = 10 * time.Second

// Client talks to the api of a running node. GET requests are retried by
// `common.DefaultRetrySetting`; POST and stream requests are sent once.
type Client struct {
	URL string

	HTTP   *common.HTTP2Client
	Once   *common.HTTP2Client
	Stream *common.HTTP2Client
}

func NewClient(u string) (*Client, error) {
	retrySetting := common.DefaultRetrySetting
	httpClient, err := common.NewPersistentHTTP2Client(DefaultTimeout, 0, true, &retrySetting)
	if err != nil {
		return nil, err
	}

	once, err := common.NewHTTP2Client(DefaultTimeout, 0, true)
	if err != nil {
		return nil, err
	}

	stream, err := common.NewHTTP2Client(0, 0, true)
	if err != nil {
		return nil, err
	}

	return &Client{
		URL:    strings.TrimSuffix(u, "/"),
		HTTP:   httpClient,
		Once:   once,
		Stream: stream,
	}, nil
}

func (c *Client) Close() {
	c.HTTP.Close()
	c.Once.Close()
	c.Stream.Close()
}

func makePath(pattern string, vars ...string) string {
	p := pattern
	for i := 0; i+1 < len(vars); i += 2 {
		p = strings.Replace(p, "{"+vars[i]+"}", url.PathEscape(vars[i+1]), -1)
	}

	return p
}

func (c *Client) toResponse(resp *http.Response, response interface{}) (err error) {
	defer resp.Body.Close()
	decoder := json.NewDecoder(resp.Body)

	if !(resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices) {
		var p Problem
		if err = decoder.Decode(&p); err != nil {
			return
		}
		return p.ToError()
	}

	return decoder.Decode(response)
}

func (c *Client) get(path string, response interface{}) error {
	headers := http.Header{}
	headers.Set("Accept", "application/json")

	resp, err := c.HTTP.Get(c.URL+UrlPrefixForAPIV1+path, headers)
	if err != nil {
		return err
	}

	return c.toResponse(resp, response)
}

func (c *Client) post(path string, body interface{}, response interface{}) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	resp, err := c.Once.Post(c.URL+UrlPrefixForAPIV1+path, b, headers)
	if err != nil {
		return err
	}

	return c.toResponse(resp, response)
}

func (c *Client) LoadConfig() (config poll.ConfigResponse, err error) {
	err = c.get(UrlConfig, &config)
	return
}

func (c *Client) LoadPolls() (polls poll.AllPollsResponse, err error) {
	err = c.get(UrlPolls, &polls)
	return
}

// LoadPoll returns nil poll without error when the poll does not exist.
func (c *Client) LoadPoll(id string) (p *poll.Poll, err error) {
	var r poll.PollResponse
	if err = c.get(makePath(UrlPoll, "id", id), &r); err != nil {
		return
	}

	p = r.Poll
	return
}

// LoadBallot returns nil ballot without error when `address` did not vote.
func (c *Client) LoadBallot(id, address string) (b *poll.Ballot, err error) {
	var r poll.VoteResponse
	if err = c.get(makePath(UrlBallot, "id", id, "address", address), &r); err != nil {
		return
	}

	b = r.Vote
	return
}

func (c *Client) CreatePoll(sender, id, question string, options []string) (resp payload.Response, err error) {
	err = c.post(UrlPolls, api.PostPollRequest{
		Sender:   sender,
		PollID:   id,
		Question: question,
		Options:  options,
	}, &resp)
	return
}

func (c *Client) Vote(sender, id, option string) (resp payload.Response, err error) {
	err = c.post(makePath(UrlBallots, "id", id), api.PostBallotRequest{
		Sender: sender,
		Option: option,
	}, &resp)
	return
}

// StreamPoll calls `handler` with the events of the poll until `ctx` is
// done or the connection is closed.
func (c *Client) StreamPoll(ctx context.Context, id string, handler func(event.Event)) (err error) {
	req, err := http.NewRequest("GET", c.URL+UrlPrefixForAPIV1+makePath(UrlPoll, "id", id), nil)
	if err != nil {
		return
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.Stream.Do(req)
	if err != nil {
		return
	}

	if resp.StatusCode != http.StatusOK {
		return c.toResponse(resp, nil)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}

		if len(strings.TrimSpace(string(line))) < 1 {
			continue
		}

		var e event.Event
		if err := json.Unmarshal(line, &e); err != nil {
			return err
		}
		handler(e)
	}
}
