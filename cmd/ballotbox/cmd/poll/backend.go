package poll

import (
	"boscoin.io/ballotbox/lib/client"
	"boscoin.io/ballotbox/lib/contract"
	"boscoin.io/ballotbox/lib/contract/payload"
	"boscoin.io/ballotbox/lib/poll"
	"boscoin.io/ballotbox/lib/storage"
)

// Backend runs the poll calls against a node, `*client.Client`, or directly
// against the local storage.
type Backend interface {
	LoadConfig() (poll.ConfigResponse, error)
	LoadPolls() (poll.AllPollsResponse, error)
	LoadPoll(id string) (*poll.Poll, error)
	LoadBallot(id, address string) (*poll.Ballot, error)
	CreatePoll(sender, id, question string, options []string) (payload.Response, error)
	Vote(sender, id, option string) (payload.Response, error)
	Close()
}

var _ Backend = (*client.Client)(nil)

type LocalBackend struct {
	executor *contract.Executor
}

func NewLocalBackend(st *storage.LevelDBBackend) *LocalBackend {
	return &LocalBackend{executor: contract.NewExecutor(st)}
}

func (b *LocalBackend) Close() {
	b.executor.Storage().Close()
}

func (b *LocalBackend) query(method string, args interface{}, v interface{}) error {
	code, err := payload.NewExecCode(poll.ContractAddress, method, args)
	if err != nil {
		return err
	}

	resp, err := b.executor.Query(code)
	if err != nil {
		return err
	}

	return resp.DecodeData(v)
}

func (b *LocalBackend) execute(sender, method string, args interface{}) (payload.Response, error) {
	code, err := payload.NewExecCode(poll.ContractAddress, method, args)
	if err != nil {
		return payload.Response{}, err
	}

	resp, err := b.executor.Execute(sender, code)
	if err != nil {
		return payload.Response{}, err
	}

	return *resp, nil
}

func (b *LocalBackend) LoadConfig() (config poll.ConfigResponse, err error) {
	err = b.query(poll.QueryConfig, nil, &config)
	return
}

func (b *LocalBackend) LoadPolls() (polls poll.AllPollsResponse, err error) {
	err = b.query(poll.QueryAllPolls, nil, &polls)
	return
}

func (b *LocalBackend) LoadPoll(id string) (*poll.Poll, error) {
	var r poll.PollResponse
	if err := b.query(poll.QueryPoll, poll.PollQueryMsg{PollID: id}, &r); err != nil {
		return nil, err
	}

	return r.Poll, nil
}

func (b *LocalBackend) LoadBallot(id, address string) (*poll.Ballot, error) {
	var r poll.VoteResponse
	if err := b.query(poll.QueryVote, poll.VoteQueryMsg{PollID: id, Address: address}, &r); err != nil {
		return nil, err
	}

	return r.Vote, nil
}

func (b *LocalBackend) CreatePoll(sender, id, question string, options []string) (payload.Response, error) {
	return b.execute(sender, poll.MethodCreatePoll, poll.CreatePollMsg{
		PollID:   id,
		Question: question,
		Options:  options,
	})
}

func (b *LocalBackend) Vote(sender, id, option string) (payload.Response, error) {
	return b.execute(sender, poll.MethodVote, poll.VoteMsg{PollID: id, Vote: option})
}
