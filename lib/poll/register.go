package poll

import (
	"boscoin.io/ballotbox/lib/contract/native"
	"boscoin.io/ballotbox/lib/contract/payload"
)

func init() {
	native.AddContract(ContractAddress, RegisterPoll)
}

func RegisterPoll(ex *native.NativeExecutor) {
	ex.RegisterFunc(MethodInstantiate, instantiate)
	ex.RegisterFunc(MethodCreatePoll, createPoll)
	ex.RegisterFunc(MethodVote, vote)

	ex.RegisterQueryFunc(QueryAllPolls, queryAllPolls)
	ex.RegisterQueryFunc(QueryPoll, queryPoll)
	ex.RegisterQueryFunc(QueryVote, queryVote)
	ex.RegisterQueryFunc(QueryConfig, queryConfig)
}

func newDataResponse(v interface{}) (*payload.Response, error) {
	resp := payload.NewResponse()
	if err := resp.SetData(v); err != nil {
		return nil, err
	}

	return resp, nil
}

func instantiate(ex *native.NativeExecutor, code *payload.ExecCode) (*payload.Response, error) {
	var msg InstantiateMsg
	if err := code.DecodeArgs(&msg); err != nil {
		return nil, err
	}

	config, err := Instantiate(ex.Context.DB(), ex.Context.SenderAddress(), msg)
	if err != nil {
		return nil, err
	}

	resp, err := newDataResponse(config)
	if err != nil {
		return nil, err
	}

	return resp.
		AddAttribute("action", ActionInstantiate).
		AddAttribute("admin", config.Admin), nil
}

func createPoll(ex *native.NativeExecutor, code *payload.ExecCode) (*payload.Response, error) {
	var msg CreatePollMsg
	if err := code.DecodeArgs(&msg); err != nil {
		return nil, err
	}

	p, err := CreatePoll(ex.Context.DB(), ex.Context.SenderAddress(), msg)
	if err != nil {
		return nil, err
	}

	resp, err := newDataResponse(p)
	if err != nil {
		return nil, err
	}

	return resp.
		AddAttribute("action", ActionCreatePoll).
		AddAttribute("poll_id", p.PollID), nil
}

func vote(ex *native.NativeExecutor, code *payload.ExecCode) (*payload.Response, error) {
	var msg VoteMsg
	if err := code.DecodeArgs(&msg); err != nil {
		return nil, err
	}

	voted, err := Vote(ex.Context.DB(), ex.Context.SenderAddress(), msg)
	if err != nil {
		return nil, err
	}

	resp, err := newDataResponse(voted)
	if err != nil {
		return nil, err
	}

	return resp.
		AddAttribute("action", ActionVote).
		AddAttribute("poll_id", voted.PollID).
		AddAttribute("vote", voted.Vote), nil
}

func queryAllPolls(ex *native.NativeExecutor, code *payload.ExecCode) (*payload.Response, error) {
	r, err := QueryAllPollsResponse(ex.Context.DB())
	if err != nil {
		return nil, err
	}

	return newDataResponse(r)
}

func queryPoll(ex *native.NativeExecutor, code *payload.ExecCode) (*payload.Response, error) {
	var msg PollQueryMsg
	if err := code.DecodeArgs(&msg); err != nil {
		return nil, err
	}

	r, err := QueryPollResponse(ex.Context.DB(), msg)
	if err != nil {
		return nil, err
	}

	return newDataResponse(r)
}

func queryVote(ex *native.NativeExecutor, code *payload.ExecCode) (*payload.Response, error) {
	var msg VoteQueryMsg
	if err := code.DecodeArgs(&msg); err != nil {
		return nil, err
	}

	r, err := QueryVoteResponse(ex.Context.DB(), msg)
	if err != nil {
		return nil, err
	}

	return newDataResponse(r)
}

func queryConfig(ex *native.NativeExecutor, code *payload.ExecCode) (*payload.Response, error) {
	r, err := QueryConfigResponse(ex.Context.DB())
	if err != nil {
		return nil, err
	}

	return newDataResponse(r)
}
