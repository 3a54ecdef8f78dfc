package poll

import (
	"boscoin.io/ballotbox/lib/common/keypair"
	"boscoin.io/ballotbox/lib/errors"
	"boscoin.io/ballotbox/lib/storage"
)

func QueryAllPollsResponse(st *storage.LevelDBBackend) (*AllPollsResponse, error) {
	polls, err := GetPolls(st, nil)
	if err != nil {
		return nil, err
	}

	return &AllPollsResponse{Polls: polls}, nil
}

// QueryPollResponse has a nil `Poll` when there is no such poll.
func QueryPollResponse(st *storage.LevelDBBackend, msg PollQueryMsg) (*PollResponse, error) {
	p, err := GetPoll(st, msg.PollID)
	if err != nil && err != errors.StorageRecordDoesNotExist {
		return nil, err
	}

	return &PollResponse{Poll: p}, nil
}

// QueryVoteResponse has a nil `Vote` when the address did not vote; an
// invalid address is an error.
func QueryVoteResponse(st *storage.LevelDBBackend, msg VoteQueryMsg) (*VoteResponse, error) {
	address, err := keypair.ValidateAddress(msg.Address)
	if err != nil {
		return nil, err
	}

	b, err := GetBallot(st, address, msg.PollID)
	if err != nil && err != errors.StorageRecordDoesNotExist {
		return nil, err
	}

	return &VoteResponse{Vote: b}, nil
}

func QueryConfigResponse(st *storage.LevelDBBackend) (*ConfigResponse, error) {
	config, err := GetConfig(st)
	if err != nil {
		return nil, err
	}

	return &ConfigResponse{Admin: config.Admin}, nil
}
