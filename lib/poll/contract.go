package poll

import (
	"boscoin.io/ballotbox/lib/common"
	"boscoin.io/ballotbox/lib/common/keypair"
	"boscoin.io/ballotbox/lib/errors"
	"boscoin.io/ballotbox/lib/storage"
)

// Instantiate stores the configuration; the admin defaults to `sender`. It
// runs once, a second call fails with `errors.AlreadyInitialized`.
func Instantiate(st *storage.LevelDBBackend, sender string, msg InstantiateMsg) (*Config, error) {
	admin := msg.Admin
	if len(admin) < 1 {
		admin = sender
	}

	validated, err := keypair.ValidateAddress(admin)
	if err != nil {
		return nil, err
	}

	config := &Config{Admin: validated}
	if err := config.Save(st); err != nil {
		return nil, err
	}

	log.Debug("instantiated", "admin", validated)

	return config, nil
}

func CreatePoll(st *storage.LevelDBBackend, creator string, msg CreatePollMsg) (*Poll, error) {
	checker := &CreatePollChecker{
		DefaultChecker: common.DefaultChecker{Funcs: CreatePollCheckerFuncs},
		Storage:        st,
		Creator:        creator,
		Msg:            msg,
	}

	if err := common.RunChecker(checker, common.DefaultDeferFunc); err != nil {
		return nil, err
	}

	if err := checker.Poll.Save(st); err != nil {
		return nil, err
	}

	log.Debug("poll created", "poll_id", checker.Poll.PollID, "creator", creator, "options", len(checker.Poll.Options))

	return checker.Poll, nil
}

// Vote records `voter`'s choice on a poll. A previous ballot of the voter is
// taken back from its tally first, so every voter counts exactly once. The
// poll and the ballot are written only after the new option is found.
func Vote(st *storage.LevelDBBackend, voter string, msg VoteMsg) (*CastVoteResponse, error) {
	poll, err := GetPoll(st, msg.PollID)
	if err == errors.StorageRecordDoesNotExist {
		return nil, errors.PollNotFound.Clone().SetData("poll_id", msg.PollID)
	} else if err != nil {
		return nil, err
	}

	previous, err := GetBallot(st, voter, msg.PollID)
	if err != nil && err != errors.StorageRecordDoesNotExist {
		return nil, err
	}

	if previous != nil {
		i := poll.FindOption(previous.Option)
		if i < 0 || poll.Options[i].Tally < 1 {
			return nil, errors.TallyUnderflow.Clone().
				SetData("poll_id", msg.PollID).
				SetData("option", previous.Option)
		}
		poll.Options[i].Tally--
	}

	ballot := &Ballot{Option: msg.Vote}

	i := poll.FindOption(msg.Vote)
	if i < 0 {
		return nil, errors.OptionNonExistent.Clone().
			SetData("poll_id", msg.PollID).
			SetData("option", msg.Vote)
	}
	poll.Options[i].Tally++

	if err := ballot.Save(st, voter, msg.PollID); err != nil {
		return nil, err
	}
	if err := poll.Save(st); err != nil {
		return nil, err
	}

	log.Debug("voted", "poll_id", msg.PollID, "voter", voter, "vote", msg.Vote)

	return &CastVoteResponse{PollID: msg.PollID, Vote: msg.Vote}, nil
}
