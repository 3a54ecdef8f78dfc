package poll

import (
	"strings"

	"boscoin.io/ballotbox/lib/common"
	"boscoin.io/ballotbox/lib/errors"
	"boscoin.io/ballotbox/lib/storage"
)

// CreatePollChecker validates a `create_poll` request and, at the end,
// builds the new poll.
type CreatePollChecker struct {
	common.DefaultChecker

	Storage *storage.LevelDBBackend
	Creator string
	Msg     CreatePollMsg

	Poll *Poll
}

var CreatePollCheckerFuncs = []common.CheckerFunc{
	CheckPollID,
	CheckPollOptionsCount,
	CheckPollOptionsUnique,
	CheckPollNotExists,
	MakePoll,
}

func CheckPollID(c common.Checker, args ...interface{}) error {
	checker := c.(*CreatePollChecker)

	if len(strings.TrimSpace(checker.Msg.PollID)) < 1 {
		return errors.BadRequestParameter.Clone().SetData("poll_id", "empty")
	}

	return nil
}

func CheckPollOptionsCount(c common.Checker, args ...interface{}) error {
	checker := c.(*CreatePollChecker)

	if len(checker.Msg.Options) > common.MaxPollOptions {
		return errors.TooManyOptions.Clone().
			SetData("options", len(checker.Msg.Options)).
			SetData("max", common.MaxPollOptions)
	}

	return nil
}

func CheckPollOptionsUnique(c common.Checker, args ...interface{}) error {
	checker := c.(*CreatePollChecker)

	seen := map[string]bool{}
	for _, o := range checker.Msg.Options {
		if seen[o] {
			return errors.DuplicatedOption.Clone().SetData("option", o)
		}
		seen[o] = true
	}

	return nil
}

func CheckPollNotExists(c common.Checker, args ...interface{}) error {
	checker := c.(*CreatePollChecker)

	exists, err := ExistsPoll(checker.Storage, checker.Msg.PollID)
	if err != nil {
		return err
	}
	if exists {
		return errors.PollAlreadyExists.Clone().SetData("poll_id", checker.Msg.PollID)
	}

	return nil
}

func MakePoll(c common.Checker, args ...interface{}) error {
	checker := c.(*CreatePollChecker)

	checker.Poll = NewPoll(checker.Msg.PollID, checker.Creator, checker.Msg.Question, checker.Msg.Options)

	return nil
}
