package poll

import (
	"encoding/json"
	"fmt"

	"boscoin.io/ballotbox/lib/errors"
	"boscoin.io/ballotbox/lib/storage"
)

const (
	ConfigKey       = "bb-config"
	PollPrefixKey   = "bb-poll-"
	BallotPrefixKey = "bb-ballot-"
)

func GetPollKey(pollID string) string {
	return fmt.Sprintf("%s%s", PollPrefixKey, pollID)
}

// GetBallotKey builds the ballot key of (voter, poll). Voters are validated
// account addresses, which have a fixed length and no `-`, so the key is
// never ambiguous.
func GetBallotKey(voter, pollID string) string {
	return fmt.Sprintf("%s%s-%s", BallotPrefixKey, voter, pollID)
}

type Config struct {
	Admin string `json:"admin"`
}

func (c Config) Serialize() ([]byte, error) {
	return json.Marshal(c)
}

func (c Config) Save(st *storage.LevelDBBackend) error {
	err := st.New(ConfigKey, c)
	if err == errors.StorageRecordAlreadyExists {
		return errors.AlreadyInitialized
	}

	return err
}

func GetConfig(st *storage.LevelDBBackend) (c Config, err error) {
	if err = st.Get(ConfigKey, &c); err == errors.StorageRecordDoesNotExist {
		err = errors.NotInitialized
	}

	return
}

type Option struct {
	Option string `json:"option"`
	Tally  uint64 `json:"tally"`
}

type Poll struct {
	PollID   string   `json:"poll_id"`
	Creator  string   `json:"creator"`
	Question string   `json:"question"`
	Options  []Option `json:"options"`
}

func NewPoll(pollID, creator, question string, options []string) *Poll {
	p := &Poll{
		PollID:   pollID,
		Creator:  creator,
		Question: question,
		Options:  make([]Option, 0, len(options)),
	}
	for _, o := range options {
		p.Options = append(p.Options, Option{Option: o})
	}

	return p
}

func (p Poll) Serialize() ([]byte, error) {
	return json.Marshal(p)
}

// FindOption returns the index of the first option labeled `label`, or -1.
func (p *Poll) FindOption(label string) int {
	for i, o := range p.Options {
		if o.Option == label {
			return i
		}
	}

	return -1
}

// Total is the sum of all tallies, the number of voters of the poll.
func (p *Poll) Total() (total uint64) {
	for _, o := range p.Options {
		total += o.Tally
	}
	return
}

func (p *Poll) Save(st *storage.LevelDBBackend) (err error) {
	key := GetPollKey(p.PollID)

	var exists bool
	if exists, err = st.Has(key); err != nil {
		return
	} else if exists {
		err = st.Set(key, p)
	} else {
		err = st.New(key, p)
	}

	return
}

func ExistsPoll(st *storage.LevelDBBackend, pollID string) (bool, error) {
	return st.Has(GetPollKey(pollID))
}

// GetPoll returns `errors.StorageRecordDoesNotExist` when there is no such
// poll.
func GetPoll(st *storage.LevelDBBackend, pollID string) (p *Poll, err error) {
	p = &Poll{}
	if err = st.Get(GetPollKey(pollID), p); err != nil {
		p = nil
	}

	return
}

// GetPolls scans the poll key space in ascending `poll_id` order; a zero
// `limit` returns every poll.
func GetPolls(st *storage.LevelDBBackend, options storage.ListOptions) (polls []Poll, err error) {
	iterFunc, closeFunc := st.GetIterator(PollPrefixKey, options)
	defer closeFunc()

	polls = []Poll{}
	for {
		item, hasNext := iterFunc()
		if !hasNext {
			break
		}

		var p Poll
		if err = json.Unmarshal(item.Value, &p); err != nil {
			err = errors.StorageCoreError.Clone().SetData("key", string(item.Key)).SetData("error", err.Error())
			return
		}
		polls = append(polls, p)
	}

	return
}

type Ballot struct {
	Option string `json:"option"`
}

func (b Ballot) Serialize() ([]byte, error) {
	return json.Marshal(b)
}

func (b *Ballot) Save(st *storage.LevelDBBackend, voter, pollID string) (err error) {
	key := GetBallotKey(voter, pollID)

	var exists bool
	if exists, err = st.Has(key); err != nil {
		return
	} else if exists {
		err = st.Set(key, b)
	} else {
		err = st.New(key, b)
	}

	return
}

// GetBallot returns `errors.StorageRecordDoesNotExist` when the voter has
// not voted on the poll.
func GetBallot(st *storage.LevelDBBackend, voter, pollID string) (b *Ballot, err error) {
	b = &Ballot{}
	if err = st.Get(GetBallotKey(voter, pollID), b); err != nil {
		b = nil
	}

	return
}
