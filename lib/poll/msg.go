package poll

// ContractAddress is where the poll contract is registered in the native
// contract registry.
const ContractAddress = "poll"

// Methods changing state.
const (
	MethodInstantiate = "instantiate"
	MethodCreatePoll  = "create_poll"
	MethodVote        = "vote"
)

// `action` attribute of the response of each method.
const (
	ActionInstantiate = "instantiate"
	ActionCreatePoll  = "execute_create_poll"
	ActionVote        = "execute_vote"
)

// Read-only methods.
const (
	QueryAllPolls = "all_polls"
	QueryPoll     = "poll"
	QueryVote     = "vote"
	QueryConfig   = "config"
)

type InstantiateMsg struct {
	Admin string `json:"admin,omitempty"`
}

type CreatePollMsg struct {
	PollID   string   `json:"poll_id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type VoteMsg struct {
	PollID string `json:"poll_id"`
	Vote   string `json:"vote"`
}

type PollQueryMsg struct {
	PollID string `json:"poll_id"`
}

type VoteQueryMsg struct {
	PollID  string `json:"poll_id"`
	Address string `json:"address"`
}

type AllPollsResponse struct {
	Polls []Poll `json:"polls"`
}

type PollResponse struct {
	Poll *Poll `json:"poll"`
}

type VoteResponse struct {
	Vote *Ballot `json:"vote"`
}

type ConfigResponse struct {
	Admin string `json:"admin"`
}

// CastVoteResponse is returned by a successful vote.
type CastVoteResponse struct {
	PollID string `json:"poll_id"`
	Vote   string `json:"vote"`
}
