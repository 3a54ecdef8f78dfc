package event

import (
	"encoding/json"

	"github.com/google/uuid"

	"boscoin.io/ballotbox/lib/common"
	"boscoin.io/ballotbox/lib/contract/payload"
)

// Event is the record published for every committed contract call.
type Event struct {
	ID         string              `json:"id"`
	Contract   string              `json:"contract"`
	Method     string              `json:"method"`
	Sender     string              `json:"sender"`
	Attributes []payload.Attribute `json:"attributes"`
	Data       json.RawMessage     `json:"data,omitempty"`
	Created    string              `json:"created"`

	// Hash is the same for every event carrying the same call and result,
	// so consumers can drop the duplicates `ID` can not catch.
	Hash string `json:"hash"`
}

type eventBody struct {
	Contract   string
	Method     string
	Sender     string
	Attributes []payload.Attribute
	Data       []byte
}

func NewEvent(sender string, code *payload.ExecCode, resp *payload.Response) Event {
	e := Event{
		ID:         uuid.New().String(),
		Contract:   code.ContractAddress,
		Method:     code.Method,
		Sender:     sender,
		Attributes: resp.Attributes,
		Data:       resp.Data,
		Created:    common.NowISO8601(),
	}
	e.Hash = common.MustMakeObjectHashString(eventBody{
		Contract:   e.Contract,
		Method:     e.Method,
		Sender:     e.Sender,
		Attributes: e.Attributes,
		Data:       []byte(e.Data),
	})

	return e
}

// Key groups the events of one poll together; calls without a poll fall
// back to the contract address.
func (e Event) Key() string {
	for _, a := range e.Attributes {
		if a.Key == "poll_id" {
			return a.Value
		}
	}

	return e.Contract
}

func (e Event) Serialize() ([]byte, error) {
	return json.Marshal(e)
}
