package observer

import (
	"net/url"

	"github.com/GianlucaGuarini/go-observable"
)

// ContractObserver is triggered after every committed contract call.
var ContractObserver = observable.New()

const (
	ResourceContract = "contract"
	ResourcePoll     = "poll"
	ConditionAll     = "*"
	ConditionAction  = "action"
	ConditionPollID  = "poll_id"
)

type Event struct {
	Resource  string `json:"resource"`
	Condition string `json:"condition"`
	Id        string `json:"id"`
}

func NewEvent(resource, condition, id string) Event {
	return Event{
		Resource:  resource,
		Condition: condition,
		Id:        id,
	}
}

// String is the observable event name. The id is escaped, so whitespace in
// it can not split the name into several events.
func (e Event) String() string {
	toStr := e.Resource + "-"
	if e.Condition == ConditionAll {
		toStr += e.Condition
	} else {
		toStr += e.Condition + "="
		toStr += url.PathEscape(e.Id)
	}
	return toStr
}

type Subscribe struct {
	Events []Event `json:"resources"`
}

func NewSubscribe(events ...Event) Subscribe {
	s := Subscribe{}
	for _, e := range events {
		s.Events = append(s.Events, e)
	}
	return s
}

func (s Subscribe) String() string {
	toStr := ""
	for i, e := range s.Events {
		if i > 0 {
			toStr += "&"
		}
		toStr += e.String()
	}
	return toStr
}
