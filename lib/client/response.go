package client

import (
	"fmt"

	"boscoin.io/ballotbox/lib/errors"
)

type Problem struct {
	Type     string                 `json:"type"`
	Title    string                 `json:"title"`
	Status   int                    `json:"status"`
	Detail   string                 `json:"detail,omitempty"`
	Instance string                 `json:"instance,omitempty"`
	Code     uint                   `json:"code,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// ToError restores the `*errors.Error` of the coded problem.
func (p Problem) ToError() error {
	if p.Code < 1 {
		return Error{Problem: p}
	}

	e := errors.NewError(p.Code, p.Title)
	for k, v := range p.Data {
		e.SetData(k, v)
	}

	return e
}

type Error struct {
	Problem Problem
}

func (e Error) Error() string {
	if len(e.Problem.Detail) > 0 {
		return fmt.Sprintf("%d %s: %s", e.Problem.Status, e.Problem.Title, e.Problem.Detail)
	}

	return fmt.Sprintf("%d %s", e.Problem.Status, e.Problem.Title)
}
