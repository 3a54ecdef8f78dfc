package httputils

import (
	"encoding/json"
	"fmt"
	"net/http"

	"boscoin.io/ballotbox/lib/errors"
)

const (
	ProblemTypeBlank     = "about:blank"
	ProblemTypeErrorBase = "https://ballotbox.boscoin.io/problem/error/"
	ProblemContentType   = "application/problem+json"
)

// Problem is a RFC7807 problem document. `Code` and `Data` carry the coded
// error the problem was made from.
type Problem struct {
	// "type" (string) - A URI reference [RFC3986] that identifies the
	// problem type.  When this member is not present, its value is assumed
	// to be "about:blank".
	Type string `json:"type"`

	// "title" (string) - A short, human-readable summary of the problem
	// type.
	Title string `json:"title"`

	// "status" (number) - The HTTP status code generated by the origin
	// server for this occurrence of the problem.
	Status int `json:"status,omitempty"`

	// "detail" (string) - A human-readable explanation specific to this
	// occurrence of the problem.
	Detail string `json:"detail,omitempty"`

	// "instance" (string) - A URI reference that identifies the specific
	// occurrence of the problem.
	Instance string `json:"instance,omitempty"`

	Code uint                   `json:"code,omitempty"`
	Data map[string]interface{} `json:"data,omitempty"`
}

func NewStatusProblem(status int) Problem {
	return Problem{Type: ProblemTypeBlank, Title: http.StatusText(status), Status: status}
}

func NewDetailedStatusProblem(status int, detail string) Problem {
	p := NewStatusProblem(status)
	p.Detail = detail
	return p
}

func NewErrorProblem(err error, status int) Problem {
	if e, ok := err.(*errors.Error); ok {
		p := Problem{
			Type:   fmt.Sprintf("%s%d", ProblemTypeErrorBase, e.Code),
			Title:  e.Message,
			Status: status,
			Code:   e.Code,
		}
		if len(e.Data) > 0 {
			p.Data = e.Data
		}
		return p
	}

	return Problem{Type: ProblemTypeBlank, Title: err.Error(), Status: status}
}

func (p Problem) SetInstance(instance string) Problem {
	p.Instance = instance
	return p
}

func (p Problem) SetDetail(detail string) Problem {
	p.Detail = detail
	return p
}

func (p Problem) Serialize() ([]byte, error) {
	return json.Marshal(p)
}
