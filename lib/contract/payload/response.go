package payload

import (
	"encoding/json"

	"boscoin.io/ballotbox/lib/common"
)

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Response is what a contract method hands back: the attributes its event
// carries and the optional JSON result.
type Response struct {
	Attributes []Attribute     `json:"attributes"`
	Data       json.RawMessage `json:"data,omitempty"`
}

func NewResponse() *Response {
	return &Response{Attributes: []Attribute{}}
}

func (r *Response) AddAttribute(key, value string) *Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

// Attribute returns the value of the first attribute named `key`.
func (r *Response) Attribute(key string) (string, bool) {
	for _, a := range r.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}

	return "", false
}

func (r *Response) SetData(v interface{}) (err error) {
	r.Data, err = common.EncodeJSONValue(v)
	return
}

func (r *Response) DecodeData(v interface{}) error {
	return common.DecodeJSONValue(r.Data, v)
}

func (r *Response) Serialize() ([]byte, error) {
	return common.EncodeJSONValue(r)
}
