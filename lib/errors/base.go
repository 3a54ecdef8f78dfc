package errors

import "encoding/json"

type Error struct {
	Code    uint                   `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

func (o *Error) Serialize() (b []byte, err error) {
	b, err = json.Marshal(o)
	return
}

func (o *Error) Error() string {
	b, _ := o.Serialize()
	return string(b)
}

func (o *Error) SetData(k string, v interface{}) *Error {
	if o.Data == nil {
		o.Data = map[string]interface{}{}
	}
	o.Data[k] = v

	return o
}

func (o *Error) Clone() *Error {
	var new Error
	new = *o

	new.Data = map[string]interface{}{}
	if o.Data != nil && len(o.Data) > 0 {
		for k, v := range o.Data {
			new.Data[k] = v
		}
	}

	return &new
}

// Equal compares only the error code; `Data` is per-occurrence detail.
func (o *Error) Equal(err error) bool {
	e, ok := err.(*Error)
	if !ok || e == nil || o == nil {
		return false
	}

	return o.Code == e.Code
}

func NewError(code uint, message string) *Error {
	return &Error{Code: code, Message: message}
}

// New makes an uncoded error, for internal conditions that never reach a
// caller as a taxonomy error.
func New(message string) *Error {
	return NewError(0, message)
}
