package httputils

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes the value v to the http response as json encoding
func WriteJSON(w http.ResponseWriter, code int, v interface{}) error {
	switch t := v.(type) {
	case Problem:
		w.Header().Set("Content-Type", ProblemContentType)
	case error:
		w.Header().Set("Content-Type", ProblemContentType)
		v = NewErrorProblem(t, code)
	default:
		w.Header().Set("Content-Type", "application/json")
	}

	w.WriteHeader(code)

	bs, err := json.Marshal(v)
	if err != nil {
		return err
	}

	if _, err := w.Write(bs); err != nil {
		return err
	}

	return nil
}

// WriteJSONError writes `err` as problem document with the status of
// `StatusCode(err)`.
func WriteJSONError(w http.ResponseWriter, err error) error {
	return WriteJSON(w, StatusCode(err), err)
}
