package httputils

import (
	"net/http"

	"boscoin.io/ballotbox/lib/errors"
)

// IsEventStream checks request header accept is text/event-stream
func IsEventStream(r *http.Request) bool {
	return r.Header.Get("Accept") == "text/event-stream"
}

var (
	ErrorsToStatus = map[uint]int{
		errors.StorageCoreError.Code:           http.StatusInternalServerError,
		errors.StorageRecordDoesNotExist.Code:  http.StatusNotFound,
		errors.StorageRecordAlreadyExists.Code: http.StatusConflict,
		errors.NotImplemented.Code:             http.StatusNotImplemented,
		errors.BadRequestParameter.Code:        http.StatusBadRequest,
		errors.InvalidIdentity.Code:            http.StatusBadRequest,
		errors.TooManyOptions.Code:             http.StatusBadRequest,
		errors.PollNotFound.Code:               http.StatusNotFound,
		errors.OptionNonExistent.Code:          http.StatusBadRequest,
		errors.NotInitialized.Code:             http.StatusNotFound,
		errors.AlreadyInitialized.Code:         http.StatusConflict,
		errors.PollAlreadyExists.Code:          http.StatusConflict,
		errors.DuplicatedOption.Code:           http.StatusBadRequest,
		errors.TallyUnderflow.Code:             http.StatusInternalServerError,
		errors.ContractNotFound.Code:           http.StatusNotFound,
		errors.MethodNotFound.Code:             http.StatusNotFound,
	}
)

// StatusCode maps coded errors by `ErrorsToStatus`; unknown codes are bad
// requests and anything else is an internal error.
func StatusCode(err error) int {
	if e, ok := err.(*errors.Error); ok {
		if status, found := ErrorsToStatus[e.Code]; found {
			return status
		}
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
