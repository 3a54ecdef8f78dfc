package payload

import (
	"encoding/json"

	"boscoin.io/ballotbox/lib/common"
	"boscoin.io/ballotbox/lib/errors"
)

// ExecCode addresses one method of a contract; `Args` is the JSON message
// the method decodes for itself.
type ExecCode struct {
	ContractAddress string          `json:"contract_address"`
	Method          string          `json:"method"`
	Args            json.RawMessage `json:"args,omitempty"`
}

func NewExecCode(contractAddress, method string, args interface{}) (*ExecCode, error) {
	ec := &ExecCode{
		ContractAddress: contractAddress,
		Method:          method,
	}

	if args != nil {
		b, err := common.EncodeJSONValue(args)
		if err != nil {
			return nil, err
		}
		ec.Args = b
	}

	return ec, nil
}

func (ec *ExecCode) Serialize() (encoded []byte, err error) {
	encoded, err = common.EncodeJSONValue(ec)
	return
}

func (ec *ExecCode) Deserialize(encoded []byte) (err error) {
	err = common.DecodeJSONValue(encoded, ec)
	return
}

// DecodeArgs fills `v` from `Args`. Missing args leave `v` untouched;
// malformed args are `errors.BadRequestParameter`.
func (ec *ExecCode) DecodeArgs(v interface{}) error {
	if len(ec.Args) < 1 {
		return nil
	}

	if err := common.DecodeJSONValue(ec.Args, v); err != nil {
		return errors.BadRequestParameter.Clone().
			SetData("method", ec.Method).
			SetData("error", err.Error())
	}

	return nil
}
