package payload

import (
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/ballotbox/lib/errors"
)

func TestExecCodeDecodeArgs(t *testing.T) {
	type args struct {
		PollID string `json:"poll_id"`
	}

	ec, err := NewExecCode("poll", "poll", args{PollID: "p1"})
	require.NoError(t, err)
	require.Equal(t, `{"poll_id":"p1"}`, string(ec.Args))

	var decoded args
	require.NoError(t, ec.DecodeArgs(&decoded))
	require.Equal(t, "p1", decoded.PollID)

	encoded, err := ec.Serialize()
	require.NoError(t, err)

	var other ExecCode
	require.NoError(t, other.Deserialize(encoded))
	require.Equal(t, *ec, other)
}

func TestExecCodeDecodeArgsMalformed(t *testing.T) {
	ec := &ExecCode{ContractAddress: "poll", Method: "vote", Args: []byte(`[1,2]`)}

	var decoded struct {
		PollID string `json:"poll_id"`
	}
	err := ec.DecodeArgs(&decoded)
	require.True(t, errors.BadRequestParameter.Equal(err))
	require.Equal(t, "vote", err.(*errors.Error).Data["method"])
}

func TestExecCodeNoArgs(t *testing.T) {
	ec, err := NewExecCode("poll", "all_polls", nil)
	require.NoError(t, err)
	require.Nil(t, ec.Args)

	decoded := struct{ A int }{A: 3}
	require.NoError(t, ec.DecodeArgs(&decoded))
	require.Equal(t, 3, decoded.A)
}

func TestResponseAttributes(t *testing.T) {
	r := NewResponse().
		AddAttribute("action", "vote").
		AddAttribute("poll_id", "p1").
		AddAttribute("action", "ignored")

	v, ok := r.Attribute("action")
	require.True(t, ok)
	require.Equal(t, "vote", v)

	_, ok = r.Attribute("admin")
	require.False(t, ok)

	require.NoError(t, r.SetData(map[string]string{"option": "A"}))
	var data map[string]string
	require.NoError(t, r.DecodeData(&data))
	require.Equal(t, "A", data["option"])
}
