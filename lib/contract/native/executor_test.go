package native

import (
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/ballotbox/lib/contract/context"
	"boscoin.io/ballotbox/lib/contract/payload"
	"boscoin.io/ballotbox/lib/errors"
	"boscoin.io/ballotbox/lib/storage"
)

const testAddress = "HELLOWORLDADDRESS"

func init() {
	AddContract(testAddress, func(ex *NativeExecutor) {
		ex.RegisterFunc("hello", func(ex *NativeExecutor, code *payload.ExecCode) (*payload.Response, error) {
			var greeting string
			if err := code.DecodeArgs(&greeting); err != nil {
				return nil, err
			}
			if err := ex.Context.DB().New("greeter-"+ex.Context.SenderAddress(), greeting); err != nil {
				return nil, err
			}

			return payload.NewResponse().AddAttribute("action", "hello"), nil
		})
		ex.RegisterQueryFunc("greeting", func(ex *NativeExecutor, code *payload.ExecCode) (*payload.Response, error) {
			var sender string
			if err := code.DecodeArgs(&sender); err != nil {
				return nil, err
			}

			var greeting string
			if err := ex.Context.DB().Get("greeter-"+sender, &greeting); err != nil {
				return nil, err
			}

			resp := payload.NewResponse()
			err := resp.SetData(greeting)
			return resp, err
		})
	})
}

func TestNativeExecutor(t *testing.T) {
	st := storage.NewTestMemoryLevelDBBackend()
	defer st.Close()

	require.True(t, HasContract(testAddress))
	require.False(t, HasContract("unknown"))

	ex := NewNativeExecutor(context.NewContext("sender", st))

	code, _ := payload.NewExecCode(testAddress, "hello", "world")
	resp, err := ex.Execute(code)
	require.NoError(t, err)
	action, _ := resp.Attribute("action")
	require.Equal(t, "hello", action)

	code, _ = payload.NewExecCode(testAddress, "greeting", "sender")
	resp, err = ex.Query(code)
	require.NoError(t, err)
	require.Equal(t, `"world"`, string(resp.Data))
}

func TestNativeExecutorNotFound(t *testing.T) {
	st := storage.NewTestMemoryLevelDBBackend()
	defer st.Close()

	ex := NewNativeExecutor(context.NewContext("sender", st))

	_, err := ex.Execute(&payload.ExecCode{ContractAddress: "unknown", Method: "hello"})
	require.True(t, errors.ContractNotFound.Equal(err))

	_, err = ex.Execute(&payload.ExecCode{ContractAddress: testAddress, Method: "greeting"})
	require.True(t, errors.MethodNotFound.Equal(err))

	_, err = ex.Query(&payload.ExecCode{ContractAddress: testAddress, Method: "hello"})
	require.True(t, errors.MethodNotFound.Equal(err))
}
