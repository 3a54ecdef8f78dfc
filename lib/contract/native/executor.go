package native

import (
	"boscoin.io/ballotbox/lib/contract/context"
	"boscoin.io/ballotbox/lib/contract/payload"
	"boscoin.io/ballotbox/lib/errors"
)

type ExecFunc func(ex *NativeExecutor, code *payload.ExecCode) (*payload.Response, error)

type NativeExecutor struct {
	Context *context.Context

	execFuncs  map[string]ExecFunc
	queryFuncs map[string]ExecFunc
}

func NewNativeExecutor(ctx *context.Context) *NativeExecutor {
	return &NativeExecutor{
		Context:    ctx,
		execFuncs:  map[string]ExecFunc{},
		queryFuncs: map[string]ExecFunc{},
	}
}

func (ex *NativeExecutor) Execute(c *payload.ExecCode) (*payload.Response, error) {
	if err := ex.loadFuncs(c.ContractAddress); err != nil {
		return nil, err
	}

	f, ok := ex.execFuncs[c.Method]
	if !ok {
		return nil, errors.MethodNotFound.Clone().SetData("method", c.Method)
	}

	return f(ex, c)
}

func (ex *NativeExecutor) Query(c *payload.ExecCode) (*payload.Response, error) {
	if err := ex.loadFuncs(c.ContractAddress); err != nil {
		return nil, err
	}

	f, ok := ex.queryFuncs[c.Method]
	if !ok {
		return nil, errors.MethodNotFound.Clone().SetData("method", c.Method)
	}

	return f(ex, c)
}

func (ex *NativeExecutor) RegisterFunc(name string, f ExecFunc) {
	ex.execFuncs[name] = f
}

func (ex *NativeExecutor) RegisterQueryFunc(name string, f ExecFunc) {
	ex.queryFuncs[name] = f
}

func (ex *NativeExecutor) loadFuncs(addr string) error {
	r, ok := contracts[addr]
	if !ok {
		return errors.ContractNotFound.Clone().SetData("contract", addr)
	}
	r(ex)

	return nil
}
