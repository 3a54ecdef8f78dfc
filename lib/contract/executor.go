package contract

import (
	"strings"
	"time"

	logging "github.com/inconshreveable/log15"

	"boscoin.io/ballotbox/lib/common/keypair"
	"boscoin.io/ballotbox/lib/common/observer"
	"boscoin.io/ballotbox/lib/contract/context"
	"boscoin.io/ballotbox/lib/contract/native"
	"boscoin.io/ballotbox/lib/contract/payload"
	"boscoin.io/ballotbox/lib/errors"
	"boscoin.io/ballotbox/lib/metrics"
	"boscoin.io/ballotbox/lib/storage"
)

// Executor is the call boundary of the node. Each `Execute` is one unit of
// work: one levelDB transaction, committed only when the method succeeds.
type Executor struct {
	st  *storage.LevelDBBackend
	log logging.Logger
}

func NewExecutor(st *storage.LevelDBBackend) *Executor {
	return &Executor{
		st:  st,
		log: log,
	}
}

func (ex *Executor) Storage() *storage.LevelDBBackend {
	return ex.st
}

// Execute runs a state-changing method as `sender`. On error every write of
// the call is discarded and the error is returned unchanged. On success the
// writes are committed and the contract observer is triggered with
// `(sender, code, response)`.
func (ex *Executor) Execute(sender string, code *payload.ExecCode) (resp *payload.Response, err error) {
	begin := time.Now()
	defer func() {
		metrics.Contract.ObserveCall(begin, code.ContractAddress, code.Method, err)
	}()

	if !native.HasContract(code.ContractAddress) {
		err = errors.ContractNotFound.Clone().SetData("contract", code.ContractAddress)
		return
	}

	if _, err = keypair.ValidateAddress(sender); err != nil {
		return
	}

	var ts *storage.LevelDBBackend
	if ts, err = ex.st.OpenTransaction(); err != nil {
		ex.log.Error("failed to open transaction", "error", err)
		return
	}

	// the transaction holds the write lock of levelDB until it is committed
	// or discarded; a failed commit keeps it too.
	var committed bool
	defer func() {
		if committed {
			return
		}
		if derr := ts.Discard(); derr != nil {
			ex.log.Error("failed to discard transaction", "error", derr)
		}
		resp = nil
	}()

	nex := native.NewNativeExecutor(context.NewContext(sender, ts))
	if resp, err = nex.Execute(code); err != nil {
		ex.log.Debug(
			"contract call failed; discarding",
			"contract", code.ContractAddress,
			"method", code.Method,
			"sender", sender,
			"error", err,
		)
		return
	}

	if err = ts.Commit(); err != nil {
		ex.log.Error("failed to commit transaction; discarding", "error", err)
		return
	}
	committed = true

	ex.log.Debug(
		"contract call committed",
		"contract", code.ContractAddress,
		"method", code.Method,
		"sender", sender,
		"attributes", resp.Attributes,
	)

	observer.ContractObserver.Trigger(TriggerEvents(code, resp), sender, code, resp)

	return
}

// Query runs a read-only method against a snapshot of the committed state.
func (ex *Executor) Query(code *payload.ExecCode) (resp *payload.Response, err error) {
	begin := time.Now()
	defer func() {
		metrics.Contract.ObserveCall(begin, code.ContractAddress, code.Method, err)
	}()

	var sn *storage.LevelDBBackend
	if sn, err = ex.st.OpenSnapshot(); err != nil {
		return
	}
	defer sn.Release()

	nex := native.NewNativeExecutor(context.NewContext("", sn))
	resp, err = nex.Query(code)

	return
}

// TriggerEvents returns the observer events of a committed call, joined the
// way `observable.Trigger` accepts several events at once.
func TriggerEvents(code *payload.ExecCode, resp *payload.Response) string {
	events := []string{
		observer.NewEvent(observer.ResourceContract, observer.ConditionAll, "").String(),
	}

	if action, ok := resp.Attribute(observer.ConditionAction); ok {
		events = append(events, observer.NewEvent(observer.ResourceContract, observer.ConditionAction, action).String())
	}
	if pollID, ok := resp.Attribute(observer.ConditionPollID); ok {
		events = append(events, observer.NewEvent(observer.ResourcePoll, observer.ConditionPollID, pollID).String())
	}

	return strings.Join(events, " ")
}
