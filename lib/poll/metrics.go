package poll

import (
	"boscoin.io/ballotbox/lib/common/observer"
	"boscoin.io/ballotbox/lib/contract/payload"
	"boscoin.io/ballotbox/lib/metrics"
)

// WatchMetrics keeps `metrics.Poll` in step with committed calls of the
// poll contract.
func WatchMetrics() {
	observer.ContractObserver.On(
		observer.NewEvent(observer.ResourceContract, observer.ConditionAction, ActionCreatePoll).String(),
		func(args ...interface{}) {
			metrics.Poll.AddPolls(1)
		},
	)

	observer.ContractObserver.On(
		observer.NewEvent(observer.ResourceContract, observer.ConditionAction, ActionVote).String(),
		func(args ...interface{}) {
			if len(args) < 3 {
				return
			}
			resp, ok := args[2].(*payload.Response)
			if !ok {
				return
			}
			if pollID, found := resp.Attribute("poll_id"); found {
				metrics.Poll.AddVote(pollID)
			}
		},
	)
}
