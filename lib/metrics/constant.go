package metrics

const (
	Namespace         = "ballotbox"
	ContractSubsystem = "contract"
	PollSubsystem     = "poll"
	EventSubsystem    = "event"
	APISubsystem      = "api"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)
