package metrics

var (
	Contract = NopContractMetrics()
	Poll     = NopPollMetrics()
	Event    = NopEventMetrics()
	API      = NopAPIMetrics()
)
