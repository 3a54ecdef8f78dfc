package metrics

func InitPrometheusMetrics() {
	Version = PromVersion()
	Contract = PromContractMetrics()
	Poll = PromPollMetrics()
	Event = PromEventMetrics()
	API = PromAPIMetrics()
}
