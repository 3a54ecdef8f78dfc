package api

import (
	"net/http/httptest"

	"github.com/gorilla/mux"

	"boscoin.io/ballotbox/lib/contract"
	"boscoin.io/ballotbox/lib/storage"
)

func prepareAPIServer() (*httptest.Server, *contract.Executor) {
	st := storage.NewTestMemoryLevelDBBackend()
	executor := contract.NewExecutor(st)

	router := mux.NewRouter()
	NewNetworkHandlerAPI(executor).RegisterHandlers(router)

	return httptest.NewServer(router), executor
}
