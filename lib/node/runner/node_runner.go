//
// Struct that bridges together components of a node
//
// NodeRunner bridges together the http server, storage, contract executor
// and the event publisher. In this regard, it can be seen as a single node,
// and is used as such in unit tests.
//
package runner

import (
	"context"
	"net/http"
	"time"

	ghandlers "github.com/gorilla/handlers"
	logging "github.com/inconshreveable/log15"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"boscoin.io/ballotbox/lib/common"
	"boscoin.io/ballotbox/lib/contract"
	"boscoin.io/ballotbox/lib/contract/payload"
	"boscoin.io/ballotbox/lib/errors"
	"boscoin.io/ballotbox/lib/event"
	"boscoin.io/ballotbox/lib/network"
	"boscoin.io/ballotbox/lib/network/api"
	"boscoin.io/ballotbox/lib/network/httpcache"
	"boscoin.io/ballotbox/lib/network/httputils"
	"boscoin.io/ballotbox/lib/node"
	"boscoin.io/ballotbox/lib/poll"
	"boscoin.io/ballotbox/lib/storage"
)

const NodeInfoHandlerPattern = "/"

type NodeRunner struct {
	server     *network.HTTPServer
	storage    *storage.LevelDBBackend
	executor   *contract.Executor
	publisher  event.Publisher
	dispatcher *event.Dispatcher
	cache      httpcache.Cache

	log logging.Logger

	Conf     common.Config
	nodeInfo node.NodeInfo

	cancel context.CancelFunc
	done   chan struct{}
}

// NewNodeRunner does not publish events when `publisher` is nil.
func NewNodeRunner(
	conf common.Config,
	server *network.HTTPServer,
	st *storage.LevelDBBackend,
	publisher event.Publisher,
	topic string,
) (nr *NodeRunner, err error) {
	nr = &NodeRunner{
		server:    server,
		storage:   st,
		executor:  contract.NewExecutor(st),
		publisher: publisher,
		log:       log.New(logging.Ctx{"node": server.Config().NodeName}),
		Conf:      conf,
	}

	if nr.cache, err = httpcache.NewCache(conf, httpcache.WithLogger(nr.log)); err != nil {
		return nil, err
	}

	if publisher != nil {
		nr.dispatcher = event.NewDispatcher(publisher, topic, event.DefaultQueueSize)
	} else {
		topic = ""
	}

	nr.nodeInfo = node.NodeInfo{
		Node: node.NodeInfoNode{
			Version:  node.NewNodeVersion(),
			Alias:    server.Config().NodeName,
			Endpoint: server.Config().Endpoint,
		},
		Policy: node.NodePolicy{
			Contract:         poll.ContractAddress,
			MaxPollOptions:   common.MaxPollOptions,
			RateLimitRuleAPI: conf.RateLimitRuleAPI.Default.Formatted,
			HTTPCacheAdapter: conf.HTTPCacheAdapter,
			HTTPCacheTTL:     conf.HTTPCacheTTL,
			EventTopic:       topic,
		},
	}

	return
}

func (nr *NodeRunner) Executor() *contract.Executor {
	return nr.executor
}

func (nr *NodeRunner) NodeInfo() node.NodeInfo {
	return nr.nodeInfo
}

// Instantiate sets up the poll contract with `admin` on the first start;
// the contract already instantiated is kept as it is.
func (nr *NodeRunner) Instantiate(admin string) (config poll.ConfigResponse, err error) {
	var code *payload.ExecCode
	if code, err = payload.NewExecCode(poll.ContractAddress, poll.QueryConfig, nil); err != nil {
		return
	}

	var resp *payload.Response
	if resp, err = nr.executor.Query(code); err == nil {
		err = resp.DecodeData(&config)
		nr.log.Debug("contract already instantiated", "admin", config.Admin)
		return
	} else if !errors.NotInitialized.Equal(err) {
		return
	}

	if code, err = payload.NewExecCode(poll.ContractAddress, poll.MethodInstantiate, poll.InstantiateMsg{Admin: admin}); err != nil {
		return
	}
	if _, err = nr.executor.Execute(admin, code); err != nil {
		return
	}

	config.Admin = admin
	nr.log.Info("contract instantiated", "admin", admin)

	return
}

func (nr *NodeRunner) Ready() error {
	rateLimitMiddlewareAPI := network.RateLimitMiddleware(nr.log, nr.Conf.RateLimitRuleAPI)
	if err := nr.server.AddMiddleware(network.RouterNameAPI, rateLimitMiddlewareAPI); err != nil {
		nr.log.Error("`network.RateLimitMiddleware` for `RouterNameAPI` has an error", "err", err)
		return err
	}
	if err := nr.server.AddMiddleware(network.RouterNameMetric, rateLimitMiddlewareAPI); err != nil {
		nr.log.Error("`network.RateLimitMiddleware` for `RouterNameMetric` router has an error", "err", err)
		return err
	}
	if err := nr.server.AddMiddleware(network.RouterNameAPI, network.MetricsMiddleware, nr.cache.Middleware); err != nil {
		nr.log.Error("Middleware has an error", "err", err)
		return err
	}

	// BaseRouter's middlewares impact all sub routers.
	if err := nr.server.AddMiddleware("", network.RecoverMiddleware(nr.log, false)); err != nil {
		nr.log.Error("Middleware has an error", "err", err)
		return err
	}

	nr.server.SetCORS(
		ghandlers.AllowedOrigins([]string{"*"}),
		ghandlers.AllowedMethods([]string{"GET", "POST"}),
		ghandlers.AllowedHeaders([]string{"Content-Type", "X-Requested-With", "Cache-Control", "Access-Control"}),
	)

	nr.server.AddHandler(NodeInfoHandlerPattern, http.HandlerFunc(nr.NodeInfoHandler)).Methods("GET")
	nr.server.AddHandler(network.UrlPathPrefixMetric, promhttp.Handler())

	apiRouter, _ := nr.server.Router(network.RouterNameAPI)
	api.NewNetworkHandlerAPI(nr.executor).RegisterHandlers(apiRouter)

	nr.server.Ready()

	return nil
}

func (nr *NodeRunner) NodeInfoHandler(w http.ResponseWriter, r *http.Request) {
	httputils.WriteJSON(w, http.StatusOK, nr.nodeInfo)
}

// Start starts publishing events and blocks while the http server runs.
func (nr *NodeRunner) Start() error {
	nr.nodeInfo.Node.Started = common.NowISO8601()

	ctx, cancel := context.WithCancel(context.Background())
	nr.cancel = cancel
	nr.done = make(chan struct{})

	if nr.dispatcher != nil {
		nr.dispatcher.Subscribe()
		go func() {
			defer close(nr.done)
			nr.dispatcher.Run(ctx)
		}()
	} else {
		close(nr.done)
	}

	nr.log.Info("node started", "endpoint", nr.server.Config().Endpoint.String())

	return nr.server.Start()
}

// Stop stops the http server and then flushes the queued events.
func (nr *NodeRunner) Stop() {
	nr.server.Stop()

	if nr.cancel == nil {
		return
	}

	if nr.dispatcher != nil {
		nr.dispatcher.Unsubscribe()
	}
	nr.cancel()

	select {
	case <-nr.done:
	case <-time.After(event.DefaultPublishTimeout * 2):
		nr.log.Error("failed to flush events in time")
	}

	if nr.publisher != nil {
		if err := nr.publisher.Close(); err != nil {
			nr.log.Error("failed to close publisher", "error", err)
		}
	}

	nr.log.Info("node stopped")
}
