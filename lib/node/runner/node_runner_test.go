package runner

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"boscoin.io/ballotbox/lib/common"
	"boscoin.io/ballotbox/lib/common/keypair"
	"boscoin.io/ballotbox/lib/errors"
	"boscoin.io/ballotbox/lib/event"
	"boscoin.io/ballotbox/lib/network"
	"boscoin.io/ballotbox/lib/node"
	"boscoin.io/ballotbox/lib/poll"
	"boscoin.io/ballotbox/lib/storage"
)

func freeEndpoint(t *testing.T) *common.Endpoint {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()

	endpoint, err := common.ParseEndpoint("http://" + addr + "?NodeName=n0")
	require.NoError(t, err)

	return endpoint
}

func prepareNodeRunner(t *testing.T, conf common.Config, publisher event.Publisher) *NodeRunner {
	config, err := network.NewHTTPServerConfigFromEndpoint(freeEndpoint(t))
	require.NoError(t, err)

	nr, err := NewNodeRunner(conf, network.NewHTTPServer(config), storage.NewTestMemoryLevelDBBackend(), publisher, "ballotbox")
	require.NoError(t, err)

	return nr
}

func TestNodeRunnerInstantiate(t *testing.T) {
	nr := prepareNodeRunner(t, common.NewTestConfig(), nil)
	defer nr.storage.Close()

	admin := keypair.Random().Address()

	config, err := nr.Instantiate(admin)
	require.NoError(t, err)
	require.Equal(t, admin, config.Admin)

	// already instantiated one is kept
	config, err = nr.Instantiate(keypair.Random().Address())
	require.NoError(t, err)
	require.Equal(t, admin, config.Admin)

	_, err = prepareNodeRunner(t, common.NewTestConfig(), nil).Instantiate("invalid")
	require.True(t, errors.InvalidIdentity.Equal(err))
}

func TestNodeRunnerHandlers(t *testing.T) {
	nr := prepareNodeRunner(t, common.NewTestConfig(), nil)
	defer nr.storage.Close()

	require.NoError(t, nr.Ready())

	ts := httptest.NewServer(nr.server.Handler())
	defer ts.Close()

	{ // node info
		resp, err := http.Get(ts.URL + NodeInfoHandlerPattern)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		b, err := ioutil.ReadAll(resp.Body)
		require.NoError(t, err)

		info, err := node.NewNodeInfoFromJSON(b)
		require.NoError(t, err)
		require.Equal(t, "n0", info.Node.Alias)
		require.Equal(t, poll.ContractAddress, info.Policy.Contract)
		require.Empty(t, info.Policy.EventTopic)
	}

	{ // api
		body := fmt.Sprintf(`{"sender":"%s","poll_id":"p1","question":"q","options":["A","B"]}`, keypair.Random().Address())
		resp, err := http.Post(ts.URL+network.UrlPathPrefixAPI+"/polls", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, err = http.Get(ts.URL + network.UrlPathPrefixAPI + "/polls/p1")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var pr poll.PollResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&pr))
		require.Equal(t, "p1", pr.Poll.PollID)
	}

	{ // metrics
		resp, err := http.Get(ts.URL + network.UrlPathPrefixMetric)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestNodeRunnerCache(t *testing.T) {
	conf := common.NewTestConfig()
	conf.HTTPCacheAdapter = common.HTTPCacheMemoryAdapterName
	conf.HTTPCacheTTL = time.Minute

	nr := prepareNodeRunner(t, conf, nil)
	defer nr.storage.Close()
	require.NoError(t, nr.Ready())

	ts := httptest.NewServer(nr.server.Handler())
	defer ts.Close()

	getPolls := func() poll.AllPollsResponse {
		resp, err := http.Get(ts.URL + network.UrlPathPrefixAPI + "/polls")
		require.NoError(t, err)
		defer resp.Body.Close()

		var r poll.AllPollsResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
		return r
	}

	require.Equal(t, 0, len(getPolls().Polls))

	body := fmt.Sprintf(`{"sender":"%s","poll_id":"p1","question":"q","options":["A"]}`, keypair.Random().Address())
	resp, err := http.Post(ts.URL+network.UrlPathPrefixAPI+"/polls", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// the successful POST purges the cached list
	require.Equal(t, 1, len(getPolls().Polls))
}

func TestNodeRunnerStartStop(t *testing.T) {
	publisher := event.NewMemoryPublisher()
	nr := prepareNodeRunner(t, common.NewTestConfig(), publisher)
	defer nr.storage.Close()

	require.NoError(t, nr.Ready())
	require.Equal(t, "ballotbox", nr.NodeInfo().Policy.EventTopic)

	errChan := make(chan error, 1)
	go func() {
		errChan <- nr.Start()
	}()

	apiURL := "http://" + nr.server.Config().Addr + network.UrlPathPrefixAPI

	// wait until the server listens
	for i := 0; ; i++ {
		require.True(t, i < 50, "server did not start")

		resp, err := http.Get(apiURL + "/polls")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	body := fmt.Sprintf(`{"sender":"%s","poll_id":"p1","question":"q","options":["A"]}`, keypair.Random().Address())
	resp, err := http.Post(apiURL+"/polls", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	nr.Stop()
	require.NoError(t, <-errChan)

	events := publisher.Events()
	require.Equal(t, 1, len(events))
	require.Equal(t, poll.MethodCreatePoll, events[0].Method)
	require.Equal(t, "p1", events[0].Key())
}
