package node

import (
	"encoding/json"
	"fmt"
	"time"

	"boscoin.io/ballotbox/lib/common"
	"boscoin.io/ballotbox/lib/version"
)

type NodeInfo struct {
	Node   NodeInfoNode `json:"node"`
	Policy NodePolicy   `json:"policy"`
}

type NodeInfoNode struct {
	Version  NodeVersion      `json:"version"`
	Started  string           `json:"started"`
	Alias    string           `json:"alias"`
	Address  string           `json:"address"`
	Endpoint *common.Endpoint `json:"endpoint"`
}

type NodePolicy struct {
	Contract         string        `json:"contract"`         // address of the served contract
	MaxPollOptions   int           `json:"max-poll-options"` // see `common.MaxPollOptions`
	RateLimitRuleAPI string        `json:"rate-limit-api"`
	HTTPCacheAdapter string        `json:"http-cache-adapter,omitempty"`
	HTTPCacheTTL     time.Duration `json:"http-cache-ttl"`
	EventTopic       string        `json:"event-topic,omitempty"` // empty when events are not published
}

type NodeVersion struct {
	Version   string `json:"version"`
	GitCommit string `json:"git-commit"`
	GitState  string `json:"git-state"`
	BuildDate string `json:"build-date"`
}

func NewNodeVersion() NodeVersion {
	return NodeVersion{
		Version:   version.Version,
		GitCommit: version.GitCommit,
		GitState:  version.GitState,
		BuildDate: version.BuildDate,
	}
}

// MakeAlias shortens the account address, like `GABC.WXYZ`.
func MakeAlias(address string) string {
	l := len(address)
	if l < 12 {
		return address
	}

	return fmt.Sprintf("%s.%s", address[:4], address[l-8:l-4])
}

func NewNodeInfoFromJSON(b []byte) (nodeInfo NodeInfo, err error) {
	err = json.Unmarshal(b, &nodeInfo)
	return
}

func (n NodeInfo) Serialize() ([]byte, error) {
	return json.Marshal(n)
}
