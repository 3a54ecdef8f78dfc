package node

import (
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/ballotbox/lib/common"
)

func TestMakeAlias(t *testing.T) {
	require.Equal(t, "GDPQ.5T3K", MakeAlias("GDPQ2LBYP3RL3O675H2N5IEYM6PRJNUA5QFMKXIHGTKEB5KS5T3KHFA2"))
	require.Equal(t, "short", MakeAlias("short"))
}

func TestNodeInfoJSON(t *testing.T) {
	endpoint, err := common.ParseEndpoint("http://localhost:12345")
	require.NoError(t, err)

	info := NodeInfo{
		Node: NodeInfoNode{
			Version:  NewNodeVersion(),
			Alias:    "n0",
			Endpoint: endpoint,
		},
		Policy: NodePolicy{
			Contract:       "poll",
			MaxPollOptions: common.MaxPollOptions,
		},
	}

	b, err := info.Serialize()
	require.NoError(t, err)

	parsed, err := NewNodeInfoFromJSON(b)
	require.NoError(t, err)
	require.Equal(t, info.Node.Version, parsed.Node.Version)
	require.Equal(t, endpoint.String(), parsed.Node.Endpoint.String())
	require.Equal(t, "poll", parsed.Policy.Contract)
	require.Equal(t, common.MaxPollOptions, parsed.Policy.MaxPollOptions)
}
