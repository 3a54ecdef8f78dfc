package poll

import (
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/ballotbox/lib/common/keypair"
	"boscoin.io/ballotbox/lib/storage"
)

// NewTestStorage returns an instantiated in-memory store and its admin.
func NewTestStorage(t *testing.T) (*storage.LevelDBBackend, string) {
	st := storage.NewTestMemoryLevelDBBackend()
	admin := keypair.Random().Address()

	_, err := Instantiate(st, admin, InstantiateMsg{})
	require.NoError(t, err)

	return st, admin
}

func tallies(p *Poll) (t []uint64) {
	for _, o := range p.Options {
		t = append(t, o.Tally)
	}
	return
}
