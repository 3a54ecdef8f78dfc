package cmd

import (
	"boscoin.io/ballotbox/cmd/ballotbox/cmd/poll"
)

func init() {
	rootCmd.AddCommand(poll.Cmd)
}
