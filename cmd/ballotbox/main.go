package main

import (
	"boscoin.io/ballotbox/cmd/ballotbox/cmd"
)

func main() {
	cmd.Execute()
}
