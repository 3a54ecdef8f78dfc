package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"boscoin.io/ballotbox/lib/errors"
)

/**
 * Issue a message on Stderr then exit with an error code
 */
func PrintFlagsError(cmd *cobra.Command, flagName string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid '%s'; %s\n\n", flagName, errorString(err))
	}

	cmd.Help()

	os.Exit(1)
}

// PrintError prints `err` without the usage; used for the errors of the
// request, not of the input.
func PrintError(cmd *cobra.Command, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", errorString(err))
	}

	os.Exit(1)
}

func errorString(err error) string {
	e, ok := err.(*errors.Error)
	if !ok {
		return err.Error()
	}

	if len(e.Data) < 1 {
		return fmt.Sprintf("%s (code=%d)", e.Message, e.Code)
	}

	return fmt.Sprintf("%s (code=%d) %v", e.Message, e.Code, e.Data)
}

type ListFlags []string

func (i *ListFlags) Type() string {
	return "list"
}

func (i *ListFlags) String() string {
	return strings.Join([]string(*i), " ")
}

func (i *ListFlags) Set(value string) error {
	*i = append(*i, value)
	return nil
}
