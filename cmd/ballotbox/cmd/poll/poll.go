package poll

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"boscoin.io/ballotbox/cmd/ballotbox/common"
	"boscoin.io/ballotbox/lib/client"
	ballotboxcommon "boscoin.io/ballotbox/lib/common"
	"boscoin.io/ballotbox/lib/common/keypair"
	"boscoin.io/ballotbox/lib/event"
	"boscoin.io/ballotbox/lib/storage"
)

var (
	Cmd *cobra.Command

	flagEndpoint string = ballotboxcommon.GetENVValue("BALLOTBOX_API", "http://localhost:12345")
	flagStorage  string = ballotboxcommon.GetENVValue("BALLOTBOX_POLL_STORAGE", "")
	flagSender   string = ballotboxcommon.GetENVValue("BALLOTBOX_SENDER", "")
	flagFormat   string = "prettyjson"
)

func init() {
	Cmd = &cobra.Command{
		Use:   "poll",
		Short: "Create polls, vote and query them",
		Run: func(c *cobra.Command, args []string) {
			if len(args) < 1 {
				c.Usage()
			}
		},
	}

	Cmd.PersistentFlags().StringVar(&flagEndpoint, "endpoint", flagEndpoint, "endpoint of the node")
	Cmd.PersistentFlags().StringVar(&flagStorage, "storage", flagStorage, "storage uri; if given, the storage is used instead of the node")
	Cmd.PersistentFlags().StringVar(&flagFormat, "format", flagFormat, "format={json, prettyjson, yaml}")

	createCmd := &cobra.Command{
		Use:   "create <poll id> <question> <option> [<option>...]",
		Short: "Create new poll",
		Args:  cobra.MinimumNArgs(3),
		Run: func(c *cobra.Command, args []string) {
			sender := mustSender(c)
			b := mustBackend(c)
			defer b.Close()

			resp, err := b.CreatePoll(sender, args[0], args[1], args[2:])
			output(c, resp, err)
		},
	}
	createCmd.Flags().StringVar(&flagSender, "sender", flagSender, "address or secret seed of creator")

	voteCmd := &cobra.Command{
		Use:   "vote <poll id> <option>",
		Short: "Vote the option of the poll; the previous vote is replaced",
		Args:  cobra.ExactArgs(2),
		Run: func(c *cobra.Command, args []string) {
			sender := mustSender(c)
			b := mustBackend(c)
			defer b.Close()

			resp, err := b.Vote(sender, args[0], args[1])
			output(c, resp, err)
		},
	}
	voteCmd.Flags().StringVar(&flagSender, "sender", flagSender, "address or secret seed of voter")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all polls",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, args []string) {
			b := mustBackend(c)
			defer b.Close()

			polls, err := b.LoadPolls()
			output(c, polls, err)
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <poll id>",
		Short: "Show the poll with tallies",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			b := mustBackend(c)
			defer b.Close()

			p, err := b.LoadPoll(args[0])
			output(c, p, err)
		},
	}

	ballotCmd := &cobra.Command{
		Use:   "ballot <poll id> <address>",
		Short: "Show the vote of the address",
		Args:  cobra.ExactArgs(2),
		Run: func(c *cobra.Command, args []string) {
			b := mustBackend(c)
			defer b.Close()

			ballot, err := b.LoadBallot(args[0], args[1])
			output(c, ballot, err)
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show the contract config",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, args []string) {
			b := mustBackend(c)
			defer b.Close()

			config, err := b.LoadConfig()
			output(c, config, err)
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch <poll id>",
		Short: "Print the events of the poll from the node until interrupted",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			if len(flagStorage) > 0 {
				common.PrintFlagsError(c, "--storage", errors.New("watch needs the node"))
			}

			b, ok := mustBackend(c).(*client.Client)
			if !ok {
				common.PrintError(c, errors.New("watch needs the node"))
			}
			defer b.Close()

			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				common.Interrupt(ctx.Done())
				cancel()
			}()

			err := b.StreamPoll(ctx, args[0], func(e event.Event) {
				if err := common.DefaultEncodes[flagFormat](e, os.Stdout); err != nil {
					cancel()
				}
			})
			if err != nil && ctx.Err() == nil {
				common.PrintError(c, err)
			}
		},
	}

	Cmd.AddCommand(createCmd, voteCmd, listCmd, getCmd, ballotCmd, configCmd, watchCmd)
}

// parseSender accepts the address or the secret seed; the secret seed is
// used only to get the address.
func parseSender(s string) (string, error) {
	s = strings.TrimSpace(s)
	if kp, err := keypair.Parse(s); err == nil {
		if full, ok := kp.(*keypair.Full); ok {
			return full.Address(), nil
		}
	}

	return keypair.ValidateAddress(s)
}

func mustSender(c *cobra.Command) string {
	if len(flagSender) < 1 {
		common.PrintFlagsError(c, "--sender", errors.New("must be given"))
	}

	sender, err := parseSender(flagSender)
	if err != nil {
		common.PrintFlagsError(c, "--sender", err)
	}

	return sender
}

func mustBackend(c *cobra.Command) Backend {
	if _, found := common.DefaultEncodes[flagFormat]; !found {
		common.PrintFlagsError(c, "--format", fmt.Errorf(`"%s" not recognized`, flagFormat))
	}

	if len(flagStorage) > 0 {
		storageConfig, err := storage.NewConfigFromString(flagStorage)
		if err != nil {
			common.PrintFlagsError(c, "--storage", err)
		}

		st, err := storage.NewStorage(storageConfig)
		if err != nil {
			common.PrintError(c, err)
		}

		return NewLocalBackend(st)
	}

	endpoint, err := ballotboxcommon.ParseEndpoint(flagEndpoint)
	if err != nil {
		common.PrintFlagsError(c, "--endpoint", err)
	}

	b, err := client.NewClient(endpoint.String())
	if err != nil {
		common.PrintError(c, err)
	}

	return b
}

func output(c *cobra.Command, v interface{}, err error) {
	if err != nil {
		common.PrintError(c, err)
	}

	if err := common.DefaultEncodes[flagFormat](v, os.Stdout); err != nil {
		common.PrintError(c, err)
	}
}
