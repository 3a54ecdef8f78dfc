package key

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"boscoin.io/ballotbox/cmd/ballotbox/common"
	"boscoin.io/ballotbox/lib/common/keypair"
)

var (
	GenerateCmd *cobra.Command

	flagParse  bool
	flagFormat string
)

type keyPair struct {
	Seed    string `json:"seed"`
	Address string `json:"address"`
}

func defaultEncode(v interface{}, w io.Writer) error {
	t := template.Must(template.New("").Parse(`   Secret Seed: {{ .Seed }}
Public Address: {{ .Address }}
`))
	return t.Execute(w, v)
}

func onelineEncode(v interface{}, w io.Writer) error {
	kp := v.(keyPair)
	_, err := fmt.Fprintf(w, "%s %s\n", kp.Seed, kp.Address)
	return err
}

var encoders = map[string]common.Encode{
	"json":       common.DefaultEncodes["json"],
	"prettyjson": common.DefaultEncodes["prettyjson"],
	"yaml":       common.DefaultEncodes["yaml"],
	"default":    defaultEncode,
	"oneline":    onelineEncode,
}

func init() {
	GenerateCmd = &cobra.Command{
		Use:   "generate [<secret seed> | <passphrase>]",
		Short: "Generate keypair; the address is the identity of creator, voter and admin",
		Run: func(c *cobra.Command, args []string) {
			input := strings.TrimSpace(strings.Join(args, " "))

			if flagParse && len(input) == 0 {
				common.PrintFlagsError(c, "--parse", errors.New("--parse needs <secret seed>"))
			}

			kp, err := generateKP(input, flagParse)
			if err != nil {
				common.PrintFlagsError(c, "<input>", fmt.Errorf("failed to parse secret seed: %v", err))
			}

			encode, ok := encoders[flagFormat]
			if !ok {
				common.PrintFlagsError(c, "--format", fmt.Errorf(`"%s" not recognized`, flagFormat))
			}

			if err := encode(keyPair{Seed: kp.Seed(), Address: kp.Address()}, os.Stdout); err != nil {
				common.PrintError(c, err)
			}
		},
	}

	GenerateCmd.Flags().BoolVar(&flagParse, "parse", false, "parse secret seed")
	GenerateCmd.Flags().StringVar(&flagFormat, "format", "default", "format={default, json, oneline, prettyjson, yaml}")
}

// generateKP makes random keypair without input; with input, it parses the
// secret seed or derives the keypair from the passphrase.
func generateKP(seedOrPassphrase string, fromSeed bool) (full *keypair.Full, err error) {
	if len(seedOrPassphrase) == 0 {
		full, err = keypair.RandomCanFail()
	} else if fromSeed {
		var kp keypair.KP

		if kp, err = keypair.Parse(seedOrPassphrase); err == nil {
			if kf, ok := kp.(*keypair.Full); ok {
				full = kf
			} else {
				err = fmt.Errorf("not a secret seed")
			}
		}
	} else {
		full = keypair.Master(seedOrPassphrase).(*keypair.Full)
	}

	return
}
