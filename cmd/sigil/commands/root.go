package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/phsym/console-slog"
	"github.com/spf13/cobra"

	"sigil/internal/app"
)

var (
	home       string
	passphrase string
	relayURL   string
	username   string

	wire *app.Wire
)

// Execute builds the root command tree and runs it.
func Execute() error {
	root := &cobra.Command{
		Use:           "sigil",
		Short:         "End-to-end encrypted messaging over X3DH",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
				Level: slog.LevelWarn,
			})))

			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".sigil")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			var err error
			wire, err = app.NewWire(app.Config{Home: home, RelayURL: relayURL})
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.sigil)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the local keystore")
	root.PersistentFlags().StringVar(&relayURL, "relay", "http://127.0.0.1:8080", "relay base URL")

	root.AddCommand(
		initCmd(),
		fingerprintCmd(),
		registerCmd(),
		startSessionCmd(),
		sendCmd(),
		recvCmd(),
	)
	return root.Execute()
}
