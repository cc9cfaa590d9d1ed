package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sigil/internal/domain"
)

func registerCmd() *cobra.Command {
	var opkCount int

	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Publish your pre-key bundle to the relay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			username = args[0]

			// Generate a signed pre-key and a batch of one-time pre-keys.
			if _, _, err := wire.PreKeys.GenerateAndStorePreKeys(passphrase, opkCount); err != nil {
				return err
			}

			// Assemble the public bundle and cache it.
			bundle, err := wire.PreKeys.LoadPreKeyBundle(passphrase, domain.Username(username))
			if err != nil {
				return err
			}

			// Publish to relay.
			if err := wire.Relay.RegisterPreKeyBundle(cmd.Context(), bundle); err != nil {
				return err
			}

			fmt.Printf("Registered %d one-time pre-keys with relay as %q\n",
				len(bundle.OneTimePreKeys), username)
			return nil
		},
	}
	cmd.Flags().IntVar(&opkCount, "opks", 10, "number of one-time pre-keys to publish")
	return cmd
}
