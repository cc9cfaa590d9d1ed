package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sigil/internal/domain"
)

// startSessionCmd performs the X3DH handshake against a peer's pre-key
// bundle and sends the handshake envelope with an initial greeting.
func startSessionCmd() *cobra.Command {
	var greeting string

	cmd := &cobra.Command{
		Use:   "start-session <peer>",
		Short: "Establish a secure session with a peer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			peer := domain.Username(args[0])

			sess, env, err := wire.Sessions.InitiateSession(
				cmd.Context(), passphrase, domain.Username(username), peer, []byte(greeting))
			if err != nil {
				return fmt.Errorf("starting session with %q: %w", peer, err)
			}
			if err := wire.Relay.SendMessage(cmd.Context(), env); err != nil {
				return err
			}

			fmt.Printf("Session created with %s (signed pre-key %s, one-time pre-key %s)\n",
				peer, sess.SignedPreKeyID, sess.OneTimePreKeyID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "your username (same as you registered with)")
	cmd.Flags().StringVar(&greeting, "greeting", "hello", "initial plaintext carried in the handshake")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
