package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sigil/internal/domain"
)

// recv: fetch pending envelopes, decrypt, and print them.
func recvCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recv",
		Short: "Fetch and decrypt pending messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}

			msgs, err := wire.Messages.ReceiveMessages(
				cmd.Context(), passphrase, domain.Username(username), limit)
			if err != nil {
				return err
			}
			if len(msgs) == 0 {
				fmt.Println("no new messages")
				return nil
			}
			for _, m := range msgs {
				ts := time.Unix(m.Timestamp, 0).Format(time.RFC3339)
				fmt.Printf("[%s] %s: %s\n", ts, m.From, m.Plaintext)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "your username (same as you registered with)")
	cmd.Flags().IntVar(&limit, "limit", 0, "max messages to fetch (0 = all)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
