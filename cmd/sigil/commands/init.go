package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sigil/internal/crypto"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate identity keys and store them securely",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			id, fp, err := wire.Identity.GenerateIdentity(passphrase)
			if err != nil {
				return err
			}
			fmt.Printf("Identity created.\nPublic key:  %s\nFingerprint: %s\n",
				crypto.B64(id.XPub.Slice()), fp)
			return nil
		},
	}
}
