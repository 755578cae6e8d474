package keystore

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/go-hdkey/internal/config"
	"github/chapool/go-hdkey/internal/util"
	"github/chapool/go-hdkey/internal/util/command"
	"github/chapool/go-hdkey/internal/wallet"
)

const importSeedFlag = "import-seed"

func New() *cobra.Command {
	return command.NewSubcommandGroup("keystore",
		newCreate(),
		newUnlock(),
	)
}

func newCreate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Creates the encrypted seed keystore",
		Long: `Encrypts a new random 64 byte seed, or the hex seed given by --import-seed,
into the keystore file configured by HDKEY_KEYSTORE_FILE.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()

			return command.WithEnv(cmd.Context(), cfg, func(ctx context.Context, env *command.Env) error {
				seedHex, _ := cmd.Flags().GetString(importSeedFlag)

				var importSeed []byte
				if seedHex != "" {
					decoded, err := hex.DecodeString(seedHex)
					if err != nil {
						return errors.New("import seed is not valid hex")
					}
					importSeed = decoded
					defer util.ZeroBytes(importSeed)
				}

				deps, err := env.KeystoreDeps(wallet.TerminalPrompt)
				if err != nil {
					return err
				}
				defer deps.SeedManager.Clear()

				if err := wallet.CreateKeystore(ctx, deps, importSeed); err != nil {
					return err
				}

				//nolint:forbidigo
				fmt.Fprintln(cmd.OutOrStdout(), "Keystore written to", cfg.Keystore.File)
				return nil
			})
		},
	}

	cmd.Flags().String(importSeedFlag, "", "Hex encoded seed to import instead of generating one")

	return cmd
}

func newUnlock() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Checks the keystore password",
		Long:  `Decrypts the keystore and verifies the seed against the stored verification address.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()

			return command.WithEnv(cmd.Context(), cfg, func(ctx context.Context, env *command.Env) error {
				deps, err := env.KeystoreDeps(wallet.TerminalPrompt)
				if err != nil {
					return err
				}
				defer deps.SeedManager.Clear()

				if err := wallet.UnlockKeystore(ctx, deps); err != nil {
					return err
				}

				//nolint:forbidigo
				fmt.Fprintln(cmd.OutOrStdout(), "Keystore unlocked")
				return nil
			})
		},
	}
}
