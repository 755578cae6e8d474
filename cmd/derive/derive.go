package derive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/go-hdkey/internal/config"
	"github/chapool/go-hdkey/internal/util/command"
	"github/chapool/go-hdkey/internal/wallet"
)

const (
	seedFlag          = "seed"
	symbolFlag        = "symbol"
	pathFlag          = "path"
	privateFlag       = "private"
	legacyEd25519Flag = "legacy-ed25519"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derives the key at a path",
		Long: `Derives the key at --path on the network of --symbol and prints its summary as JSON.

The seed is taken from --seed (hex) or, if omitted, from the unlocked keystore.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()
			applyFlags(cmd, &cfg)

			return command.WithEnv(cmd.Context(), cfg, func(ctx context.Context, env *command.Env) error {
				return run(ctx, cmd, env)
			})
		},
	}

	cmd.Flags().String(seedFlag, "", "Hex encoded seed, defaults to the keystore seed")
	cmd.Flags().String(symbolFlag, "", "Network symbol (defaults to HDKEY_WALLET_DEFAULT_SYMBOL)")
	cmd.Flags().String(pathFlag, "", "Derivation path (defaults to HDKEY_WALLET_DEFAULT_PATH)")
	cmd.Flags().Bool(privateFlag, false, "Include the extended private key and WIF")
	cmd.Flags().Bool(legacyEd25519Flag, false, "Allow non-hardened ed25519 children (not SLIP-0010 compatible)")

	return cmd
}

func applyFlags(cmd *cobra.Command, cfg *config.Server) {
	if symbol, _ := cmd.Flags().GetString(symbolFlag); symbol != "" {
		cfg.Wallet.DefaultSymbol = symbol
	}
	if path, _ := cmd.Flags().GetString(pathFlag); path != "" {
		cfg.Wallet.DefaultPath = path
	}
	if legacy, _ := cmd.Flags().GetBool(legacyEd25519Flag); legacy {
		cfg.Wallet.AllowNonHardenedEd25519 = true
	}
}

func run(ctx context.Context, cmd *cobra.Command, env *command.Env) error {
	seedHex, _ := cmd.Flags().GetString(seedFlag)
	includePrivate, _ := cmd.Flags().GetBool(privateFlag)

	seedManager, err := env.SeedManager(ctx, seedHex, wallet.TerminalPrompt)
	if err != nil {
		return err
	}
	defer seedManager.Clear()

	walletService, err := wallet.NewService(seedManager, env.Registry, env.Options...)
	if err != nil {
		return err
	}

	w, err := walletService.GetWallet(ctx, env.Config.Wallet.DefaultSymbol, env.Config.Wallet.DefaultPath, includePrivate)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal wallet")
	}

	//nolint:forbidigo
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
