package bip44

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/go-hdkey/internal/config"
	"github/chapool/go-hdkey/internal/util/command"
	"github/chapool/go-hdkey/internal/wallet"
	walletbip44 "github/chapool/go-hdkey/internal/wallet/bip44"
)

const (
	seedFlag    = "seed"
	symbolFlag  = "symbol"
	accountFlag = "account"
	changeFlag  = "change"
	countFlag   = "count"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bip44",
		Short: "Lists BIP44 addresses of an account",
		Long: `Derives m/44'/coin'/account'/change/index for index 0..count-1 and prints the summaries as JSON.

BIP44 derivation requires a 64 byte seed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()

			return command.WithEnv(cmd.Context(), cfg, func(ctx context.Context, env *command.Env) error {
				return run(ctx, cmd, env)
			})
		},
	}

	cmd.Flags().String(seedFlag, "", "Hex encoded seed, defaults to the keystore seed")
	cmd.Flags().String(symbolFlag, "", "Network symbol (defaults to HDKEY_WALLET_DEFAULT_SYMBOL)")
	cmd.Flags().Uint32(accountFlag, 0, "Account number")
	cmd.Flags().Uint32(changeFlag, walletbip44.ChangeExternal, "0 for receiving, 1 for change addresses")
	cmd.Flags().Uint32(countFlag, 5, "Number of addresses") //nolint:mnd

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, env *command.Env) error {
	seedHex, _ := cmd.Flags().GetString(seedFlag)
	symbol, _ := cmd.Flags().GetString(symbolFlag)
	account, _ := cmd.Flags().GetUint32(accountFlag)
	change, _ := cmd.Flags().GetUint32(changeFlag)
	count, _ := cmd.Flags().GetUint32(countFlag)

	if symbol == "" {
		symbol = env.Config.Wallet.DefaultSymbol
	}

	seedManager, err := env.SeedManager(ctx, seedHex, wallet.TerminalPrompt)
	if err != nil {
		return err
	}
	defer seedManager.Clear()

	walletService, err := wallet.NewService(seedManager, env.Registry, env.Options...)
	if err != nil {
		return err
	}

	wallets, err := walletService.ListWallets(ctx, symbol, account, change, count)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(wallets, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal wallets")
	}

	//nolint:forbidigo
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
