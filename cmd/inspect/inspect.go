package inspect

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/go-hdkey/internal/config"
	"github/chapool/go-hdkey/internal/util/command"
	"github/chapool/go-hdkey/internal/wallet"
	"github/chapool/go-hdkey/internal/wallet/address"
	"github/chapool/go-hdkey/internal/wallet/hdkey"
	"github/chapool/go-hdkey/internal/wallet/network"
)

const (
	symbolFlag = "symbol"
	deriveFlag = "derive"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <xprv|xpub>",
		Short: "Decodes an extended key",
		Long: `Decodes a Base58Check extended key, optionally derives --derive relative to it,
and prints the public summary as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultServiceConfigFromEnv()

			return command.WithEnv(cmd.Context(), cfg, func(ctx context.Context, env *command.Env) error {
				return run(ctx, cmd, env, args[0])
			})
		},
	}

	cmd.Flags().String(symbolFlag, "", "Network symbol (defaults to HDKEY_WALLET_DEFAULT_SYMBOL)")
	cmd.Flags().String(deriveFlag, "", "Relative path to derive, e.g. m/0/1")

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, env *command.Env, extendedKey string) error {
	symbol, _ := cmd.Flags().GetString(symbolFlag)
	path, _ := cmd.Flags().GetString(deriveFlag)

	if symbol == "" {
		symbol = env.Config.Wallet.DefaultSymbol
	}

	info, err := network.New(symbol, env.Options...)
	if err != nil {
		return err
	}

	node, err := hdkey.FromExtendedKey(extendedKey, info)
	if err != nil {
		return err
	}

	if path != "" {
		if node, err = node.Derive(path); err != nil {
			return err
		}
	}

	addressService, err := address.NewService(env.Registry, env.Options...)
	if err != nil {
		return err
	}

	w, err := wallet.FromNode(ctx, node, addressService, false)
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
