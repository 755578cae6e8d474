package sign

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/go-hdkey/internal/config"
	"github/chapool/go-hdkey/internal/util/command"
	"github/chapool/go-hdkey/internal/wallet"
	"github/chapool/go-hdkey/internal/wallet/signer"
)

const (
	seedFlag   = "seed"
	symbolFlag = "symbol"
	pathFlag   = "path"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign <message>",
		Short: "Signs a message with a derived key",
		Long: `Signs <message> with the key at --path and prints the signature as JSON.

secp256k1 keys produce DER encoded ECDSA signatures over SHA-256(message),
ed25519 keys sign the message directly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultServiceConfigFromEnv()

			return command.WithEnv(cmd.Context(), cfg, func(ctx context.Context, env *command.Env) error {
				return run(ctx, cmd, env, args[0])
			})
		},
	}

	cmd.Flags().String(seedFlag, "", "Hex encoded seed, defaults to the keystore seed")
	cmd.Flags().String(symbolFlag, "", "Network symbol (defaults to HDKEY_WALLET_DEFAULT_SYMBOL)")
	cmd.Flags().String(pathFlag, "", "Derivation path (defaults to HDKEY_WALLET_DEFAULT_PATH)")

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, env *command.Env, message string) error {
	seedHex, _ := cmd.Flags().GetString(seedFlag)
	symbol, _ := cmd.Flags().GetString(symbolFlag)
	path, _ := cmd.Flags().GetString(pathFlag)

	if symbol == "" {
		symbol = env.Config.Wallet.DefaultSymbol
	}
	if path == "" {
		path = env.Config.Wallet.DefaultPath
	}

	seedManager, err := env.SeedManager(ctx, seedHex, wallet.TerminalPrompt)
	if err != nil {
		return err
	}
	defer seedManager.Clear()

	signerService, err := signer.NewService(seedManager, env.Options...)
	if err != nil {
		return err
	}

	sig, err := signerService.SignMessage(ctx, symbol, path, []byte(message))
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(sig, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal signature")
	}

	//nolint:forbidigo
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
