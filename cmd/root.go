package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/go-hdkey/cmd/bip44"
	"github/chapool/go-hdkey/cmd/derive"
	"github/chapool/go-hdkey/cmd/env"
	"github/chapool/go-hdkey/cmd/inspect"
	"github/chapool/go-hdkey/cmd/keystore"
	"github/chapool/go-hdkey/cmd/sign"
	"github/chapool/go-hdkey/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: config.GetFormattedBuildArgs(),
	Use:     "app",
	Short:   config.ModuleName,
	Long: fmt.Sprintf(`%v

Hierarchical deterministic key derivation for secp256k1 and ed25519 networks.
Requires configuration through ENV.`, config.ModuleName),
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	// attach the subcommands
	rootCmd.AddCommand(
		bip44.New(),
		derive.New(),
		env.New(),
		inspect.New(),
		keystore.New(),
		sign.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}
