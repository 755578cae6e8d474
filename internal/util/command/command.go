package command

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/go-hdkey/internal/config"
	"github/chapool/go-hdkey/internal/util"
	"github/chapool/go-hdkey/internal/wallet"
	"github/chapool/go-hdkey/internal/wallet/address"
	"github/chapool/go-hdkey/internal/wallet/coin"
	"github/chapool/go-hdkey/internal/wallet/keystore"
	"github/chapool/go-hdkey/internal/wallet/network"
	"github/chapool/go-hdkey/internal/wallet/seed"
)

// Env is what every wallet command runs against.
type Env struct {
	Config   config.Server
	Registry coin.Registry
	Options  []network.Option
}

// NewEnv loads the coin registry and derivation options described by cfg.
func NewEnv(cfg config.Server) (*Env, error) {
	registry, err := coin.LoadRegistry(cfg.Wallet.RegistryFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load coin registry")
	}

	opts := []network.Option{network.WithRegistry(registry)}
	if cfg.Wallet.AllowNonHardenedEd25519 {
		opts = append(opts, network.WithLegacyEd25519())
	}

	return &Env{
		Config:   cfg,
		Registry: registry,
		Options:  opts,
	}, nil
}

// KeystoreDeps wires the configured keystore file to a fresh seed manager.
func (e *Env) KeystoreDeps(prompt wallet.PasswordPrompter) (wallet.KeystoreDeps, error) {
	ks := e.Config.Keystore

	keystoreService, err := keystore.NewService(ks.File, keystore.NewScryptParams(ks.ScryptN, ks.ScryptR, ks.ScryptP))
	if err != nil {
		return wallet.KeystoreDeps{}, errors.Wrap(err, "failed to create keystore service")
	}

	addressService, err := address.NewService(e.Registry, e.Options...)
	if err != nil {
		return wallet.KeystoreDeps{}, errors.Wrap(err, "failed to create address service")
	}

	return wallet.KeystoreDeps{
		SeedManager:       seed.NewManager(),
		Keystore:          keystoreService,
		Address:           addressService,
		Prompt:            prompt,
		MinPasswordLength: ks.MinPasswordLength,
	}, nil
}

// SeedManager returns a seed manager holding seedHex, or the unlocked keystore seed if seedHex is empty.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func (e *Env) SeedManager(ctx context.Context, seedHex string, prompt wallet.PasswordPrompter) (seed.Manager, error) {
	if seedHex != "" {
		manager := seed.NewManager()
		if err := manager.InitializeHex(seedHex); err != nil {
			return nil, err
		}
		return manager, nil
	}

	deps, err := e.KeystoreDeps(prompt)
	if err != nil {
		return nil, err
	}

	if err := wallet.UnlockKeystore(ctx, deps); err != nil {
		return nil, err
	}

	return deps.SeedManager, nil
}

// WithEnv configures logging from cfg, builds the Env and runs f with it.
func WithEnv(ctx context.Context, cfg config.Server, f func(ctx context.Context, env *Env) error) error {
	util.ConfigureLogger(cfg.Logger.Level, cfg.Logger.PrettyPrintConsole)

	env, err := NewEnv(cfg)
	if err != nil {
		util.LogFromContext(ctx).Error().Err(err).Msg("Failed to initialize command environment")
		return err
	}

	return f(ctx, env)
}

// NewSubcommandGroup returns a command that only groups subcommands and prints its help otherwise.
func NewSubcommandGroup(name string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: name + " related subcommands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(subcommands...)

	return cmd
}
