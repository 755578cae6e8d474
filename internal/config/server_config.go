package config

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const envPrefix = "HDKEY"

type LoggerConfig struct {
	Level              zerolog.Level
	PrettyPrintConsole bool
}

type WalletConfig struct {
	// DefaultSymbol is used when no --symbol flag is given.
	DefaultSymbol string
	// DefaultPath is used when no --path flag is given.
	DefaultPath string
	// RegistryFile optionally points to a TOML file with additional coins.
	RegistryFile string
	// AllowNonHardenedEd25519 switches ed25519 to the permissive, non SLIP-0010 derivation.
	AllowNonHardenedEd25519 bool
}

type KeystoreConfig struct {
	File              string
	ScryptN           int
	ScryptR           int
	ScryptP           int
	MinPasswordLength int
}

type Server struct {
	Logger   LoggerConfig
	Wallet   WalletConfig
	Keystore KeystoreConfig
}

// DefaultServiceConfigFromEnv returns the server config as parsed from environment variables
// and their respective defaults defined below.
// An optional .env file in the working directory is loaded first, real environment
// variables always take precedence.
func DefaultServiceConfigFromEnv() Server {
	if err := gotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Failed to load .env file")
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logger.level", zerolog.InfoLevel.String())
	v.SetDefault("logger.pretty_print_console", false)
	v.SetDefault("wallet.default_symbol", "BTC")
	v.SetDefault("wallet.default_path", "m")
	v.SetDefault("wallet.registry_file", "")
	v.SetDefault("wallet.ed25519_allow_non_hardened", false)
	v.SetDefault("keystore.file", "keystore.json")
	v.SetDefault("keystore.scrypt_n", 262144) //nolint:mnd // 2^18, keystore v3 standard
	v.SetDefault("keystore.scrypt_r", 8)      //nolint:mnd
	v.SetDefault("keystore.scrypt_p", 1)
	v.SetDefault("keystore.min_password_length", 8) //nolint:mnd

	level, err := zerolog.ParseLevel(v.GetString("logger.level"))
	if err != nil {
		log.Warn().Err(err).Str("level", v.GetString("logger.level")).Msg("Invalid log level, falling back to info")
		level = zerolog.InfoLevel
	}

	return Server{
		Logger: LoggerConfig{
			Level:              level,
			PrettyPrintConsole: v.GetBool("logger.pretty_print_console"),
		},
		Wallet: WalletConfig{
			DefaultSymbol:           v.GetString("wallet.default_symbol"),
			DefaultPath:             v.GetString("wallet.default_path"),
			RegistryFile:            v.GetString("wallet.registry_file"),
			AllowNonHardenedEd25519: v.GetBool("wallet.ed25519_allow_non_hardened"),
		},
		Keystore: KeystoreConfig{
			File:              v.GetString("keystore.file"),
			ScryptN:           v.GetInt("keystore.scrypt_n"),
			ScryptR:           v.GetInt("keystore.scrypt_r"),
			ScryptP:           v.GetInt("keystore.scrypt_p"),
			MinPasswordLength: v.GetInt("keystore.min_password_length"),
		},
	}
}
