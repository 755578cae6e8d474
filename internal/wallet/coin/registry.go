package coin

import (
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github/chapool/go-hdkey/internal/wallet/curve"
)

// ReferenceSymbol is the coin whose bip32 and WIF metadata fill in missing entries.
const ReferenceSymbol = "BTC"

// Builtin returns the coins shipped with the binary.
func Builtin() []Coin {
	return []Coin{
		{
			Symbol:         "BTC",
			Name:           "Bitcoin",
			Slip44:         0,
			Curve:          curve.Secp256k1Type,
			Bip32:          &Bip32Versions{Private: 0x0488ADE4, Public: 0x0488B21E},
			WIF:            &WIFVersion{Version: 0x80},
			Address:        AddressP2PKH,
			AddressVersion: 0x00,
		},
		{
			Symbol:         "TBTC",
			Name:           "Bitcoin Testnet",
			Slip44:         1,
			Curve:          curve.Secp256k1Type,
			Bip32:          &Bip32Versions{Private: 0x04358394, Public: 0x043587CF},
			WIF:            &WIFVersion{Version: 0xEF},
			Address:        AddressP2PKH,
			AddressVersion: 0x6F,
		},
		{
			Symbol:         "LTC",
			Name:           "Litecoin",
			Slip44:         2,
			Curve:          curve.Secp256k1Type,
			Bip32:          &Bip32Versions{Private: 0x019D9CFE, Public: 0x019DA462},
			WIF:            &WIFVersion{Version: 0xB0},
			Address:        AddressP2PKH,
			AddressVersion: 0x30,
		},
		{
			Symbol:         "DOGE",
			Name:           "Dogecoin",
			Slip44:         3,
			Curve:          curve.Secp256k1Type,
			Bip32:          &Bip32Versions{Private: 0x02FAC398, Public: 0x02FACAFD},
			WIF:            &WIFVersion{Version: 0x9E},
			Address:        AddressP2PKH,
			AddressVersion: 0x1E,
		},
		{
			Symbol:  "ETH",
			Name:    "Ether",
			Slip44:  60,
			Curve:   curve.Secp256k1Type,
			Address: AddressEIP55,
		},
		{
			Symbol:  "SOL",
			Name:    "Solana",
			Slip44:  501,
			Curve:   curve.Ed25519Type,
			Address: AddressBase58,
		},
	}
}

type registry struct {
	mu    sync.RWMutex
	coins map[string]Coin
}

// NewRegistry builds a registry from the built-in coins followed by extra,
// later entries replacing earlier ones with the same symbol.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewRegistry(extra ...Coin) (Registry, error) {
	r := &registry{coins: make(map[string]Coin)}

	for _, c := range append(Builtin(), extra...) {
		if err := r.add(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

type registryFile struct {
	Coins []Coin `toml:"coin"`
}

// LoadRegistry reads additional coins from a TOML file of [[coin]] tables.
// An empty path yields the built-in registry.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func LoadRegistry(path string) (Registry, error) {
	if path == "" {
		return NewRegistry()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read coin registry %s", path)
	}

	return ParseRegistry(string(raw))
}

// ParseRegistry is LoadRegistry for in-memory TOML documents.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func ParseRegistry(document string) (Registry, error) {
	var f registryFile
	md, err := toml.Decode(document, &f)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode coin registry")
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("unknown coin registry keys: %v", undecoded)
	}

	return NewRegistry(f.Coins...)
}

func (r *registry) add(c Coin) error {
	c.Symbol = strings.ToUpper(strings.TrimSpace(c.Symbol))
	if c.Symbol == "" {
		return errors.New("coin symbol must not be empty")
	}

	if c.Curve != curve.Secp256k1Type && c.Curve != curve.Ed25519Type {
		return errors.Wrapf(&curve.UnsupportedCurveError{Type: c.Curve}, "invalid coin %s", c.Symbol)
	}

	switch c.Address {
	case AddressP2PKH, AddressEIP55:
		if c.Curve != curve.Secp256k1Type {
			return errors.Errorf("invalid coin %s: address format %s requires secp256k1", c.Symbol, c.Address)
		}
	case AddressBase58, AddressHex:
	case "":
		c.Address = AddressHex
	default:
		return errors.Errorf("invalid coin %s: unknown address format %q", c.Symbol, c.Address)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.coins[c.Symbol] = c
	return nil
}

func (r *registry) Lookup(symbol string) (Coin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.coins[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return Coin{}, &UnknownSymbolError{Symbol: symbol}
	}

	return c, nil
}

func (r *registry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	symbols := make([]string, 0, len(r.coins))
	for s := range r.coins {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	return symbols
}
