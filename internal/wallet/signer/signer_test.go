package signer_test

import (
	"context"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-hdkey/internal/wallet/address"
	"github/chapool/go-hdkey/internal/wallet/coin"
	"github/chapool/go-hdkey/internal/wallet/curve"
	"github/chapool/go-hdkey/internal/wallet/seed"
	"github/chapool/go-hdkey/internal/wallet/signer"
)

func newSigner(t *testing.T) (signer.Service, seed.Manager) {
	t.Helper()

	manager := seed.NewManager()
	seedBytes := make([]byte, 64)
	for i := range seedBytes {
		seedBytes[i] = byte(i)
	}
	require.NoError(t, manager.Initialize(seedBytes))

	svc, err := signer.NewService(manager)
	require.NoError(t, err)

	return svc, manager
}

func TestSignMessage(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSigner(t)
	message := []byte("hello")

	tests := []struct {
		symbol string
		path   string
		curve  curve.Type
	}{
		{"BTC", "m/44'/0'/0'/0/0", curve.Secp256k1Type},
		{"SOL", "m/44'/501'/0'/0'", curve.Ed25519Type},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			sig, err := svc.SignMessage(ctx, tt.symbol, tt.path, message)
			require.NoError(t, err)
			assert.Equal(t, tt.path, sig.Path)

			pub, err := hex.DecodeString(sig.PublicKey)
			require.NoError(t, err)
			raw, err := hex.DecodeString(sig.Signature)
			require.NoError(t, err)

			require.NoError(t, signer.Verify(tt.curve, pub, message, raw))
			require.ErrorIs(t, signer.Verify(tt.curve, pub, []byte("hellO"), raw), signer.ErrInvalidSignature)
		})
	}
}

func TestSignEVMTransaction(t *testing.T) {
	ctx := context.Background()
	svc, manager := newSigner(t)
	const path = "m/44'/60'/0'/0/0"

	registry, err := coin.NewRegistry()
	require.NoError(t, err)
	addressService, err := address.NewService(registry)
	require.NoError(t, err)

	from, err := addressService.DeriveAddress(ctx, manager.GetSeed(), "ETH", path)
	require.NoError(t, err)

	req := &signer.SignEVMRequest{
		ChainID:              1,
		To:                   "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf",
		Value:                "1000000000000000000",
		GasLimit:             21000,
		MaxFeePerGas:         "30000000000",
		MaxPriorityFeePerGas: "1000000000",
		Nonce:                7,
		FromAddress:          from,
		DerivationPath:       path,
	}

	res, err := svc.SignEVMTransaction(ctx, req)
	require.NoError(t, err)

	var tx types.Transaction
	require.NoError(t, tx.UnmarshalBinary(res.RawTransaction))
	assert.Equal(t, res.TxHash, tx.Hash().Hex())
	assert.Equal(t, uint64(7), tx.Nonce())

	sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(1)), &tx)
	require.NoError(t, err)
	assert.Equal(t, from, sender.Hex())

	req.DerivationPath = "m/44'/60'/0'/0/1"
	_, err = svc.SignEVMTransaction(ctx, req)
	require.Error(t, err)

	req.Symbol = "SOL"
	req.DerivationPath = "m/44'/501'/0'/0'"
	_, err = svc.SignEVMTransaction(ctx, req)
	require.Error(t, err)
}

func TestSignWithoutSeed(t *testing.T) {
	svc, err := signer.NewService(seed.NewManager())
	require.NoError(t, err)

	_, err = svc.SignMessage(context.Background(), "BTC", "m/0", []byte("x"))
	require.Error(t, err)
}
