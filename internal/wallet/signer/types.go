package signer

import "context"

// Service provides message and transaction signing with derived keys
type Service interface {
	// SignMessage signs message with the key at path on symbol's network
	SignMessage(ctx context.Context, symbol string, path string, message []byte) (*Signature, error)

	// SignEVMTransaction signs an EVM transaction (EIP-1559)
	SignEVMTransaction(ctx context.Context, req *SignEVMRequest) (*SignEVMResponse, error)
}

// Signature is a detached signature together with the key that produced it.
// secp256k1 signatures are DER encoded ECDSA over SHA-256(message), ed25519 signs the message itself.
type Signature struct {
	Symbol    string `json:"symbol"`
	Path      string `json:"path"`
	PublicKey string `json:"publicKey"`
	Signature string `json:"signature"`
}

// SignEVMRequest represents a request to sign an EVM transaction
type SignEVMRequest struct {
	Symbol               string // Registry symbol of an eip55 network, defaults to ETH
	ChainID              int64  // Chain ID (1 for Ethereum mainnet, 137 for Polygon, etc.)
	To                   string // Recipient address (hex string with 0x prefix)
	Value                string // Amount in wei (as string to avoid precision loss)
	GasLimit             uint64 // Gas limit
	MaxFeePerGas         string // Max fee per gas (EIP-1559, in wei, as string)
	MaxPriorityFeePerGas string // Max priority fee per gas (EIP-1559, in wei, as string)
	Nonce                uint64 // Transaction nonce
	Data                 []byte // Transaction data (for contract calls)
	FromAddress          string // Address to sign from (hex string with 0x prefix)
	DerivationPath       string // BIP44 derivation path (e.g., "m/44'/60'/0'/0/0")
}

// SignEVMResponse represents a signed EVM transaction
type SignEVMResponse struct {
	RawTransaction []byte // RLP-encoded signed transaction
	TxHash         string // Transaction hash (hex string with 0x prefix)
}
