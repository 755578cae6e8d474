package wallet

// Wallet is the public summary of a derived node
type Wallet struct {
	Symbol            string `json:"symbol"`
	Path              string `json:"path"`
	Depth             uint32 `json:"depth"`
	Fingerprint       string `json:"fingerprint"`
	ParentFingerprint string `json:"parentFingerprint"`
	Address           string `json:"address"`
	PublicKey         string `json:"publicKey"`
	ExtendedPublicKey string `json:"xpub"`

	// Only set when private material was requested
	ExtendedPrivateKey string `json:"xprv,omitempty"`
	WIF                string `json:"wif,omitempty"`
}
