package seed

// Manager holds the seed of the running process
type Manager interface {
	// Initialize stores a copy of seed (called at startup)
	Initialize(seed []byte) error

	// InitializeHex decodes a hex encoded seed and stores it
	InitializeHex(seedHex string) error

	// GetSeed gets the seed (from memory)
	GetSeed() []byte

	// IsInitialized checks if seed is initialized
	IsInitialized() bool

	// Clear clears the seed from memory
	Clear()
}
