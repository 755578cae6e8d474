package util

// ZeroBytes overwrites b with zeros. Used to clear key material after use.
func ZeroBytes(b []byte) {
	clear(b)
}
