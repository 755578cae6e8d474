package curve

import (
	"crypto/hmac"
	"crypto/sha512"
)

// hmacSHA512 returns HMAC-SHA512(key, parts...) split into its left and right halves.
func hmacSHA512(key []byte, parts ...[]byte) (il []byte, ir []byte) {
	mac := hmac.New(sha512.New, key)
	for _, p := range parts {
		mac.Write(p)
	}

	sum := mac.Sum(nil)
	return sum[:KeySize], sum[KeySize:]
}
