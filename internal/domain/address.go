package domain

// base58Alphabet is the Bitcoin-style base58 set: digits and letters minus
// the visually ambiguous 0, O, I and l.
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// addressLen is the length of a base58-encoded 32-byte Solana public key.
const addressLen = 44

var base58Set = func() [256]bool {
	var s [256]bool
	for i := 0; i < len(base58Alphabet); i++ {
		s[base58Alphabet[i]] = true
	}
	return s
}()

// IsWalletAddress reports whether s is a syntactically plausible Solana
// wallet address: exactly 44 characters, all from the base58 alphabet.
// It is a pure syntactic check, not an on-chain existence check.
func IsWalletAddress(s string) bool {
	if len(s) != addressLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !base58Set[s[i]] {
			return false
		}
	}
	return true
}
