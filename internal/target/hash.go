package target

import "github.com/ethereum/go-ethereum/crypto"

// keccak256First4 returns the first four bytes of keccak256(s), used for
// the Solana contract type-hash (spec §6) the same way ast.Selector uses
// the same four bytes for ABI function selectors.
func keccak256First4(s string) [4]byte {
	h := crypto.Keccak256([]byte(s))
	var out [4]byte
	copy(out[:], h[:4])
	return out
}
