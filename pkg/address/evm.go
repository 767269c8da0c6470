// Package address holds EVM address helpers.
package address

import "github.com/ethereum/go-ethereum/common"

// Valid reports whether s parses as a 20-byte hex address, with or without
// the 0x prefix. It does not verify the EIP-55 checksum: wallets routinely
// emit all-lowercase addresses and those must not be rejected.
func Valid(s string) bool {
	return common.IsHexAddress(s)
}

// Checksum returns the EIP-55 mixed-case form of the address. Account ids
// are built from this canonical form so the same address never yields two
// ids differing only in case.
func Checksum(s string) string {
	return common.HexToAddress(s).Hex()
}
