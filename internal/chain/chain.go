// Package chain validates the identifiers exchanged with wallet clients:
// account addresses, transaction hashes and token ids.
package chain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// NormalizeAddress validates a hex account address and returns its checksummed form
func NormalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("invalid wallet address %q", address)
	}
	return common.HexToAddress(address).Hex(), nil
}

// SameAddress compares two addresses ignoring checksum case
func SameAddress(a, b string) bool {
	if !common.IsHexAddress(a) || !common.IsHexAddress(b) {
		return false
	}
	return common.HexToAddress(a) == common.HexToAddress(b)
}

// NormalizeHash validates a 32-byte 0x-prefixed hash (transaction hash or
// bytes32 on-chain id) and returns it lower-cased
func NormalizeHash(hash string) (string, error) {
	hash = strings.TrimSpace(hash)
	b, err := hexutil.Decode(hash)
	if err != nil {
		return "", fmt.Errorf("invalid hash %q: %w", hash, err)
	}
	if len(b) != common.HashLength {
		return "", fmt.Errorf("invalid hash %q: expected %d bytes, got %d", hash, common.HashLength, len(b))
	}
	return common.BytesToHash(b).Hex(), nil
}

// NormalizeTokenID validates a uint256 token id given in decimal or 0x hex
// and returns its decimal form
func NormalizeTokenID(tokenID string) (string, error) {
	tokenID = strings.TrimSpace(tokenID)
	var n *big.Int
	if strings.HasPrefix(tokenID, "0x") || strings.HasPrefix(tokenID, "0X") {
		v, err := hexutil.DecodeBig(strings.ToLower(tokenID))
		if err != nil {
			return "", fmt.Errorf("invalid token id %q: %w", tokenID, err)
		}
		n = v
	} else {
		v, ok := new(big.Int).SetString(tokenID, 10)
		if !ok {
			return "", fmt.Errorf("invalid token id %q", tokenID)
		}
		n = v
	}
	if n.Sign() < 0 || n.BitLen() > 256 {
		return "", fmt.Errorf("token id %q out of range", tokenID)
	}
	return n.String(), nil
}
