package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/bech32"
)

// address errors
var (
	ErrEmptyAddress       = errors.New("empty address")
	ErrMixedCaseAddress   = errors.New("address has mixed case")
	ErrWrongAddressPrefix = errors.New("wrong address prefix")
)

// DecodeBech32Address decode bech32 address and return its human readable part.
func DecodeBech32Address(address string) (hrp string, data []byte, err error) {
	if address == "" {
		return "", nil, ErrEmptyAddress
	}
	if strings.ToLower(address) != address && strings.ToUpper(address) != address {
		return "", nil, ErrMixedCaseAddress
	}
	hrp, words, err := bech32.Decode(address)
	if err != nil {
		return "", nil, err
	}
	data, err = bech32.ConvertBits(words, 5, 8, false)
	if err != nil {
		return "", nil, err
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("address %v has empty payload", address)
	}
	return hrp, data, nil
}

// ValidateBech32Address checks address is well-formed bech32.
// If prefix is not empty, the human readable part must equal to it.
func ValidateBech32Address(address, prefix string) error {
	hrp, _, err := DecodeBech32Address(address)
	if err != nil {
		return err
	}
	if prefix != "" && hrp != prefix {
		return fmt.Errorf("%w: want %v, have %v", ErrWrongAddressPrefix, prefix, hrp)
	}
	return nil
}

// EncodeBech32Address encode raw bytes to bech32 address with prefix.
func EncodeBech32Address(prefix string, data []byte) (string, error) {
	words, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(prefix, words)
}
