// Package common provides helpers shared by all packages.
package common

import (
	"encoding/binary"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// GetBigIntFromStr parse a non-negative decimal or hex (0x) integer string
func GetBigIntFromStr(str string) (*big.Int, error) {
	bi, ok := new(big.Int).SetString(str, 0)
	if !ok {
		return nil, errors.New("invalid integer: " + str)
	}
	if bi.Sign() < 0 {
		return nil, errors.New("negative integer: " + str)
	}
	return bi, nil
}

// GetUint64FromStr parse uint64 from decimal or hex (0x) string
func GetUint64FromStr(str string) (uint64, error) {
	res, err := strconv.ParseUint(str, 0, 64)
	if err != nil {
		return 0, errors.New("invalid unsigned 64 bit integer: " + str)
	}
	return res, nil
}

// Uint64ToBytes big endian encoding, keeps keys in numeric order
func Uint64ToBytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// BytesToUint64 reverse of Uint64ToBytes
func BytesToUint64(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, errors.New("uint64 bytes length must be 8")
	}
	return binary.BigEndian.Uint64(b), nil
}

// Now returns timestamp of the point of calling.
func Now() int64 {
	return time.Now().Unix()
}

// NowStr returns now timestamp of string format.
func NowStr() string {
	return strconv.FormatInt(Now(), 10)
}

// NowMilli returns now timestamp in miliseconds
func NowMilli() int64 {
	return time.Now().UnixNano() / 1e6
}

// FileExist checks if a file exists at filePath.
func FileExist(filePath string) bool {
	_, err := os.Stat(filePath)
	if err != nil && os.IsNotExist(err) {
		return false
	}
	return true
}

// AbsolutePath returns datadir + filename, or filename if it is absolute.
func AbsolutePath(datadir, filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(datadir, filename)
}

// ExecuteDir returns the directory of the current executable.
func ExecuteDir() (string, error) {
	return filepath.Abs(filepath.Dir(os.Args[0]))
}
