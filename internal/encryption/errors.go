package encryption

import "errors"

var (
	// ErrEncryption is returned when the cipher cannot process the plaintext or its parameters.
	ErrEncryption = errors.New("encrypt failed")
	// ErrDecryption is returned for a missing or malformed salt header, a malformed salt,
	// or ciphertext the cipher rejects.
	ErrDecryption = errors.New("decrypt failed")
	// ErrEmptyData is returned when attempting to unpad empty data.
	ErrEmptyData = errors.New("empty data")
	// ErrInvalidPadding is returned when PKCS7 padding is malformed.
	ErrInvalidPadding = errors.New("invalid padding")
	// ErrInvalidBlockSize is returned when encrypted data length is not aligned with AES block size.
	ErrInvalidBlockSize = errors.New("ciphertext is not a multiple of block size")
)
