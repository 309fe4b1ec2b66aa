package encryption_test

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"testing"

	"github.com/stretchr/testify/require"
)

// sealRaw encrypts block-aligned data with AES-CBC and no padding.
func sealRaw(t *testing.T, key, iv, data []byte) []byte {
	t.Helper()

	require.Zero(t, len(data)%aes.BlockSize)

	block, err := aes.NewCipher(key)
	require.NoError(t, err)

	out := make([]byte, len(data))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, data)

	return out
}

// expectCBC returns the PKCS#7 padded AES-CBC encryption of plain.
func expectCBC(t *testing.T, key, iv, plain []byte) []byte {
	t.Helper()

	padding := aes.BlockSize - len(plain)%aes.BlockSize
	padded := append(bytes.Clone(plain), bytes.Repeat([]byte{byte(padding)}, padding)...)

	return sealRaw(t, key, iv, padded)
}
