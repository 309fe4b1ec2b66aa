// Package keyfile turns a key file into pass-phrase bytes and stretches those
// into cipher key material with PBKDF2-HMAC-SHA256.
package keyfile

import (
	"crypto/md5" //nolint:gosec // part of the pass-phrase format, not used for integrity
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"
)

// ErrInvalidKeyfile is returned when the key file is missing or not a regular file.
var ErrInvalidKeyfile = errors.New("invalid keyfile")

// separator joins the SHA-256 and MD5 digests in the pass-phrase.
const separator = '0'

// Passphrase reads the key file at path and returns
// hex(sha256(content)) + "0" + hex(md5(content)).
func Passphrase(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKeyfile, err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %q is not a regular file", ErrInvalidKeyfile, path)
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}

	return FromBytes(content), nil
}

// FromBytes computes the pass-phrase for already loaded key file content.
func FromBytes(content []byte) []byte {
	shaSum := sha256.Sum256(content)
	md5Sum := md5.Sum(content) //nolint:gosec

	phrase := make([]byte, 0, 2*sha256.Size+1+2*md5.Size)
	phrase = hex.AppendEncode(phrase, shaSum[:])
	phrase = append(phrase, separator)
	phrase = hex.AppendEncode(phrase, md5Sum[:])

	return phrase
}

// Derive stretches passphrase and salt into keyLen+ivLen bytes and splits them
// into a cipher key and an IV (or nonce).
func Derive(passphrase, salt []byte, iterations, keyLen, ivLen int) (key, iv []byte) {
	material := pbkdf2.Key(passphrase, salt, iterations, keyLen+ivLen, sha256.New)

	return material[:keyLen], material[keyLen:]
}
