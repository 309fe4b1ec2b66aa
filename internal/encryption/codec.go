package encryption

import (
	"fmt"
	"io"
)

// Codec transforms a byte stream into its encrypted or decrypted form.
// Implementations process the input incrementally and never hold it in memory as a whole.
type Codec interface {
	// Encrypt reads plaintext from r until EOF and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error
	// Decrypt reads ciphertext from r until EOF and writes plaintext to w.
	Decrypt(r io.Reader, w io.Writer) error
}

// Algorithm selects the cipher codec.
type Algorithm string

const (
	// AlgorithmCBC is AES-256-CBC with PKCS#7 padding and a "Salted__" header.
	AlgorithmCBC Algorithm = "cbc"
	// AlgorithmChaCha20 is the ChaCha20 keystream cipher without header or padding.
	AlgorithmChaCha20 Algorithm = "chacha20"
)

// Algorithms lists the supported algorithms, default first.
//
//nolint:gochecknoglobals
var Algorithms = []Algorithm{AlgorithmCBC, AlgorithmChaCha20}

// Options configures a codec created by New.
type Options struct {
	// KeyFile is the path of the key file the pass-phrase is derived from.
	KeyFile string
	// Salt is the caller supplied salt. Hex for CBC, raw text for ChaCha20.
	// Empty means a random salt (CBC) or an empty salt (ChaCha20).
	Salt string
	// LenientPadding makes CBC emit a final block with invalid padding unmodified
	// instead of failing.
	LenientPadding bool
}

// New returns the codec for the given algorithm.
func New(algorithm Algorithm, opts Options) (Codec, error) {
	switch algorithm {
	case AlgorithmCBC:
		codec := NewCBC(opts.KeyFile, opts.Salt)
		codec.Lenient = opts.LenientPadding

		return codec, nil
	case AlgorithmChaCha20:
		return NewChaCha20(opts.KeyFile, opts.Salt), nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q", algorithm)
	}
}
