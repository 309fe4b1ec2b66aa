package encryption

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/idelchi/mkencbox/internal/keyfile"
)

const (
	// CBCIterations is the PBKDF2 iteration count of the CBC codec.
	CBCIterations = 600_000
	// SaltSize is the size of a generated CBC salt.
	SaltSize = 8
	// HeaderSize is the size of the "Salted__" header including the salt.
	HeaderSize = len(SaltMagic) + SaltSize

	cbcKeySize = 32
)

// SaltMagic marks ciphertext that carries its own salt.
const SaltMagic = "Salted__"

// CBC is the AES-256-CBC codec.
//
// Without a caller supplied salt, encryption generates a random one and writes it
// behind SaltMagic at the start of the output, in the layout used by `openssl enc`.
// With a supplied salt no header is written and the same salt must be supplied to decrypt.
type CBC struct {
	// KeyFile is the path of the key file.
	KeyFile string
	// Salt is the hex encoded caller salt, empty for a generated salt.
	// Any decoded length is accepted; only generated salts are fixed at SaltSize bytes.
	Salt string
	// Lenient emits a final block with invalid padding unmodified instead of failing.
	Lenient bool
	// Iterations overrides CBCIterations when non-zero.
	Iterations int
}

// NewCBC creates a CBC codec for the key file and optional hex salt.
func NewCBC(keyFile, salt string) *CBC {
	return &CBC{KeyFile: keyFile, Salt: salt}
}

// Encrypt encrypts r into w one block at a time.
func (c *CBC) Encrypt(r io.Reader, w io.Writer) error {
	salt, generated, err := c.encryptionSalt()
	if err != nil {
		return err
	}

	passphrase, err := keyfile.Passphrase(c.KeyFile)
	if err != nil {
		return err
	}

	block, iv, err := c.newBlock(passphrase, salt)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncryption, err)
	}

	if generated {
		header := append([]byte(SaltMagic), salt...)
		if _, err := w.Write(header); err != nil {
			return fmt.Errorf("writing salt header: %w", err)
		}
	}

	cbcMode := cipher.NewCBCEncrypter(block, iv)
	buf := make([]byte, aes.BlockSize, 2*aes.BlockSize)

	for {
		n, err := io.ReadFull(r, buf)

		switch {
		case err == nil:
			cbcMode.CryptBlocks(buf, buf)

			if _, err := w.Write(buf); err != nil {
				return fmt.Errorf("writing encrypted block: %w", err)
			}
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			padded := pkcs7Pad(buf[:n], aes.BlockSize)
			cbcMode.CryptBlocks(padded, padded)

			if _, err := w.Write(padded); err != nil {
				return fmt.Errorf("writing final encrypted block: %w", err)
			}

			return nil
		default:
			return fmt.Errorf("reading plaintext: %w", err)
		}
	}
}

// Decrypt decrypts r into w, holding back one block so the padding of the last
// block can be removed once the end of the stream is reached.
func (c *CBC) Decrypt(r io.Reader, w io.Writer) error {
	salt, err := c.decryptionSalt(r)
	if err != nil {
		return err
	}

	passphrase, err := keyfile.Passphrase(c.KeyFile)
	if err != nil {
		return err
	}

	block, iv, err := c.newBlock(passphrase, salt)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecryption, err)
	}

	cbcMode := cipher.NewCBCDecrypter(block, iv)
	pending := &lookahead{w: w, lenient: c.Lenient}
	buf := make([]byte, aes.BlockSize)

	for {
		_, err := io.ReadFull(r, buf)

		switch {
		case err == nil:
			cbcMode.CryptBlocks(buf, buf)

			if err := pending.push(buf); err != nil {
				return err
			}
		case errors.Is(err, io.EOF):
			return pending.finish()
		case errors.Is(err, io.ErrUnexpectedEOF):
			return fmt.Errorf("%w: %w", ErrDecryption, ErrInvalidBlockSize)
		default:
			return fmt.Errorf("reading ciphertext: %w", err)
		}
	}
}

// encryptionSalt decodes the caller salt or generates a random one.
// generated reports whether the salt must be written as a header.
func (c *CBC) encryptionSalt() (salt []byte, generated bool, err error) {
	if c.Salt != "" {
		salt, err = hex.DecodeString(c.Salt)
		if err != nil {
			return nil, false, fmt.Errorf("%w: decoding salt: %w", ErrEncryption, err)
		}

		return salt, false, nil
	}

	salt = make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, false, fmt.Errorf("generating salt: %w", err)
	}

	return salt, true, nil
}

// decryptionSalt decodes the caller salt, or reads it from the header at the start of r.
func (c *CBC) decryptionSalt(r io.Reader) ([]byte, error) {
	if c.Salt != "" {
		salt, err := hex.DecodeString(c.Salt)
		if err != nil {
			return nil, fmt.Errorf("%w: decoding salt: %w", ErrDecryption, err)
		}

		return salt, nil
	}

	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: salt header missing", ErrDecryption)
		}

		return nil, fmt.Errorf("reading salt header: %w", err)
	}

	if !bytes.Equal(header[:len(SaltMagic)], []byte(SaltMagic)) {
		return nil, fmt.Errorf("%w: salt header missing", ErrDecryption)
	}

	return header[len(SaltMagic):], nil
}

// newBlock derives the AES key and IV from passphrase and salt.
func (c *CBC) newBlock(passphrase, salt []byte) (cipher.Block, []byte, error) {
	iterations := c.Iterations
	if iterations == 0 {
		iterations = CBCIterations
	}

	key, iv := keyfile.Derive(passphrase, salt, iterations, cbcKeySize, aes.BlockSize)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("creating cipher: %w", err)
	}

	return block, iv, nil
}

// Salted reports whether r starts with SaltMagic.
func Salted(r io.Reader) (bool, error) {
	magic := make([]byte, len(SaltMagic))

	if _, err := io.ReadFull(r, magic); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}

		return false, fmt.Errorf("reading header: %w", err)
	}

	return bytes.Equal(magic, []byte(SaltMagic)), nil
}
