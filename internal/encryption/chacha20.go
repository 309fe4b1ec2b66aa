package encryption

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20"

	"github.com/idelchi/mkencbox/internal/keyfile"
)

// ChaCha20Iterations is the PBKDF2 iteration count of the ChaCha20 codec.
const ChaCha20Iterations = 1_000_000

// ChaCha20 is the keystream codec. Encryption and decryption are the same
// operation, the output is exactly as long as the input and carries no header.
type ChaCha20 struct {
	// KeyFile is the path of the key file.
	KeyFile string
	// Salt is used as raw bytes. An empty salt is valid and is used for both directions.
	Salt string
	// Iterations overrides ChaCha20Iterations when non-zero.
	Iterations int
}

// NewChaCha20 creates a ChaCha20 codec for the key file and optional salt.
func NewChaCha20(keyFile, salt string) *ChaCha20 {
	return &ChaCha20{KeyFile: keyFile, Salt: salt}
}

// Encrypt applies the keystream to r and writes the result to w.
func (c *ChaCha20) Encrypt(r io.Reader, w io.Writer) error {
	if err := c.apply(r, w); err != nil {
		return fmt.Errorf("encrypting stream: %w", err)
	}

	return nil
}

// Decrypt applies the keystream to r and writes the result to w.
func (c *ChaCha20) Decrypt(r io.Reader, w io.Writer) error {
	if err := c.apply(r, w); err != nil {
		return fmt.Errorf("decrypting stream: %w", err)
	}

	return nil
}

func (c *ChaCha20) apply(r io.Reader, w io.Writer) error {
	passphrase, err := keyfile.Passphrase(c.KeyFile)
	if err != nil {
		return err
	}

	iterations := c.Iterations
	if iterations == 0 {
		iterations = ChaCha20Iterations
	}

	key, nonce := keyfile.Derive(passphrase, []byte(c.Salt), iterations, chacha20.KeySize, chacha20.NonceSize)

	stream, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		return fmt.Errorf("%w: creating cipher: %w", ErrEncryption, err)
	}

	buf, ok := bufferPool.Get().([]byte)
	if !ok {
		return errors.New("invalid buffer type from pool") //nolint:err113
	}

	defer bufferPool.Put(buf) //nolint:staticcheck

	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			stream.XORKeyStream(buf[:n], buf[:n])

			if _, err := w.Write(buf[:n]); err != nil {
				return fmt.Errorf("writing stream: %w", err)
			}
		}

		if errors.Is(readErr, io.EOF) {
			return nil
		}

		if readErr != nil {
			return fmt.Errorf("reading stream: %w", readErr)
		}
	}
}
