package encryption

import (
	"crypto/aes"
	"fmt"
	"io"
)

// lookahead holds back the most recently decrypted block until it is known
// whether another block follows. Only the last block of a stream carries
// PKCS#7 padding, and that is only known once the reader reports EOF.
type lookahead struct {
	w       io.Writer
	lenient bool

	block   [aes.BlockSize]byte
	holding bool
}

// push emits the held block, if any, and holds plain in its place.
func (l *lookahead) push(plain []byte) error {
	if l.holding {
		if _, err := l.w.Write(l.block[:]); err != nil {
			return fmt.Errorf("writing decrypted block: %w", err)
		}
	}

	copy(l.block[:], plain)
	l.holding = true

	return nil
}

// finish strips the padding from the held block and emits what remains.
// With lenient set, a block whose padding does not verify is emitted unmodified.
func (l *lookahead) finish() error {
	if !l.holding {
		if l.lenient {
			return nil
		}

		return fmt.Errorf("%w: ciphertext has no blocks", ErrDecryption)
	}

	l.holding = false

	final, err := pkcs7Unpad(l.block[:], aes.BlockSize)
	if err != nil {
		if !l.lenient {
			return fmt.Errorf("%w: removing padding: %w", ErrDecryption, err)
		}

		final = l.block[:]
	}

	if _, err := l.w.Write(final); err != nil {
		return fmt.Errorf("writing final decrypted block: %w", err)
	}

	return nil
}
