// Package randsource opens the random byte sources ID generation draws from.
package randsource

import (
	"bufio"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	mrand "math/rand/v2"
)

// Source kinds accepted by Open.
const (
	// Crypto reads from crypto/rand. The seed is ignored.
	Crypto = "crypto"
	// ChaCha8 is the seeded ChaCha8 generator from math/rand/v2.
	ChaCha8 = "chacha8"
	// PCG is the seeded PCG generator from math/rand/v2.
	PCG = "pcg"
)

// bufferSize is the read-ahead used for byte-at-a-time access.
const bufferSize = 512

// ErrUnknownKind indicates an unsupported source kind
var ErrUnknownKind = errors.New("unknown random source kind")

// Source provides random bytes both in bulk and one at a time.
// A Source is not safe for concurrent use.
type Source interface {
	io.Reader
	io.ByteReader
}

// Kinds returns the supported source kinds.
func Kinds() []string {
	return []string{Crypto, ChaCha8, PCG}
}

// IsSeeded reports whether the kind produces a reproducible stream from its seed.
func IsSeeded(kind string) bool {
	return kind == ChaCha8 || kind == PCG
}

// Open returns a source of the given kind. Seeded kinds yield the same
// byte stream for the same seed.
func Open(kind string, seed uint64) (Source, error) {
	switch kind {
	case Crypto:
		return bufio.NewReaderSize(rand.Reader, bufferSize), nil
	case ChaCha8:
		var key [32]byte
		binary.LittleEndian.PutUint64(key[:], seed)
		return bufio.NewReaderSize(mrand.NewChaCha8(key), bufferSize), nil
	case PCG:
		return bufio.NewReaderSize(&pcgReader{pcg: mrand.NewPCG(seed, seed^pcgStream)}, bufferSize), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// pcgStream separates the PCG increment from the seed.
const pcgStream = 0x9e3779b97f4a7c15

// pcgReader exposes a PCG generator as an io.Reader, eight bytes per step.
type pcgReader struct {
	pcg *mrand.PCG
	buf [8]byte
	n   int
}

func (r *pcgReader) Read(p []byte) (int, error) {
	for i := range p {
		if r.n == 0 {
			binary.LittleEndian.PutUint64(r.buf[:], r.pcg.Uint64())
			r.n = len(r.buf)
		}
		p[i] = r.buf[len(r.buf)-r.n]
		r.n--
	}
	return len(p), nil
}
