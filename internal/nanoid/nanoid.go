// Package nanoid generates short random identifiers from a caller supplied
// random source and alphabet.
//
// Random bytes are masked down to the next power of two above the alphabet
// length and values that still fall outside the alphabet are rejected, which
// keeps every symbol equally likely for any alphabet size. The unexported
// generators trust their inputs; the exported functions validate them first
// and never touch the output buffer or the random source on invalid input.
package nanoid

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

const (
	// DefaultLength is the length of IDs produced by New. With DefaultAlphabet
	// it carries 126 bits of entropy, close to a random UUID.
	DefaultLength = 21
	// MaxAlphabetLength is the largest alphabet a byte can index.
	MaxAlphabetLength = 255

	// defaultStepCapacity equals SufficientStepBufferLength(DefaultLength).
	defaultStepCapacity = 67
)

var (
	// ErrInvalidAlphabetSize indicates an empty alphabet or one longer than MaxAlphabetLength
	ErrInvalidAlphabetSize = errors.New("invalid alphabet size")
	// ErrInvalidResultBufferSize indicates a requested ID length the call cannot serve
	ErrInvalidResultBufferSize = errors.New("invalid result buffer size")
	// ErrInvalidStepBufferSize indicates a caller supplied step buffer that is too short
	ErrInvalidStepBufferSize = errors.New("invalid step buffer size")
)

func validateAlphabet(alphabet string) error {
	if len(alphabet) == 0 || len(alphabet) > MaxAlphabetLength {
		return fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidAlphabetSize, len(alphabet), MaxAlphabetLength)
	}
	return nil
}

func validateSize(size, limit int) error {
	if size <= 0 || size > limit {
		return fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidResultBufferSize, size, limit)
	}
	return nil
}

// Fill writes a size symbol ID into buf and returns buf[:size].
// A step buffer of StepBufferLength(size, len(alphabet)) bytes is allocated per call;
// use FillWithStep to reuse one.
func Fill(random io.Reader, alphabet string, buf []byte, size int) ([]byte, error) {
	if err := validateAlphabet(alphabet); err != nil {
		return nil, err
	}
	if err := validateSize(size, len(buf)); err != nil {
		return nil, err
	}

	step := make([]byte, StepBufferLength(size, len(alphabet)))
	return fill(random, alphabet, buf[:size], step)
}

// FillWithStep fills all of buf using step as the staging buffer for random
// bytes. step must hold at least StepBufferLength(len(buf), len(alphabet))
// bytes; SufficientStepBufferLength sizes one that fits every alphabet.
func FillWithStep(random io.Reader, alphabet string, buf, step []byte) ([]byte, error) {
	if err := validateAlphabet(alphabet); err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: 0 (must be at least 1)", ErrInvalidResultBufferSize)
	}
	if need := StepBufferLength(len(buf), len(alphabet)); len(step) < need {
		return nil, fmt.Errorf("%w: %d (need at least %d)", ErrInvalidStepBufferSize, len(step), need)
	}

	return fill(random, alphabet, buf, step)
}

// FillIterative writes a size symbol ID into buf drawing one random byte at a
// time, and returns buf[:size]. It suits sources that already buffer, such as
// a bufio.Reader.
func FillIterative(random io.ByteReader, alphabet string, buf []byte, size int) ([]byte, error) {
	if err := validateAlphabet(alphabet); err != nil {
		return nil, err
	}
	if err := validateSize(size, len(buf)); err != nil {
		return nil, err
	}

	return fillIterative(random, alphabet, buf[:size])
}

// Generate returns a newly allocated ID of size symbols.
func Generate(random io.Reader, alphabet string, size int) (string, error) {
	if err := validateAlphabet(alphabet); err != nil {
		return "", err
	}
	if size <= 0 {
		return "", fmt.Errorf("%w: %d (must be at least 1)", ErrInvalidResultBufferSize, size)
	}

	result := make([]byte, size)
	step := make([]byte, StepBufferLength(size, len(alphabet)))
	if _, err := fill(random, alphabet, result, step); err != nil {
		return "", err
	}
	return string(result), nil
}

// ID is a fixed capacity identifier of at most DefaultLength symbols.
type ID struct {
	buf [DefaultLength]byte
	n   uint8
}

// String returns the identifier as a string.
func (id ID) String() string { return string(id.buf[:id.n]) }

// Len returns the number of symbols in the identifier.
func (id ID) Len() int { return int(id.n) }

// AppendTo appends the identifier to dst.
func (id ID) AppendTo(dst []byte) []byte { return append(dst, id.buf[:id.n]...) }

// GenerateFixed generates an ID of size symbols, 1 to DefaultLength, into a
// fixed capacity value. Both buffers live in the call frame unless the
// random source forces them to escape.
func GenerateFixed(random io.Reader, alphabet string, size int) (ID, error) {
	var id ID
	if err := validateAlphabet(alphabet); err != nil {
		return id, err
	}
	if err := validateSize(size, DefaultLength); err != nil {
		return id, err
	}

	var step [defaultStepCapacity]byte
	if _, err := fill(random, alphabet, id.buf[:size], step[:StepBufferLength(size, len(alphabet))]); err != nil {
		return ID{}, err
	}
	id.n = uint8(size)
	return id, nil
}

// New returns a DefaultLength ID over DefaultAlphabet using crypto/rand.
func New() (string, error) {
	id, err := GenerateFixed(rand.Reader, DefaultAlphabet, DefaultLength)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Must is like New but panics on error.
// Use only when you're certain random generation won't fail.
func Must() string {
	id, err := New()
	if err != nil {
		panic(err)
	}
	return id
}
