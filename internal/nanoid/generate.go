package nanoid

import (
	"fmt"
	"io"
)

// fill writes one symbol of alphabet into every position of result, reading
// random bytes from random in batches of len(step).
//
// fill trusts its inputs: result is non-empty, alphabet holds 1 to
// MaxAlphabetLength symbols and step is non-empty. A shorter step than
// StepBufferLength only costs extra reads, an empty one never terminates.
// Bytes left in step after the last symbol is written are discarded.
func fill(random io.Reader, alphabet string, result, step []byte) ([]byte, error) {
	mask := Mask(len(alphabet))
	size := len(alphabet)

	pos := 0
	for {
		if _, err := io.ReadFull(random, step); err != nil {
			return nil, fmt.Errorf("reading random bytes: %w", err)
		}

		for _, b := range step {
			idx := int(b & mask)
			if idx >= size {
				continue
			}
			result[pos] = alphabet[idx]
			pos++
			if pos == len(result) {
				return result, nil
			}
		}
	}
}

// fillIterative is fill without a step buffer: it draws one random byte at a
// time. It has the same preconditions as fill apart from step.
func fillIterative(random io.ByteReader, alphabet string, result []byte) ([]byte, error) {
	mask := Mask(len(alphabet))
	size := len(alphabet)

	for pos := 0; pos < len(result); {
		b, err := random.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("reading random byte: %w", err)
		}

		idx := int(b & mask)
		if idx >= size {
			continue
		}
		result[pos] = alphabet[idx]
		pos++
	}

	return result, nil
}
