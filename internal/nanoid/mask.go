package nanoid

import (
	"math"
	"math/bits"
)

// stepFactor oversizes the step buffer so that one refill usually completes an ID.
const stepFactor = 1.6

// Mask returns the smallest 2^k-1 bitmask that covers every index of an
// alphabet with alphabetLength symbols.
//
// The result is undefined when alphabetLength is outside [1, MaxAlphabetLength].
// Callers that take the length from user input must validate it first.
func Mask(alphabetLength int) byte {
	highest := uint8(alphabetLength - 1)
	if highest == 0 {
		highest = 1
	}
	mask := 1<<bits.Len8(highest) - 1
	return byte(mask)
}

// StepBufferLength returns how many random bytes one refill of the step
// buffer should hold to produce an ID of idLength symbols from an alphabet of
// alphabetLength symbols.
//
// The same preconditions as Mask apply to alphabetLength.
func StepBufferLength(idLength, alphabetLength int) int {
	mask := float64(Mask(alphabetLength))
	return int(math.Ceil(stepFactor * mask * float64(idLength) / float64(alphabetLength)))
}

// SufficientStepBufferLength returns a step buffer length large enough for
// an ID of idLength symbols drawn from any valid alphabet. It lets callers size
// a reusable step buffer before the alphabet is known.
func SufficientStepBufferLength(idLength int) int {
	longest := 0
	for n := 1; n <= MaxAlphabetLength; n++ {
		longest = max(longest, StepBufferLength(idLength, n))
	}
	return longest
}

// EntropyBits returns the number of random bits carried by an ID of size
// symbols drawn uniformly from an alphabet of alphabetLength symbols.
func EntropyBits(alphabetLength, size int) float64 {
	if alphabetLength < 1 || size < 1 {
		return 0
	}
	return float64(size) * math.Log2(float64(alphabetLength))
}
