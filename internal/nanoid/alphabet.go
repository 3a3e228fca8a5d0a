package nanoid

import "sort"

// Named alphabets. All of them are ASCII and at most MaxAlphabetLength long.
const (
	// DefaultAlphabet is the 64 symbol URL-safe alphabet.
	DefaultAlphabet = "_-0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	Numbers      = "0123456789"
	HexLowercase = "0123456789abcdef"
	HexUppercase = "0123456789ABCDEF"
	Lowercase    = "abcdefghijklmnopqrstuvwxyz"
	Uppercase    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Alphanumeric = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// NoLookalikes drops 1, l, I, 0, O, o, u, v, 5, S, s, 2, Z.
	NoLookalikes = "346789ABCDEFGHJKLMNPQRTUVWXYabcdefghijkmnpqrtwxyz"
	// NoLookalikesSafe additionally drops vowels and the 3, 4, x, X, V symbols
	// so generated IDs cannot spell words.
	NoLookalikesSafe = "6789BCDFGHJKLMNPQRTWbcdfghjkmnpqrtwz"
)

var namedAlphabets = map[string]string{
	"default":            DefaultAlphabet,
	"numbers":            Numbers,
	"hex-lowercase":      HexLowercase,
	"hex-uppercase":      HexUppercase,
	"lowercase":          Lowercase,
	"uppercase":          Uppercase,
	"alphanumeric":       Alphanumeric,
	"no-lookalikes":      NoLookalikes,
	"no-lookalikes-safe": NoLookalikesSafe,
}

// Alphabet returns the named alphabet, if it exists.
func Alphabet(name string) (string, bool) {
	a, ok := namedAlphabets[name]
	return a, ok
}

// AlphabetNames returns the names accepted by Alphabet, sorted.
func AlphabetNames() []string {
	names := make([]string, 0, len(namedAlphabets))
	for name := range namedAlphabets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
