package randsource

import (
	"bytes"
	"io"
	mrand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduardolat/nanogen/internal/nanoid"
)

func TestOpen_AllKinds(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(kind, func(t *testing.T) {
			src, err := Open(kind, 7)
			require.NoError(t, err)

			buf := make([]byte, 1000)
			_, err = io.ReadFull(src, buf)
			require.NoError(t, err)
			assert.NotEqual(t, make([]byte, 1000), buf, "stream should not be all zeros")

			_, err = src.ReadByte()
			require.NoError(t, err)
		})
	}
}

func TestOpen_SeededKindsAreReproducible(t *testing.T) {
	for _, kind := range []string{ChaCha8, PCG} {
		t.Run(kind, func(t *testing.T) {
			require.True(t, IsSeeded(kind))

			a, err := Open(kind, 42)
			require.NoError(t, err)
			b, err := Open(kind, 42)
			require.NoError(t, err)
			c, err := Open(kind, 43)
			require.NoError(t, err)

			bufA := make([]byte, 777)
			bufB := make([]byte, 777)
			bufC := make([]byte, 777)
			_, err = io.ReadFull(a, bufA)
			require.NoError(t, err)
			_, err = io.ReadFull(b, bufB)
			require.NoError(t, err)
			_, err = io.ReadFull(c, bufC)
			require.NoError(t, err)

			assert.Equal(t, bufA, bufB)
			assert.NotEqual(t, bufA, bufC)
		})
	}

	assert.False(t, IsSeeded(Crypto))
}

func TestOpen_ByteAndBulkReadsShareOneStream(t *testing.T) {
	bulk, err := Open(ChaCha8, 9)
	require.NoError(t, err)
	single, err := Open(ChaCha8, 9)
	require.NoError(t, err)

	want := make([]byte, 100)
	_, err = io.ReadFull(bulk, want)
	require.NoError(t, err)

	got := make([]byte, 0, 100)
	for range 100 {
		b, err := single.ReadByte()
		require.NoError(t, err)
		got = append(got, b)
	}
	assert.Equal(t, want, got)
}

func TestOpen_UnknownKind(t *testing.T) {
	_, err := Open("dice", 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func newTestPCG() *mrand.PCG { return mrand.NewPCG(1, 2) }

func TestPCGReader_SplitsWords(t *testing.T) {
	r1 := &pcgReader{pcg: newTestPCG()}
	r2 := &pcgReader{pcg: newTestPCG()}

	whole := make([]byte, 24)
	_, _ = r1.Read(whole)

	var parts bytes.Buffer
	for _, n := range []int{3, 7, 1, 13} {
		p := make([]byte, n)
		_, _ = r2.Read(p)
		parts.Write(p)
	}
	assert.Equal(t, whole, parts.Bytes())
}

func TestOpen_PCGGoldenIDs(t *testing.T) {
	src, err := Open(PCG, 42)
	require.NoError(t, err)

	first, err := nanoid.Generate(src, nanoid.DefaultAlphabet, nanoid.DefaultLength)
	require.NoError(t, err)
	assert.Equal(t, "KSDf3EUO_kkM5s-T-WUzl", first)

	// The batched generator consumed exactly one 34 byte step
	second, err := nanoid.Generate(src, nanoid.DefaultAlphabet, nanoid.DefaultLength)
	require.NoError(t, err)
	assert.Equal(t, "z0Sptkwgl9xLrLEIpJPxg", second)

	src, err = Open(PCG, 42)
	require.NoError(t, err)
	iter, err := nanoid.FillIterative(src, nanoid.DefaultAlphabet, make([]byte, nanoid.DefaultLength), nanoid.DefaultLength)
	require.NoError(t, err)
	assert.Equal(t, first, string(iter))
}
