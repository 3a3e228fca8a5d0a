package issuer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduardolat/nanogen/internal/config"
	"github.com/eduardolat/nanogen/internal/nanoid"
	"github.com/eduardolat/nanogen/internal/randsource"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }

func seededConfig(strategy string) *config.Config {
	return &config.Config{Profiles: []config.Profile{{
		Name:     "seeded",
		Strategy: strategy,
		Source:   randsource.ChaCha8,
		Seed:     ptr(uint64(1234)),
	}}}
}

func TestIssue_DefaultProfile(t *testing.T) {
	iss, err := New(config.Default(), discardLogger())
	require.NoError(t, err)

	result, err := iss.Issue(context.Background(), Request{Profile: config.DefaultProfileName, Count: 50})
	require.NoError(t, err)

	assert.Equal(t, config.DefaultProfileName, result.Profile)
	require.Len(t, result.IDs, 50)

	seen := make(map[string]bool)
	for _, id := range result.IDs {
		assert.Len(t, id, nanoid.DefaultLength)
		for _, c := range id {
			assert.Contains(t, nanoid.DefaultAlphabet, string(c))
		}
		assert.False(t, seen[id], "duplicate ID generated: %s", id)
		seen[id] = true
	}
}

func TestIssue_CustomProfile(t *testing.T) {
	cfg := &config.Config{Profiles: []config.Profile{{
		Name:         "pins",
		AlphabetName: "numbers",
		Length:       ptr(6),
		Strategy:     config.StrategyIterative,
		Source:       randsource.PCG,
		Seed:         ptr(uint64(9)),
	}}}

	iss, err := New(cfg, discardLogger())
	require.NoError(t, err)

	result, err := iss.Issue(context.Background(), Request{Profile: "pins", Count: 20})
	require.NoError(t, err)
	for _, id := range result.IDs {
		assert.Regexp(t, `^[0-9]{6}$`, id)
	}
}

func TestIssue_SeededProfilesAreReproducible(t *testing.T) {
	for _, strategy := range []string{config.StrategyBatched, config.StrategyIterative} {
		t.Run(strategy, func(t *testing.T) {
			a, err := New(seededConfig(strategy), discardLogger())
			require.NoError(t, err)
			b, err := New(seededConfig(strategy), discardLogger())
			require.NoError(t, err)

			ra, err := a.Issue(context.Background(), Request{Profile: "seeded", Count: 10})
			require.NoError(t, err)
			rb, err := b.Issue(context.Background(), Request{Profile: "seeded", Count: 10})
			require.NoError(t, err)
			assert.Equal(t, ra.IDs, rb.IDs)

			// The stream continues across requests
			next, err := a.Issue(context.Background(), Request{Profile: "seeded", Count: 10})
			require.NoError(t, err)
			assert.NotEqual(t, ra.IDs, next.IDs)
		})
	}
}

func TestIssue_StrategiesAgreeOnFirstID(t *testing.T) {
	batched, err := New(seededConfig(config.StrategyBatched), discardLogger())
	require.NoError(t, err)
	iterative, err := New(seededConfig(config.StrategyIterative), discardLogger())
	require.NoError(t, err)

	rb, err := batched.Issue(context.Background(), Request{Profile: "seeded", Count: 1})
	require.NoError(t, err)
	ri, err := iterative.Issue(context.Background(), Request{Profile: "seeded", Count: 1})
	require.NoError(t, err)

	assert.Equal(t, rb.IDs, ri.IDs)
}

func TestIssue_Errors(t *testing.T) {
	iss, err := New(config.Default(), discardLogger())
	require.NoError(t, err)

	_, err = iss.Issue(context.Background(), Request{Profile: "missing", Count: 1})
	assert.ErrorIs(t, err, ErrUnknownProfile)

	_, err = iss.Issue(context.Background(), Request{Profile: config.DefaultProfileName, Count: 0})
	assert.ErrorIs(t, err, ErrInvalidCount)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = iss.Issue(ctx, Request{Profile: config.DefaultProfileName, Count: 3})
	assert.ErrorIs(t, err, context.Canceled)
}

type brokenSource struct{ err error }

func (s brokenSource) Read([]byte) (int, error) { return 0, s.err }
func (s brokenSource) ReadByte() (byte, error) { return 0, s.err }

func TestIssue_SourceFailure(t *testing.T) {
	errBroken := errors.New("device gone")
	iss, err := NewWithOpener(config.Default(), discardLogger(), func(string, uint64) (randsource.Source, error) {
		return brokenSource{err: errBroken}, nil
	})
	require.NoError(t, err)

	_, err = iss.Issue(context.Background(), Request{Profile: config.DefaultProfileName, Count: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, errBroken)
}

func TestNew_OpenerFailure(t *testing.T) {
	errOpen := errors.New("no entropy")
	_, err := NewWithOpener(config.Default(), discardLogger(), func(string, uint64) (randsource.Source, error) {
		return nil, errOpen
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errOpen)
	assert.Contains(t, err.Error(), "failed to open random source")
}

func TestIssue_Concurrent(t *testing.T) {
	iss, err := New(seededConfig(config.StrategyBatched), discardLogger())
	require.NoError(t, err)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		all []string
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := iss.Issue(context.Background(), Request{Profile: "seeded", Count: 100})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			all = append(all, result.IDs...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, all, 800)
	seen := make(map[string]bool)
	for _, id := range all {
		assert.False(t, seen[id], "duplicate ID generated: %s", id)
		seen[id] = true
	}
}

func TestProfiles(t *testing.T) {
	cfg := &config.Config{Profiles: []config.Profile{
		{Name: "zeta", Alphabet: "ab", Length: ptr(10)},
		{Name: "alpha", Source: randsource.ChaCha8},
	}}

	iss, err := New(cfg, discardLogger())
	require.NoError(t, err)

	infos := iss.Profiles()
	require.Len(t, infos, 2)

	assert.Equal(t, "alpha", infos[0].Name)
	assert.Equal(t, 64, infos[0].AlphabetLength)
	assert.True(t, infos[0].Seeded)
	assert.InDelta(t, 126.0, infos[0].EntropyBits, 1e-9)

	assert.Equal(t, "zeta", infos[1].Name)
	assert.Equal(t, 2, infos[1].AlphabetLength)
	assert.Equal(t, 10, infos[1].Length)
	assert.Equal(t, config.StrategyBatched, infos[1].Strategy)
	assert.Equal(t, randsource.Crypto, infos[1].Source)
	assert.InDelta(t, 10.0, infos[1].EntropyBits, 1e-9)

	alphabet, length, err := iss.Alphabet("zeta")
	require.NoError(t, err)
	assert.Equal(t, "ab", alphabet)
	assert.Equal(t, 10, length)

	_, _, err = iss.Alphabet("missing")
	assert.ErrorIs(t, err, ErrUnknownProfile)
	assert.False(t, strings.Contains(err.Error(), "zeta"))
}

func TestIssue_DurationUsesClock(t *testing.T) {
	iss, err := New(config.Default(), discardLogger())
	require.NoError(t, err)

	now := time.Date(2024, 6, 15, 10, 30, 45, 0, time.UTC)
	iss.timeNow = func() time.Time {
		now = now.Add(5 * time.Millisecond)
		return now
	}

	result, err := iss.Issue(context.Background(), Request{Profile: config.DefaultProfileName, Count: 3})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Millisecond, result.Duration)
}
