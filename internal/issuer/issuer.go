// Package issuer generates batches of IDs for the configured profiles.
package issuer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/eduardolat/nanogen/internal/config"
	"github.com/eduardolat/nanogen/internal/nanoid"
	"github.com/eduardolat/nanogen/internal/randsource"
)

var (
	// ErrUnknownProfile indicates the requested profile is not configured
	ErrUnknownProfile = errors.New("unknown profile")
	// ErrInvalidCount indicates a non-positive ID count
	ErrInvalidCount = errors.New("count must be positive")
)

// Issuer hands out IDs for every configured profile.
// It is safe for concurrent use.
type Issuer struct {
	logger   *slog.Logger
	profiles map[string]*profileState
	timeNow  func() time.Time
}

// profileState holds the per-profile source and reusable buffers.
// mu guards everything below it.
type profileState struct {
	profile  config.Profile
	alphabet string

	mu   sync.Mutex
	src  randsource.Source
	buf  []byte
	step []byte
}

// Request asks for Count IDs from Profile.
type Request struct {
	Profile string
	Count   int
}

// Result contains the IDs produced for a request
type Result struct {
	Profile  string
	IDs      []string
	Duration time.Duration
}

// ProfileInfo summarises a profile
type ProfileInfo struct {
	Name           string  `json:"name"`
	AlphabetLength int     `json:"alphabet_length"`
	Length         int     `json:"length"`
	Strategy       string  `json:"strategy"`
	Source         string  `json:"source"`
	Seeded         bool    `json:"seeded"`
	EntropyBits    float64 `json:"entropy_bits"`
}

// New creates an Issuer, opening one random source per profile.
// Seeded profiles continue their stream across requests.
func New(cfg *config.Config, logger *slog.Logger) (*Issuer, error) {
	return NewWithOpener(cfg, logger, randsource.Open)
}

// NewWithOpener creates an Issuer with a custom source opener (for testing)
func NewWithOpener(cfg *config.Config, logger *slog.Logger, open func(kind string, seed uint64) (randsource.Source, error)) (*Issuer, error) {
	iss := &Issuer{
		logger:   logger,
		profiles: make(map[string]*profileState, len(cfg.Profiles)),
		timeNow:  time.Now,
	}

	for _, p := range cfg.Profiles {
		alphabet, err := p.GetAlphabet()
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", p.Name, err)
		}

		src, err := open(p.GetSource(), p.GetSeed())
		if err != nil {
			return nil, fmt.Errorf("profile %q: failed to open random source: %w", p.Name, err)
		}

		state := &profileState{
			profile:  p,
			alphabet: alphabet,
			src:      src,
			buf:      make([]byte, p.GetLength()),
		}
		if p.GetStrategy() == config.StrategyBatched {
			state.step = make([]byte, nanoid.StepBufferLength(p.GetLength(), len(alphabet)))
		}
		iss.profiles[p.Name] = state

		logger.Debug("profile ready",
			"profile", p.Name,
			"alphabet_length", len(alphabet),
			"length", p.GetLength(),
			"strategy", p.GetStrategy(),
			"source", p.GetSource(),
			"entropy_bits", nanoid.EntropyBits(len(alphabet), p.GetLength()))
	}

	return iss, nil
}

// Issue generates req.Count IDs from req.Profile.
// Cancelling ctx stops generation between IDs.
func (i *Issuer) Issue(ctx context.Context, req Request) (*Result, error) {
	state, ok := i.profiles[req.Profile]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, req.Profile)
	}
	if req.Count <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, req.Count)
	}

	start := i.timeNow()
	defer func() {
		i.logger.Debug("issue finished",
			"profile", req.Profile,
			"count", req.Count,
			"duration_ms", i.timeNow().Sub(start).Milliseconds())
	}()

	state.mu.Lock()
	defer state.mu.Unlock()

	ids := make([]string, 0, req.Count)
	for range req.Count {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		id, err := state.next()
		if err != nil {
			i.logger.Error("failed to generate id",
				"profile", req.Profile,
				"error", err)
			return nil, fmt.Errorf("profile %q: %w", req.Profile, err)
		}
		ids = append(ids, id)
	}

	return &Result{
		Profile:  req.Profile,
		IDs:      ids,
		Duration: i.timeNow().Sub(start),
	}, nil
}

// next generates one ID. The caller holds s.mu.
func (s *profileState) next() (string, error) {
	var (
		id  []byte
		err error
	)
	if s.step != nil {
		id, err = nanoid.FillWithStep(s.src, s.alphabet, s.buf, s.step)
	} else {
		id, err = nanoid.FillIterative(s.src, s.alphabet, s.buf, len(s.buf))
	}
	if err != nil {
		return "", err
	}
	return string(id), nil
}

// Profiles returns a summary of every profile, sorted by name
func (i *Issuer) Profiles() []ProfileInfo {
	infos := make([]ProfileInfo, 0, len(i.profiles))
	for _, s := range i.profiles {
		infos = append(infos, ProfileInfo{
			Name:           s.profile.Name,
			AlphabetLength: len(s.alphabet),
			Length:         s.profile.GetLength(),
			Strategy:       s.profile.GetStrategy(),
			Source:         s.profile.GetSource(),
			Seeded:         randsource.IsSeeded(s.profile.GetSource()),
			EntropyBits:    nanoid.EntropyBits(len(s.alphabet), s.profile.GetLength()),
		})
	}
	sort.Slice(infos, func(a, b int) bool { return infos[a].Name < infos[b].Name })
	return infos
}

// Alphabet returns the alphabet and length of the named profile
func (i *Issuer) Alphabet(profile string) (string, int, error) {
	state, ok := i.profiles[profile]
	if !ok {
		return "", 0, fmt.Errorf("%w: %q", ErrUnknownProfile, profile)
	}
	return state.alphabet, state.profile.GetLength(), nil
}
