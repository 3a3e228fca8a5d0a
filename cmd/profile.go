package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eduardolat/nanogen/internal/config"
)

// profileFlags selects a configured profile and overrides its fields
type profileFlags struct {
	name         string
	alphabet     string
	alphabetName string
	length       int
	strategy     string
	source       string
	seed         uint64
}

func (f *profileFlags) register(cmd *cobra.Command, withGeneration bool) {
	flags := cmd.Flags()
	flags.StringVar(&f.name, "profile", config.DefaultProfileName, "Profile to use from the configuration")
	flags.StringVar(&f.alphabet, "alphabet", "", "Literal alphabet (overrides the profile)")
	flags.StringVar(&f.alphabetName, "alphabet-name", "", "Named alphabet, see 'nanogen alphabets' (overrides the profile)")
	flags.IntVar(&f.length, "length", 0, "ID length (overrides the profile)")

	if withGeneration {
		flags.StringVar(&f.strategy, "strategy", "", "Generation strategy: batched or iterative (overrides the profile)")
		flags.StringVar(&f.source, "source", "", "Random source: crypto, chacha8 or pcg (overrides the profile)")
		flags.Uint64Var(&f.seed, "seed", 0, "Seed for chacha8 and pcg sources")
	}
	cmd.MarkFlagsMutuallyExclusive("alphabet", "alphabet-name")
}

// resolve returns the selected profile with every changed flag applied.
// The result is validated as a standalone configuration.
func (f *profileFlags) resolve(cmd *cobra.Command, cfg *config.Config) (config.Profile, error) {
	p, ok := cfg.Profile(f.name)
	if !ok {
		return config.Profile{}, fmt.Errorf("profile %q not found in configuration", f.name)
	}

	flags := cmd.Flags()
	if flags.Changed("alphabet") {
		p.Alphabet, p.AlphabetName = f.alphabet, ""
	}
	if flags.Changed("alphabet-name") {
		p.Alphabet, p.AlphabetName = "", f.alphabetName
	}
	if flags.Changed("length") {
		length := f.length
		p.Length = &length
	}
	if flags.Changed("strategy") {
		p.Strategy = f.strategy
	}
	if flags.Changed("source") {
		p.Source = f.source
	}
	if flags.Changed("seed") {
		seed := f.seed
		p.Seed = &seed
	}

	if err := (&config.Config{Profiles: []config.Profile{p}}).Validate(); err != nil {
		return config.Profile{}, err
	}
	return p, nil
}
