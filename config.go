package deepresolve

import (
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"

	"github.com/timpalpant/deepresolve/cards"
	"github.com/timpalpant/deepresolve/tree"
)

// Config holds the re-solving parameters.
type Config struct {
	// Iterations is the number of CFR iterations run by ResolveFirstNode.
	Iterations int `env:"DEEPRESOLVE_CFR_ITERS" envDefault:"1000"`
	// SkipIterations are excluded from the average strategy.
	SkipIterations int `env:"DEEPRESOLVE_CFR_SKIP_ITERS" envDefault:"500"`
	// BetSizing lists raise sizes as fractions of the pot.
	BetSizing []float64 `env:"DEEPRESOLVE_BET_SIZING" envDefault:"1" envSeparator:","`
	// MaxRaises is the maximum number of raises per street.
	MaxRaises int `env:"DEEPRESOLVE_MAX_RAISES" envDefault:"2"`
	// Ranks are the card ranks in the deck, e.g. "TJQKA".
	Ranks string `env:"DEEPRESOLVE_RANKS" envDefault:"23456789TJQKA"`
}

// LoadConfigFromEnv returns the Config given by the environment,
// with defaults for unset variables.
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.Iterations <= 0 {
		return errors.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	if c.SkipIterations < 0 || c.SkipIterations > c.Iterations {
		return errors.Errorf("skip iterations must be in [0, %d], got %d",
			c.Iterations, c.SkipIterations)
	}
	for _, f := range c.BetSizing {
		if !(f > 0) {
			return errors.Errorf("bet sizes must be positive, got %v", c.BetSizing)
		}
	}
	if c.MaxRaises < 0 {
		return errors.Errorf("max raises must not be negative, got %d", c.MaxRaises)
	}
	if _, err := cards.NewDeck(c.Ranks); err != nil {
		return errors.Wrap(err, "invalid ranks")
	}

	return nil
}

// TreeParams returns the bet abstraction for lookahead trees.
func (c Config) TreeParams() tree.Params {
	return tree.Params{
		BetSizing: append([]float64(nil), c.BetSizing...),
		MaxRaises: c.MaxRaises,
	}
}

// Hands returns the private hand enumeration for the configured deck.
func (c Config) Hands() (*cards.Hands, error) {
	deck, err := cards.NewDeck(c.Ranks)
	if err != nil {
		return nil, err
	}

	return cards.NewHands(deck), nil
}
