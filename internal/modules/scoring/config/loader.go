package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/aristath/peerscore/internal/modules/scoring"
	"github.com/rs/zerolog"
)

// Loader handles loading scoring tunings from TOML files.
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a new tuning loader.
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{
		log: log.With().Str("component", "tuning_loader").Logger(),
	}
}

// LoadFromFile loads a scoring tuning from a TOML file. The file only
// needs to contain the constants being overridden; everything else keeps
// its default value.
func (l *Loader) LoadFromFile(path string) (scoring.Tuning, error) {
	l.log.Info().Str("path", path).Msg("Loading scoring tuning")

	tuning := scoring.DefaultTuning()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return tuning, fmt.Errorf("tuning file not found: %s", path)
	}

	if _, err := toml.DecodeFile(path, &tuning); err != nil {
		return tuning, fmt.Errorf("failed to parse TOML tuning: %w", err)
	}

	if err := tuning.Validate(); err != nil {
		return tuning, fmt.Errorf("invalid tuning: %w", err)
	}

	l.log.Info().
		Float64("factor_max", tuning.FactorMax).
		Float64("curve_steepness", tuning.Curve.Steepness).
		Int("pe_ratio_tiers", len(tuning.Valuation.PERatioTiers)).
		Msg("Tuning loaded successfully")

	return tuning, nil
}

// LoadFromString loads a scoring tuning from a TOML string.
func (l *Loader) LoadFromString(tomlString string) (scoring.Tuning, error) {
	tuning := scoring.DefaultTuning()

	if _, err := toml.Decode(tomlString, &tuning); err != nil {
		return tuning, fmt.Errorf("failed to parse TOML tuning: %w", err)
	}

	if err := tuning.Validate(); err != nil {
		return tuning, fmt.Errorf("invalid tuning: %w", err)
	}

	return tuning, nil
}
