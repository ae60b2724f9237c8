package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/merca-lab/mercabot/pkg/domain/model"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Profile holds CLI flags for the optional bot profile file
type Profile struct {
	path string
}

// Flags returns CLI flags for profile configuration
func (p *Profile) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "profile",
			Usage:       "Path to a TOML bot profile (name, extra prompt guidance)",
			Sources:     cli.EnvVars("MERCABOT_PROFILE"),
			Destination: &p.path,
		},
	}
}

// Configure loads the profile file; returns nil when no path is set.
func (p *Profile) Configure() (*model.BotProfile, error) {
	if p.path == "" {
		return nil, nil
	}
	return LoadProfile(p.path)
}

// LoadProfile reads and parses a TOML bot profile file.
func LoadProfile(path string) (*model.BotProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read profile file", goerr.V("path", path))
	}

	var profile model.BotProfile
	if err := toml.Unmarshal(data, &profile); err != nil {
		return nil, goerr.Wrap(err, "failed to parse profile file", goerr.V("path", path))
	}

	return &profile, nil
}
