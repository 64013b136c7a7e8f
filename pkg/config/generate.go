package config

import (
	"github.com/arthur-debert/dirlink/pkg/errors"
	gotoml "github.com/pelletier/go-toml/v2"
)

// ToTOML renders the effective configuration as a TOML document
func (c *Config) ToTOML() ([]byte, error) {
	data, err := gotoml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return data, nil
}
