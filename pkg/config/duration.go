package config

import (
	"time"

	"gopkg.in/yaml.v3"

	"github.com/boattime/portfolio/pkg/errors"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "30s" or "5m", or from a bare number of seconds.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!int" {
		var seconds int64
		if err := value.Decode(&seconds); err != nil {
			return errors.Wrap(errors.ErrCodeConfig, "invalid duration value", err)
		}
		*d = Duration(time.Duration(seconds) * time.Second)
		return nil
	}

	var s string
	if err := value.Decode(&s); err != nil {
		return errors.Wrap(errors.ErrCodeConfig, "invalid duration value", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfig, "invalid duration "+s, err)
	}
	*d = Duration(parsed)
	return nil
}
