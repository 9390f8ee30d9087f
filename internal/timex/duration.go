// Package timex holds time helpers shared by the configuration loaders.
package timex

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Duration is a time.Duration that decodes from either a Go duration string
// ("3s", "1m30s") or an integer number of nanoseconds.
type Duration struct {
	time.Duration
}

var errInvalidDuration = errors.New("invalid duration")

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		return d.parse(value)
	default:
		return fmt.Errorf("%w: %v", errInvalidDuration, v)
	}
}

// UnmarshalText lets the YAML and TOML decoders reuse the string form.
func (d *Duration) UnmarshalText(text []byte) error {
	return d.parse(string(text))
}

func (d *Duration) parse(s string) error {
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("%w: %s", errInvalidDuration, err.Error())
	}
	d.Duration = parsed
	return nil
}
