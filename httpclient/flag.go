package httpclient

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Flag is an optional boolean setting. The zero value, Inherit, defers to
// the next level of configuration.
type Flag uint8

const (
	// Inherit leaves the decision to the enclosing scope.
	Inherit Flag = iota
	// True explicitly enables the setting.
	True
	// False explicitly disables the setting.
	False
)

// FlagOf converts a concrete bool into an explicit Flag.
func FlagOf(b bool) Flag {
	if b {
		return True
	}
	return False
}

// IsSet reports whether the flag carries an explicit value.
func (f Flag) IsSet() bool {
	return f == True || f == False
}

// Resolve returns the explicit value, or fallback when the flag inherits.
func (f Flag) Resolve(fallback bool) bool {
	switch f {
	case True:
		return true
	case False:
		return false
	default:
		return fallback
	}
}

// Or returns f when it is set and other otherwise.
func (f Flag) Or(other Flag) Flag {
	if f.IsSet() {
		return f
	}
	return other
}

// String returns "true", "false" or "inherit".
func (f Flag) String() string {
	switch f {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "inherit"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Flag) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts "true",
// "false", "inherit" and the empty string, ignoring case and surrounding
// space.
func (f *Flag) UnmarshalText(text []byte) error {
	v, err := parseFlag(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func parseFlag(s string) (Flag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return True, nil
	case "false":
		return False, nil
	case "", "inherit":
		return Inherit, nil
	default:
		return Inherit, fmt.Errorf("httpclient: invalid flag value %q, expected true or false", s)
	}
}

var flagType = reflect.TypeOf(Inherit)

// DecodeHook returns a mapstructure hook that decodes bools, strings and nil
// into Flag fields. Pass it to config.WithDecodeHook when loading Config.
func DecodeHook() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != flagType {
			return data, nil
		}
		switch v := data.(type) {
		case nil:
			return Inherit, nil
		case Flag:
			return v, nil
		case bool:
			return FlagOf(v), nil
		case string:
			return parseFlag(v)
		default:
			return nil, fmt.Errorf("httpclient: cannot decode %T into a flag", data)
		}
	}
}
