package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultPath is the configuration file read when no path is given
const DefaultPath = "shopflow.env"

// Configuration errors. Both are fatal: they indicate a broken run, not a
// transient UI condition.
var (
	ErrMissingKey         = errors.New("missing required configuration key")
	ErrInvalidValue       = errors.New("invalid configuration value")
	ErrUnsupportedBrowser = errors.New("unsupported browser")
	ErrUnsupportedBackend = errors.New("unsupported browser backend")
)

// Error describes a configuration problem for a single key
type Error struct {
	Key   string
	Value string
	Err   error
}

func (e *Error) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("config %s=%q: %v", e.Key, e.Value, e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Values is the key/value configuration loaded once per process.
// It is never mutated after construction, so concurrent readers need no locking.
type Values struct {
	source string
	values map[string]string
}

// Load reads a dotenv-style key/value file
func Load(path string) (*Values, error) {
	if path == "" {
		path = DefaultPath
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from %s: %w", path, err)
	}

	return &Values{source: path, values: values}, nil
}

// FromEnviron builds Values from the process environment
func FromEnviron() *Values {
	values := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			values[k] = v
		}
	}
	return &Values{source: "environment", values: values}
}

// LoadOrEnviron reads path, falling back to the process environment when the
// file does not exist
func LoadOrEnviron(path string) (*Values, error) {
	v, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return FromEnviron(), nil
	}
	return v, err
}

// FromMap builds Values from an in-memory map. The map is copied.
func FromMap(m map[string]string) *Values {
	values := make(map[string]string, len(m))
	for k, v := range m {
		values[k] = v
	}
	return &Values{source: "memory", values: values}
}

// With returns a copy of v with overrides applied. v is left unchanged.
func (v *Values) With(overrides map[string]string) *Values {
	out := &Values{source: "memory", values: make(map[string]string)}
	if v != nil {
		out.source = v.source
		for k, val := range v.values {
			out.values[k] = val
		}
	}
	for k, val := range overrides {
		out.values[k] = val
	}
	return out
}

// Source returns where the values were loaded from
func (v *Values) Source() string {
	return v.source
}

// Get returns the trimmed value for key, or a configuration error if the key
// is missing or blank
func (v *Values) Get(key string) (string, error) {
	value, ok := v.lookup(key)
	if !ok {
		return "", &Error{Key: key, Err: ErrMissingKey}
	}
	return value, nil
}

// GetOr returns the trimmed value for key, or def if the key is missing
func (v *Values) GetOr(key, def string) string {
	if value, ok := v.lookup(key); ok {
		return value
	}
	return def
}

// Getenv adapts Values to the getenv-style loaders. Missing keys yield "".
func (v *Values) Getenv(key string) string {
	return v.GetOr(key, "")
}

// Duration parses key as a time.Duration, falling back to def when missing
func (v *Values) Duration(key string, def time.Duration) (time.Duration, error) {
	raw, ok := v.lookup(key)
	if !ok {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, &Error{Key: key, Value: raw, Err: fmt.Errorf("%w: %v", ErrInvalidValue, err)}
	}
	return d, nil
}

// Bool parses key as a boolean, falling back to def when missing
func (v *Values) Bool(key string, def bool) (bool, error) {
	raw, ok := v.lookup(key)
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &Error{Key: key, Value: raw, Err: fmt.Errorf("%w: %v", ErrInvalidValue, err)}
	}
	return b, nil
}

func (v *Values) lookup(key string) (string, bool) {
	if v == nil {
		return "", false
	}
	value, ok := v.values[key]
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}
