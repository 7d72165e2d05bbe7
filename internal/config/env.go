package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// envSource layers the explicit map over the process environment over the
// .env file. Values that fail to parse are recorded as problems instead of
// silently falling back.
type envSource struct {
	explicit map[string]string
	system   bool
	dotenv   map[string]string
	problems []Problem
}

func newEnvSource(o loaderOptions) (*envSource, error) {
	dotenv, err := readDotEnv(o.envFile)
	if err != nil {
		return nil, err
	}
	return &envSource{explicit: o.envMap, system: o.useSystemEnv, dotenv: dotenv}, nil
}

func readDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return values, nil
}

// get returns the first non-empty value for key.
func (e *envSource) get(key string) (string, bool) {
	if v := e.explicit[key]; v != "" {
		return v, true
	}
	if e.system {
		if v := os.Getenv(key); v != "" {
			return v, true
		}
	}
	v := e.dotenv[key]
	return v, v != ""
}

func (e *envSource) str(key, fallback string) string {
	if v, ok := e.get(key); ok {
		return v
	}
	return fallback
}

func (e *envSource) duration(key string, fallback time.Duration) time.Duration {
	v, ok := e.get(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.problems = append(e.problems, Problem{Field: key, Reason: fmt.Sprintf("%q is not a duration", v)})
		return fallback
	}
	return d
}

func (e *envSource) flag(key string, fallback bool) bool {
	v, ok := e.get(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(v) {
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.problems = append(e.problems, Problem{Field: key, Reason: fmt.Sprintf("%q is not a boolean", v)})
		return fallback
	}
	return b
}
