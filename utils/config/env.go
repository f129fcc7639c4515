package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ENV_BOT_TOKEN = "BOT_TOKEN"
	ENV_LOG_LEVEL = "MLBOT_LOG_LEVEL"
	ENV_DATA_PATH = "MLBOT_DATA_PATH"
	ENV_API_URL   = "MLBOT_API_URL"
	ENV_TIMEOUT   = "MLBOT_API_TIMEOUT"

	// A single developer allowed to use /dev on top of the configured co-owners.
	ENV_DEV_ID = "DEV_ID"
)

func GetEnviroVar(name string) (string, error) {
	v, found := os.LookupEnv(name)
	if !found {
		return "", fmt.Errorf("environment variable %q must be specified", name)
	}
	if strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("environment variable %q must not be empty", name)
	}

	return v, nil
}

// Parses an EnviroVar to the desired type
func ParseEnviroVar[T any](v string) (T, error) {
	var zero T

	switch any(zero).(type) {
	case string:
		return any(v).(T), nil
	case bool:
		val, err := strconv.ParseBool(v)
		if err != nil {
			return zero, fmt.Errorf("failed to parse %q as bool: %v", v, err)
		}

		return any(val).(T), nil
	case int:
		val, err := strconv.Atoi(v)
		if err != nil {
			return zero, fmt.Errorf("failed to parse %q as int: %v", v, err)
		}

		return any(val).(T), nil
	case time.Duration:
		val, err := time.ParseDuration(v)
		if err != nil {
			return zero, fmt.Errorf("failed to parse %q as duration: %v", v, err)
		}

		return any(val).(T), nil
	}

	return zero, fmt.Errorf("unsupported environment variable type %T", zero)
}

// Overwrites *dst with the parsed variable when it is set and non-empty.
func overrideFromEnv[T any](name string, dst *T) error {
	raw, err := GetEnviroVar(name)
	if err != nil {
		return nil
	}

	v, err := ParseEnviroVar[T](raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	*dst = v
	return nil
}

// Lets the environment override the few settings that commonly differ between deployments.
func (c *Config) ApplyEnv() error {
	if err := overrideFromEnv(ENV_LOG_LEVEL, &c.Logging.Level); err != nil {
		return err
	}
	if err := overrideFromEnv(ENV_DATA_PATH, &c.Storage.DataPath); err != nil {
		return err
	}
	if err := overrideFromEnv(ENV_API_URL, &c.API.BaseURL); err != nil {
		return err
	}

	return overrideFromEnv(ENV_TIMEOUT, &c.API.Timeout)
}
