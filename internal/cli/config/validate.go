package config

import (
	"fmt"
	"slices"
	"strings"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(ValidEvaluators, c.Evaluator) {
		return fmt.Errorf("invalid evaluator %q: must be one of %s", c.Evaluator, strings.Join(ValidEvaluators, ", "))
	}
	if !slices.Contains(ValidColors, c.Color) {
		return fmt.Errorf("invalid color %q: must be one of %s", c.Color, strings.Join(ValidColors, ", "))
	}
	if c.PHP.Timeout < 0 {
		return fmt.Errorf("php.timeout must not be negative, got %s", c.PHP.Timeout)
	}
	return nil
}
