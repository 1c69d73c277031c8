package lint

// Config controls which rules are enabled.
type Config struct {
	// DisabledRules contains rule IDs to skip
	DisabledRules map[string]bool
}

// NewConfig creates a default configuration with all rules enabled.
func NewConfig() *Config {
	return &Config{
		DisabledRules: make(map[string]bool),
	}
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(ruleID string) bool {
	if c == nil {
		return false
	}
	return c.DisabledRules[ruleID]
}

// Disable disables rules by ID or name.
func (c *Config) Disable(ids ...string) *Config {
	for _, id := range ids {
		if rule, ok := lookupRule(id); ok {
			id = rule.ID()
		}
		c.DisabledRules[id] = true
	}
	return c
}

func lookupRule(idOrName string) (Rule, bool) {
	if rule, ok := GetByID(idOrName); ok {
		return rule, true
	}
	for _, rule := range AllRules() {
		if rule.Name() == idOrName {
			return rule, true
		}
	}
	return nil, false
}
