package lint

import "sync"

// globalRegistry is the single global registry for all lint rules.
var globalRegistry = &Registry{
	rules: make(map[string]Rule),
}

// Registry stores registered lint rules for discovery.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule // keyed by ID
	order []string
}

// Register adds a rule to the global registry. Registering an ID twice
// replaces the rule but keeps its original position.
func Register(rule Rule) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	if _, exists := globalRegistry.rules[rule.ID()]; !exists {
		globalRegistry.order = append(globalRegistry.order, rule.ID())
	}
	globalRegistry.rules[rule.ID()] = rule
}

// AllRules returns all registered rules in registration order.
func AllRules() []Rule {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	rules := make([]Rule, 0, len(globalRegistry.order))
	for _, id := range globalRegistry.order {
		rules = append(rules, globalRegistry.rules[id])
	}
	return rules
}

// GetByID returns a rule by its ID.
func GetByID(id string) (Rule, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	rule, ok := globalRegistry.rules[id]
	return rule, ok
}
