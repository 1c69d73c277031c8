package cleaner

import (
	"strings"
)

// State is a Controller state.
type State int

// Controller states. StateRejected is only ever reported in an Outcome;
// the controller itself is back to StateEmpty by then.
const (
	StateEmpty State = iota
	StateBuffering
	StateReady
	StateRejected
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateBuffering:
		return "buffering"
	case StateReady:
		return "ready"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Outcome reports what happened to a line passed to AddLine.
type Outcome struct {
	State  State
	Result Result
	// Err is ErrCodePending when the line was refused because cleaned
	// code is still waiting for Complete.
	Err error
}

// Code returns the cleaned code of a Ready outcome.
func (o Outcome) Code() string {
	return o.Result.Code
}

// ControllerConfig holds controller configuration.
type ControllerConfig struct {
	// Cleaner runs the pipeline (optional, uses the default if nil)
	Cleaner *Cleaner
	// Resolver knows the callables outside the buffer
	Resolver Resolver
	// Namespace is the initial namespace path
	Namespace []string
}

// Controller buffers raw lines until they clean to runnable code.
// Controllers share nothing, so nested prompts can each own one.
type Controller struct {
	cleaner   *Cleaner
	resolver  Resolver
	namespace []string
	buffer    []string
	state     State
	code      string
}

// NewController creates a controller in StateEmpty.
func NewController(cfg ControllerConfig) *Controller {
	c := &Controller{
		cleaner:  cfg.Cleaner,
		resolver: cfg.Resolver,
	}
	if c.cleaner == nil {
		c.cleaner = defaultCleaner
	}
	c.SetNamespacePath(cfg.Namespace)
	return c
}

// AddLine appends a line to the buffer and cleans the whole buffer.
func (c *Controller) AddLine(line string) Outcome {
	if c.state == StateReady {
		return Outcome{State: StateReady, Result: Ready(c.code), Err: ErrCodePending}
	}

	c.buffer = append(c.buffer, line)
	result := c.cleaner.Clean(c.buffer, Env{Namespace: c.namespace, Resolver: c.resolver})

	switch result.Status {
	case StatusReady:
		c.state = StateReady
		c.code = result.Code
	case StatusRejected:
		c.Reset()
		return Outcome{State: StateRejected, Result: result}
	default:
		c.state = StateBuffering
	}
	return Outcome{State: c.state, Result: result}
}

// Complete marks the pending code as executed, whether it succeeded or
// not, and empties the buffer.
func (c *Controller) Complete() {
	c.Reset()
}

// Reset discards the buffer and any pending code.
func (c *Controller) Reset() {
	c.buffer = nil
	c.code = ""
	c.state = StateEmpty
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Buffer returns a copy of the buffered lines.
func (c *Controller) Buffer() []string {
	out := make([]string, len(c.buffer))
	copy(out, c.buffer)
	return out
}

// HasCode reports whether cleaned code is waiting for execution.
func (c *Controller) HasCode() bool {
	return c.state == StateReady
}

// Code returns the cleaned code waiting for execution, if any.
func (c *Controller) Code() string {
	return c.code
}

// SetResolver replaces the resolver used for subsequent lines.
func (c *Controller) SetResolver(r Resolver) {
	c.resolver = r
}

// SetNamespace sets the namespace path from its string form, e.g.
// "App\Sub". A doubled backslash counts as one separator and an empty
// string selects the global namespace.
func (c *Controller) SetNamespace(ns string) {
	c.SetNamespacePath(ParseNamespace(ns))
}

// SetNamespacePath sets the namespace path.
func (c *Controller) SetNamespacePath(path []string) {
	c.namespace = nil
	for _, part := range path {
		if part = strings.TrimSpace(part); part != "" {
			c.namespace = append(c.namespace, part)
		}
	}
}

// Namespace returns a copy of the namespace path.
func (c *Controller) Namespace() []string {
	out := make([]string, len(c.namespace))
	copy(out, c.namespace)
	return out
}

// NamespaceString returns the namespace path joined with backslashes.
func (c *Controller) NamespaceString() string {
	return strings.Join(c.namespace, `\`)
}

// ParseNamespace splits the string form of a namespace into its parts.
func ParseNamespace(ns string) []string {
	ns = strings.TrimLeft(strings.TrimSpace(ns), `\`)
	ns = strings.ReplaceAll(ns, `\\`, `\`)
	var parts []string
	for _, part := range strings.Split(ns, `\`) {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
