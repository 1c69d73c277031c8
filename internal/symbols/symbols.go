// Package symbols provides the callable table the cleaner consults before
// letting a function call through.
package symbols

import (
	"bufio"
	_ "embed"
	"sort"
	"strings"
	"sync"
)

//go:generate go run ../../scripts/genbuiltins -out=builtins.txt

//go:embed builtins.txt
var builtinList string

// Table is a case-insensitive set of callable names. It is safe for
// concurrent use.
type Table struct {
	mu    sync.RWMutex
	names map[string]string // lower-cased -> as added
}

// New creates a table holding the given names.
func New(names ...string) *Table {
	t := &Table{names: make(map[string]string, len(names))}
	t.Add(names...)
	return t
}

// Builtins returns a new table seeded with the functions of a stock PHP CLI.
func Builtins() *Table {
	return New(parseList(builtinList)...)
}

// parseList reads one name per line, skipping blanks and # comments.
func parseList(list string) []string {
	var names []string
	scanner := bufio.NewScanner(strings.NewReader(list))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names
}

// normalize strips the leading backslash of a fully qualified name.
func normalize(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), `\`)
}

// Add registers callables. Namespaced names use backslashes, e.g.
// "App\helper".
func (t *Table) Add(names ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, name := range names {
		name = normalize(name)
		if name == "" {
			continue
		}
		t.names[strings.ToLower(name)] = name
	}
}

// IsKnownCallable reports whether name is in the table.
func (t *Table) IsKnownCallable(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.names[strings.ToLower(normalize(name))]
	return ok
}

// Names returns all names in sorted order.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.names))
	for _, name := range t.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of names.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.names)
}
