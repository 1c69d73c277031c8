package shell

import (
	"sort"
	"strings"
	"unicode"
)

// completer completes scope variables after "$" and meta-command names at
// the start of a line. It implements readline.AutoCompleter.
type completer struct {
	shell *Shell
}

// Do returns the suffixes that complete the word before pos.
func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && isWordRune(line[start-1]) {
		start--
	}
	word := string(line[start:pos])

	var candidates []string
	switch {
	case strings.HasPrefix(word, "$"):
		for _, name := range c.shell.scope.Names() {
			candidates = append(candidates, "$"+name)
		}
	case strings.TrimSpace(string(line[:start])) == "":
		candidates = c.shell.commandNames()
	default:
		return nil, 0
	}
	sort.Strings(candidates)

	var out [][]rune
	for _, candidate := range candidates {
		if strings.HasPrefix(candidate, word) && candidate != word {
			out = append(out, []rune(candidate[len(word):]))
		}
	}
	return out, len([]rune(word))
}

func isWordRune(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
