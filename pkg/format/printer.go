// Package format prints PHP syntax trees back to source.
//
// Output is deterministic: four-space indentation, braces on the statement
// line, one statement per line, literals kept verbatim. Parsing the output
// and printing it again yields the same text.
package format

import (
	"bytes"
	"strings"

	"github.com/leapstack-labs/psyrepl/pkg/token"
)

const indentSize = 4

// Printer handles PHP printing with indentation.
type Printer struct {
	output      *bytes.Buffer
	depth       int
	atLineStart bool
}

func newPrinter() *Printer {
	return &Printer{
		output:      &bytes.Buffer{},
		atLineStart: true,
	}
}

// String returns the printed output without trailing newlines.
func (p *Printer) String() string {
	return strings.TrimRight(p.output.String(), "\n")
}

// write writes s, indenting first when at the start of a line. Embedded
// newlines (heredoc bodies) are written verbatim.
func (p *Printer) write(s string) {
	if p.atLineStart && len(s) > 0 && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *Printer) writeln() {
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.depth*indentSize; i++ {
		p.output.WriteByte(' ')
	}
	p.atLineStart = false
}

func (p *Printer) indent() {
	p.depth++
}

func (p *Printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

// kw prints keywords separated by spaces.
func (p *Printer) kw(tokens ...token.TokenType) {
	for i, t := range tokens {
		if i > 0 {
			p.write(" ")
		}
		p.write(t.String())
	}
}

// formatList prints a list of items with separators.
// count is the number of items, format is called for each index.
func (p *Printer) formatList(count int, format func(i int), sep string) {
	for i := 0; i < count; i++ {
		format(i)
		if i < count-1 {
			p.write(sep)
		}
	}
}
