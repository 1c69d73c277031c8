package token

// CommentKind distinguishes the PHP comment forms.
type CommentKind int

// Comment kinds.
const (
	LineComment  CommentKind = iota // // comment or # comment
	BlockComment                    // /* comment */
	DocComment                      // /** comment */
)

// Comment represents a PHP comment with position.
type Comment struct {
	Kind CommentKind
	Text string // includes delimiters
	Span Span

	// Unterminated is set when a block or doc comment runs to end of input.
	Unterminated bool
}

// IsLineComment returns true if this is a line comment.
func (c *Comment) IsLineComment() bool {
	return c.Kind == LineComment
}
