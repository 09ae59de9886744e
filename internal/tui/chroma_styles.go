package tui

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// blockStyle is the chroma style used for raw block source.
const blockStyle = "catppuccin-mocha"

func init() {
	// Based on https://github.com/catppuccin/chroma
	styles.Register(chroma.MustNewStyle(blockStyle, chroma.StyleEntries{
		chroma.Text:              "#cdd6f4",
		chroma.Error:             "#f38ba8",
		chroma.Comment:           "#6c7086 italic",
		chroma.Keyword:           "#cba6f7",
		chroma.NameAttribute:     "#f9e2af",
		chroma.NameTag:           "#cba6f7",
		chroma.Literal:           "#cdd6f4",
		chroma.LiteralNumber:     "#fab387",
		chroma.LiteralString:     "#a6e3a1",
		chroma.GenericEmph:       "italic",
		chroma.GenericHeading:    "#89b4fa bold",
		chroma.GenericStrong:     "bold",
		chroma.GenericSubheading: "#a6adc8 bold",
		chroma.Background:        "", // Transparent background
	}))
}

// highlightBlock renders the markdown source of a block for the terminal.
// The source is returned unchanged when highlighting fails.
func highlightBlock(src string) string {
	lexer := lexers.Get("markdown")
	if lexer == nil {
		return src
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return src
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, src)
	if err != nil {
		return src
	}
	var b strings.Builder
	if err := formatter.Format(&b, styles.Get(blockStyle), it); err != nil {
		return src
	}
	return b.String()
}
