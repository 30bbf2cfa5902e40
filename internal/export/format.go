// Package export translates a fused token stream into a target text format.
// A gesture like Bold becomes "<b>"/"</b>" in HTML and "**" in Markdown.
package export

import (
	"fmt"

	"github.com/emanuelegiona/gesturepad/internal/fuse"
)

// Format maps a gesture onto its textual representation. For paired gestures
// closing selects the closing token; formats where opening and closing tokens
// are identical ignore it.
type Format interface {
	Gesture(g fuse.Gesture, closing bool) string
}

// punctuation shared by every format.
var baseMapping = map[fuse.Gesture]string{
	fuse.Comma:           ",",
	fuse.FullStop:        ".",
	fuse.Colon:           ":",
	fuse.Semicolon:       ";",
	fuse.ExclamationMark: "!",
	fuse.QuestionMark:    "?",
	fuse.NewLine:         "\n",
}

type htmlFormat struct{}

func NewHTML() Format {
	return htmlFormat{}
}

func (htmlFormat) Gesture(g fuse.Gesture, closing bool) string {
	var tag string
	switch g {
	case fuse.Bold:
		tag = "b"
	case fuse.Italics:
		tag = "i"
	case fuse.Underlined:
		tag = "u"
	case fuse.NewLine:
		return "<br>"
	default:
		return baseMapping[g]
	}
	if closing {
		return fmt.Sprintf("</%s>", tag)
	}
	return fmt.Sprintf("<%s>", tag)
}

type markdownFormat struct{}

func NewMarkdown() Format {
	return markdownFormat{}
}

func (markdownFormat) Gesture(g fuse.Gesture, _ bool) string {
	switch g {
	case fuse.Bold:
		return "**"
	case fuse.Italics:
		return "*"
	case fuse.NewLine:
		return "\n\n"
	default:
		// Underlining has no Markdown equivalent and renders as nothing.
		return baseMapping[g]
	}
}
