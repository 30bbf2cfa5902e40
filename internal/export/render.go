package export

import (
	"strings"

	"github.com/emanuelegiona/gesturepad/internal/fuse"
)

// Render writes the fused stream as text in the given format. Words are
// separated by single spaces, punctuation attaches to the preceding word, and
// paired gestures alternate between opening and closing. While a caps lock
// pair is open, words are upper-cased.
func Render(f Format, tokens []fuse.Token) string {
	var b strings.Builder
	open := make(map[fuse.Gesture]bool)
	needSpace := false

	for _, token := range tokens {
		switch t := token.(type) {
		case fuse.Word:
			if needSpace {
				b.WriteString(" ")
			}
			text := t.Text
			if open[fuse.CapsLock] {
				text = strings.ToUpper(text)
			}
			b.WriteString(text)
			needSpace = true

		case fuse.GestureEvent:
			g := t.Gesture
			closing := false
			if g.Paired() {
				closing = open[g]
				open[g] = !closing
			}
			frag := f.Gesture(g, closing)
			if frag == "" {
				continue
			}
			switch g {
			case fuse.Comma, fuse.FullStop, fuse.Colon, fuse.Semicolon,
				fuse.ExclamationMark, fuse.QuestionMark:
				// Attach directly to the previous word.
				b.WriteString(frag)
				needSpace = true
			case fuse.NewLine:
				b.WriteString(frag)
				needSpace = false
			default:
				if !closing && needSpace {
					b.WriteString(" ")
				}
				b.WriteString(frag)
				needSpace = closing
			}
		}
	}
	return b.String()
}
