package fuse

// Gesture identifies which hand gesture was classified from a video frame.
type Gesture int

const (
	NoGesture Gesture = iota

	// Emphasis
	Bold
	Italics
	Underlined

	// Punctuation
	Comma
	FullStop
	Colon
	Semicolon
	ExclamationMark
	QuestionMark

	// Other
	CapsLock
	NewLine
)

var gestureNames = map[Gesture]string{
	NoGesture:       "NO_GESTURE",
	Bold:            "BOLD",
	Italics:         "ITALICS",
	Underlined:      "UNDERLINED",
	Comma:           "COMMA",
	FullStop:        "FULL_STOP",
	Colon:           "COLON",
	Semicolon:       "SEMICOLON",
	ExclamationMark: "EXCLAMATION_MARK",
	QuestionMark:    "QUESTION_MARK",
	CapsLock:        "CAPS_LOCK",
	NewLine:         "NEW_LINE",
}

var gestureLookup = func() map[string]Gesture {
	m := make(map[string]Gesture, len(gestureNames))
	for g, name := range gestureNames {
		m[name] = g
	}
	return m
}()

func (g Gesture) String() string {
	if name, ok := gestureNames[g]; ok {
		return name
	}
	return "NO_GESTURE"
}

// ParseGesture maps a classifier label onto a Gesture; unknown labels map to
// NoGesture, matching how unclassified frames are treated.
func ParseGesture(label string) Gesture {
	if g, ok := gestureLookup[label]; ok {
		return g
	}
	return NoGesture
}

// Paired reports whether the gesture works in open/close pairs, like bold or
// caps lock, rather than producing a single token.
func (g Gesture) Paired() bool {
	switch g {
	case Bold, Italics, Underlined, CapsLock:
		return true
	default:
		return false
	}
}
