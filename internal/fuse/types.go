package fuse

import "fmt"

// Token is a single recognized utterance from either modality, ordered by its
// timestamp in the recording.
type Token interface {
	Timing() float64
}

// Word is a recognized word from the audio modality, with start and end
// timestamps in seconds.
type Word struct {
	Text  string
	Start float64
	End   float64
}

func NewWord(text string, start, end float64) (Word, error) {
	if start < 0 {
		return Word{}, fmt.Errorf("word timing cannot be less than 0, got %f", start)
	}
	if end < start {
		return Word{}, fmt.Errorf("word end time %f cannot precede recognition time %f", end, start)
	}
	return Word{Text: text, Start: start, End: end}, nil
}

func (w Word) Timing() float64 {
	return w.Start
}

// GestureEvent is a classified gesture from the video modality.
type GestureEvent struct {
	Gesture    Gesture
	Time       float64
	Confidence float64
}

func NewGestureEvent(g Gesture, at, confidence float64) (GestureEvent, error) {
	if at < 0 {
		return GestureEvent{}, fmt.Errorf("gesture timing cannot be less than 0, got %f", at)
	}
	if confidence < 0 || confidence > 1 {
		return GestureEvent{}, fmt.Errorf("confidence must be within the range [0,1], got %f", confidence)
	}
	return GestureEvent{Gesture: g, Time: at, Confidence: confidence}, nil
}

func (g GestureEvent) Timing() float64 {
	return g.Time
}
