// Package fuse merges the recognized words and gestures of a recording into a
// single stream ordered by timestamp.
package fuse

import (
	"errors"
	"fmt"
)

// Fuser merges word and gesture tokens. SyncTolerance shifts gestures earlier
// by up to the given number of seconds, so a gesture made slightly after a
// word still precedes it in the output.
type Fuser struct {
	SyncTolerance float64
}

func NewFuser(syncTolerance float64) (*Fuser, error) {
	if syncTolerance < 0 {
		return nil, fmt.Errorf("synchronization tolerance cannot be less than 0, got %f", syncTolerance)
	}
	return &Fuser{SyncTolerance: syncTolerance}, nil
}

// Fuse merges both modalities into one ordered stream. Paired gestures track
// an open/close stack: a repeated paired gesture closes the matching open one,
// and any still open at the end of the stream are closed innermost-first so
// formatting never leaks past the document end.
func (f *Fuser) Fuse(words []Word, gestures []GestureEvent) ([]Token, error) {
	if len(words) == 0 {
		return nil, errors.New("list of recognized words cannot be empty")
	}

	out := make([]Token, 0, len(words)+len(gestures))
	var open []GestureEvent

	pushGesture := func(g GestureEvent) {
		if g.Gesture.Paired() {
			if n := len(open); n > 0 && open[n-1].Gesture == g.Gesture {
				open = open[:n-1]
			} else {
				open = append(open, g)
			}
		}
		out = append(out, g)
	}

	wi, gi := 0, 0
	for wi < len(words) || gi < len(gestures) {
		switch {
		case wi == len(words):
			pushGesture(gestures[gi])
			gi++
		case gi == len(gestures):
			out = append(out, words[wi])
			wi++
		case gestures[gi].Time <= words[wi].Start+f.SyncTolerance:
			pushGesture(gestures[gi])
			gi++
		default:
			out = append(out, words[wi])
			wi++
		}
	}

	for n := len(open); n > 0; n = len(open) {
		closing := open[n-1]
		open = open[:n-1]
		out = append(out, closing)
	}

	return out, nil
}
