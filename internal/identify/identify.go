// Package identify detects stable gestures in the landmark-annotated frames
// produced by the MediaPipe tracking graph. A gesture counts as detected when
// a window of consecutive frames is near-identical, contains enough landmark
// pixels, and differs enough from the previously detected gesture.
package identify

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/emanuelegiona/gesturepad/internal/logging"

	_ "image/jpeg"
	_ "image/png"
)

type Options struct {
	// StableFrames is the window size required to detect a gesture.
	StableFrames int
	// InstabilityThreshold caps the average L1 distance from the window's
	// mean frame (1 would mean exact same frame).
	InstabilityThreshold float64
	// GestureInterval is how many frames are dropped from the window after
	// each evaluation.
	GestureInterval int
	// WhiteThreshold rejects stable windows whose best frame is almost
	// entirely white, meaning no landmarks are present.
	WhiteThreshold float64
	// LnNorm is the norm used when comparing a candidate against the
	// previously detected gesture.
	LnNorm int
	// PrevGestureThreshold is the ceiling under which a candidate counts as
	// a duplicate of the previous gesture.
	PrevGestureThreshold float64
	// FPS of the source video, used to timestamp detections.
	FPS float64
}

func (o Options) withDefaults() Options {
	if o.StableFrames <= 0 {
		o.StableFrames = 3
	}
	if o.InstabilityThreshold <= 0 {
		o.InstabilityThreshold = 2.5
	}
	if o.GestureInterval <= 0 {
		o.GestureInterval = 1
	}
	if o.WhiteThreshold <= 0 {
		o.WhiteThreshold = 0.995
	}
	if o.LnNorm <= 0 {
		o.LnNorm = 3
	}
	if o.PrevGestureThreshold <= 0 {
		o.PrevGestureThreshold = 1.8
	}
	if o.FPS <= 0 {
		o.FPS = 30
	}
	return o
}

type Identifier struct {
	framePaths []string
	opts       Options
}

// New builds an identifier over a directory of frames extracted from the
// MediaPipe output video, processed in lexical order.
func New(frameDir string, opts Options) (*Identifier, error) {
	info, err := os.Stat(frameDir)
	if err != nil {
		return nil, fmt.Errorf("invalid frame directory '%s': %w", frameDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("frame path '%s' is not a directory", frameDir)
	}

	entries, err := os.ReadDir(frameDir)
	if err != nil {
		return nil, fmt.Errorf("could not read frame directory '%s': %w", frameDir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".png", ".jpg", ".jpeg":
			paths = append(paths, filepath.Join(frameDir, entry.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no frames found in '%s'", frameDir)
	}
	sort.Strings(paths)

	return &Identifier{framePaths: paths, opts: opts.withDefaults()}, nil
}

// Detected is a stable gesture frame with its timestamp in the recording.
type Detected struct {
	Frame *image.Gray
	Index int
	Time  float64
}

// Process walks the frames with a sliding window, reporting each stable
// gesture once.
func (id *Identifier) Process() ([]Detected, error) {
	var (
		detected    []Detected
		buffer      []*frame
		lastGesture *frame
	)

	for index, path := range id.framePaths {
		f, err := loadFrame(path)
		if err != nil {
			return nil, fmt.Errorf("could not load frame '%s': %w", path, err)
		}
		buffer = append(buffer, f)
		if len(buffer) < id.opts.StableFrames {
			continue
		}

		best, ok := id.checkStability(lastGesture, buffer)
		if ok {
			start := index - id.opts.StableFrames + 1
			detected = append(detected, Detected{
				Frame: best.toGray(),
				Index: start,
				Time:  float64(start) / id.opts.FPS,
			})
			lastGesture = best
			logging.Debugf("Detected gesture at frame %d (%.3fs)", start, float64(start)/id.opts.FPS)
		}
		buffer = buffer[id.opts.GestureInterval:]
	}

	return detected, nil
}

// checkStability evaluates one window, returning the frame closest to the
// window mean when the window is stable and not a duplicate of the previous
// detection.
func (id *Identifier) checkStability(lastGesture *frame, buffer []*frame) (*frame, bool) {
	normalized := make([]*frame, len(buffer))
	for i, f := range buffer {
		normalized[i] = f.normalized()
	}

	mean := meanFrame(normalized)
	norms := make([]float64, len(normalized))
	avg := 0.0
	for i, f := range normalized {
		norms[i] = f.distance(mean, 1)
		avg += norms[i]
	}
	avg /= float64(len(normalized))
	if avg > id.opts.InstabilityThreshold {
		return nil, false
	}

	best := normalized[0]
	bestNorm := norms[0]
	for i, n := range norms {
		if n < bestNorm {
			best, bestNorm = normalized[i], n
		}
	}
	best = best.clamped()

	if best.whiteRatio() > id.opts.WhiteThreshold {
		return nil, false
	}

	if lastGesture != nil {
		d := lastGesture.maskedDistance(best, id.opts.LnNorm)
		if d <= id.opts.PrevGestureThreshold {
			return nil, false
		}
	}

	return best, true
}
