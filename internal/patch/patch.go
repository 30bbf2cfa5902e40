// Package patch overwrites files inside the MediaPipe checkout with the
// vendored replacements shipped under data/mediapipe_custom.
package patch

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/emanuelegiona/gesturepad/internal/logging"
	"github.com/emanuelegiona/gesturepad/internal/util"
)

const verifyWorkers = 4

// Pair maps a vendored replacement onto a file inside the MediaPipe checkout.
// Source is relative to the vendor directory, Destination to the checkout root.
type Pair struct {
	Source      string
	Destination string
}

// DefaultPairs lists the files GesturePad replaces in a fresh MediaPipe
// checkout: the loop calculators extended for landmark export and the
// multi-hand tracking graph configurations.
func DefaultPairs() []Pair {
	return []Pair{
		{
			Source:      "begin_loop_calculator.h",
			Destination: filepath.Join("mediapipe", "calculators", "core", "begin_loop_calculator.h"),
		},
		{
			Source:      "end_loop_calculator.h",
			Destination: filepath.Join("mediapipe", "calculators", "core", "end_loop_calculator.h"),
		},
		{
			Source:      "multi_hand_tracking_desktop_live.pbtxt",
			Destination: filepath.Join("mediapipe", "graphs", "hand_tracking", "multi_hand_tracking_desktop_live.pbtxt"),
		},
		{
			Source:      "multi_hand_renderer_cpu.pbtxt",
			Destination: filepath.Join("mediapipe", "graphs", "hand_tracking", "subgraphs", "multi_hand_renderer_cpu.pbtxt"),
		},
	}
}

// Set is the list of patches to apply against one checkout.
type Set struct {
	VendorDir   string
	CheckoutDir string
	Pairs       []Pair
}

func NewSet(vendorDir, checkoutDir string) *Set {
	return &Set{
		VendorDir:   vendorDir,
		CheckoutDir: checkoutDir,
		Pairs:       DefaultPairs(),
	}
}

type Applied struct {
	Destination string
	SHA256      string
}

// Apply replaces every destination with its vendored source, in order,
// stopping at the first failure. Destinations must already exist: a missing
// destination means the checkout is incomplete or the pair list is stale, and
// silently creating the file would hide that. Already-applied pairs are
// returned even on failure, so callers can record partial progress.
func (s *Set) Apply() ([]Applied, error) {
	applied := make([]Applied, 0, len(s.Pairs))
	for _, pair := range s.Pairs {
		a, err := s.applyOne(pair)
		if err != nil {
			return applied, err
		}
		applied = append(applied, *a)
	}
	return applied, nil
}

// ApplyOne applies the pair whose source matches the given vendored file name.
func (s *Set) ApplyOne(source string) (*Applied, error) {
	for _, pair := range s.Pairs {
		if pair.Source == source {
			return s.applyOne(pair)
		}
	}
	return nil, fmt.Errorf("no patch pair with source '%s'", source)
}

func (s *Set) applyOne(pair Pair) (*Applied, error) {
	src := filepath.Join(s.VendorDir, pair.Source)
	dst := filepath.Join(s.CheckoutDir, pair.Destination)

	if _, err := os.Stat(src); err != nil {
		return nil, fmt.Errorf("vendored patch source '%s' is missing: %w", src, err)
	}
	if _, err := os.Stat(dst); err != nil {
		return nil, fmt.Errorf("patch destination '%s' does not exist; is the MediaPipe checkout complete? %w", dst, err)
	}

	if err := os.Remove(dst); err != nil {
		return nil, fmt.Errorf("could not remove patch destination '%s': %w", dst, err)
	}
	if err := util.CopyFile(src, dst); err != nil {
		return nil, fmt.Errorf("could not copy '%s' to '%s': %w", src, dst, err)
	}

	sum, err := hashFile(dst)
	if err != nil {
		return nil, fmt.Errorf("could not hash patched file '%s': %w", dst, err)
	}
	logging.Debugf("Patched %s (%s)", dst, sum)
	return &Applied{Destination: pair.Destination, SHA256: sum}, nil
}

// Mismatch describes a destination that is not byte-identical to its source.
type Mismatch struct {
	Pair   Pair
	Reason string
}

// Verify checks that every destination is byte-identical to its vendored
// source. Pairs are hashed concurrently; order of the result is not defined.
func (s *Set) Verify() []Mismatch {
	jobs := make(chan Pair)
	mismatches := util.NewSyncSlice[Mismatch]()

	var wg sync.WaitGroup
	for i := 0; i < verifyWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pair := range jobs {
				if reason := s.verifyOne(pair); reason != "" {
					mismatches.Add(Mismatch{Pair: pair, Reason: reason})
				}
			}
		}()
	}
	for _, pair := range s.Pairs {
		jobs <- pair
	}
	close(jobs)
	wg.Wait()

	return mismatches.Items()
}

func (s *Set) verifyOne(pair Pair) string {
	srcSum, err := hashFile(filepath.Join(s.VendorDir, pair.Source))
	if err != nil {
		return fmt.Sprintf("could not hash source: %s", err)
	}
	dstSum, err := hashFile(filepath.Join(s.CheckoutDir, pair.Destination))
	if err != nil {
		return fmt.Sprintf("could not hash destination: %s", err)
	}
	if srcSum != dstSum {
		return fmt.Sprintf("content differs (source %s, destination %s)", srcSum, dstSum)
	}
	return ""
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err = io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
