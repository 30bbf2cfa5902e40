package identify

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type blob struct {
	x0, y0, x1, y1 int
}

// writeFrame writes a 10x10 PNG that is white except for a pure red blob,
// mimicking the landmark markers drawn by the tracking graph.
func writeFrame(t *testing.T, dir string, index int, b *blob) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			c := color.RGBA{255, 255, 255, 255}
			if b != nil && x >= b.x0 && x < b.x1 && y >= b.y0 && y < b.y1 {
				c = color.RGBA{255, 0, 0, 255}
			}
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(dir, fmt.Sprintf("frame_%03d.png", index))
	fh, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(fh, img))
	require.NoError(t, fh.Close())
}

func TestNewValidation(t *testing.T) {
	dir := t.TempDir()

	_, err := New(filepath.Join(dir, "nope"), Options{})
	require.ErrorContains(t, err, "invalid frame directory")

	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	_, err = New(file, Options{})
	require.ErrorContains(t, err, "is not a directory")

	_, err = New(dir, Options{})
	require.ErrorContains(t, err, "no frames found")
}

func TestProcessDetectsStableGestureOnce(t *testing.T) {
	dir := t.TempDir()
	hand := &blob{2, 2, 6, 6}
	for i := 0; i < 5; i++ {
		writeFrame(t, dir, i, hand)
	}

	id, err := New(dir, Options{FPS: 10})
	require.NoError(t, err)

	detected, err := id.Process()
	require.NoError(t, err)

	// Every window after the first sees the same gesture again and is
	// suppressed as a duplicate.
	require.Len(t, detected, 1)
	require.Equal(t, 0, detected[0].Index)
	require.Equal(t, 0.0, detected[0].Time)
	require.NotNil(t, detected[0].Frame)
}

func TestProcessRejectsBlankFrames(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 6; i++ {
		writeFrame(t, dir, i, nil)
	}

	id, err := New(dir, Options{})
	require.NoError(t, err)

	detected, err := id.Process()
	require.NoError(t, err)
	require.Empty(t, detected)
}

func TestProcessDetectsDistinctGestures(t *testing.T) {
	dir := t.TempDir()
	first := &blob{2, 2, 6, 6}
	second := &blob{6, 6, 10, 10}
	for i := 0; i < 5; i++ {
		writeFrame(t, dir, i, first)
	}
	for i := 5; i < 10; i++ {
		writeFrame(t, dir, i, nil)
	}
	for i := 10; i < 15; i++ {
		writeFrame(t, dir, i, second)
	}

	id, err := New(dir, Options{FPS: 10})
	require.NoError(t, err)

	detected, err := id.Process()
	require.NoError(t, err)
	require.Len(t, detected, 2)
	require.Equal(t, 0, detected[0].Index)
	require.Equal(t, 10, detected[1].Index)
	require.Equal(t, 1.0, detected[1].Time)
}

func TestWriteFrames(t *testing.T) {
	srcDir := t.TempDir()
	for i := 0; i < 3; i++ {
		writeFrame(t, srcDir, i, &blob{2, 2, 6, 6})
	}

	id, err := New(srcDir, Options{FPS: 10})
	require.NoError(t, err)
	detected, err := id.Process()
	require.NoError(t, err)
	require.Len(t, detected, 1)

	outDir := filepath.Join(t.TempDir(), "gestures")
	paths, err := WriteFrames(outDir, detected)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(outDir, "gesture_0.000.jpg")}, paths)
	for _, path := range paths {
		_, err = os.Stat(path)
		require.NoError(t, err)
	}
}
