package identify

import (
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"
)

// frame is a grayscale raster kept as float64 so normalization and norm
// computations do not lose precision between steps.
type frame struct {
	pix  []float64
	w, h int
}

// loadFrame decodes an image and enhances it the way the identifier expects:
// every pixel that is not a pure red or pure green landmark marker becomes
// white, then the channels are averaged to grayscale.
func loadFrame(path string) (*frame, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = fh.Close()
	}()

	img, _, err := image.Decode(fh)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	f := &frame{
		pix: make([]float64, bounds.Dx()*bounds.Dy()),
		w:   bounds.Dx(),
		h:   bounds.Dy(),
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			r8, g8, b8 := r>>8, g>>8, b>>8
			isRed := r8 == 255 && g8 == 0 && b8 == 0
			isGreen := r8 == 0 && g8 == 255 && b8 == 0
			if isRed || isGreen {
				f.pix[i] = float64(r8+g8+b8) / 3
			} else {
				f.pix[i] = 255
			}
			i++
		}
	}
	return f, nil
}

// normalized min-max scales the frame to the 0..255 range.
func (f *frame) normalized() *frame {
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, v := range f.pix {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}

	out := &frame{pix: make([]float64, len(f.pix)), w: f.w, h: f.h}
	if maxV == minV {
		// Uniform frames (typically all white) stay unscaled, so the white
		// ratio check still rejects them.
		copy(out.pix, f.pix)
		return out
	}
	for i, v := range f.pix {
		out.pix[i] = (v - minV) * 255 / (maxV - minV)
	}
	return out
}

// clamped rounds values into the 0..255 integer range.
func (f *frame) clamped() *frame {
	out := &frame{pix: make([]float64, len(f.pix)), w: f.w, h: f.h}
	for i, v := range f.pix {
		out.pix[i] = math.Min(255, math.Max(0, math.Round(v)))
	}
	return out
}

func meanFrame(frames []*frame) *frame {
	out := &frame{pix: make([]float64, len(frames[0].pix)), w: frames[0].w, h: frames[0].h}
	for _, f := range frames {
		for i, v := range f.pix {
			out.pix[i] += v
		}
	}
	for i := range out.pix {
		out.pix[i] /= float64(len(frames))
	}
	return out
}

// distance is the mean of |a-b|^n over all pixels.
func (f *frame) distance(other *frame, n int) float64 {
	sum := 0.0
	for i, v := range f.pix {
		d := math.Abs(v - other.pix[i])
		if n > 1 {
			d = math.Pow(d, float64(n))
		}
		sum += d
	}
	return sum / float64(len(f.pix))
}

// maskedDistance compares only the landmark pixels of f (everything that is
// not white), scaled down so the result is comparable across norms.
func (f *frame) maskedDistance(other *frame, n int) float64 {
	sum := 0.0
	count := 0
	for i, v := range f.pix {
		if v == 255 {
			continue
		}
		d := math.Abs(v - other.pix[i])
		if n > 1 {
			d = math.Pow(d, float64(n))
		}
		sum += d
		count++
	}
	if count == 0 {
		return math.Inf(1)
	}
	return sum / float64(count) / math.Pow(100, float64(n))
}

func (f *frame) whiteRatio() float64 {
	white := 0
	for _, v := range f.pix {
		if v == 255 {
			white++
		}
	}
	return float64(white) / float64(len(f.pix))
}

func (f *frame) toGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.w, f.h))
	for i, v := range f.pix {
		img.Pix[i] = uint8(v)
	}
	return img
}

// WriteFrames exports detected gesture frames as JPEGs named by timestamp,
// ready for classification. It returns the written paths in input order.
func WriteFrames(dir string, detected []Detected) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create output directory '%s': %w", dir, err)
	}

	paths := make([]string, 0, len(detected))
	for _, d := range detected {
		path := filepath.Join(dir, fmt.Sprintf("gesture_%.3f.jpg", d.Time))
		fh, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("could not create '%s': %w", path, err)
		}
		if err = jpeg.Encode(fh, d.Frame, &jpeg.Options{Quality: 90}); err != nil {
			_ = fh.Close()
			return nil, fmt.Errorf("could not encode '%s': %w", path, err)
		}
		if err = fh.Close(); err != nil {
			return nil, fmt.Errorf("could not close '%s': %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
