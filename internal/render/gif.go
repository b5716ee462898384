package render

import (
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"
)

// GIFRecorder collects raster frames and encodes them as a looping GIF.
type GIFRecorder struct {
	frames []*image.Paletted
	delay  int
	limit  int
}

// NewGIFRecorder records at most limit frames (0 means unbounded) played
// back at fps.
func NewGIFRecorder(fps, limit int) *GIFRecorder {
	delay := 2
	if fps > 0 {
		delay = max(1, 100/fps)
	}
	return &GIFRecorder{delay: delay, limit: limit}
}

// Capture quantises img to the Plan 9 palette and appends it. Frames past
// the limit are dropped.
func (g *GIFRecorder) Capture(img image.Image) bool {
	if g.limit > 0 && len(g.frames) >= g.limit {
		return false
	}
	b := img.Bounds()
	frame := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(frame, b, img, b.Min)
	g.frames = append(g.frames, frame)
	return true
}

func (g *GIFRecorder) Len() int { return len(g.frames) }

func (g *GIFRecorder) Reset() { g.frames = g.frames[:0] }

func (g *GIFRecorder) Encode(w io.Writer) error {
	if len(g.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range g.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, g.delay)
	}
	return gif.EncodeAll(w, &anim)
}

func (g *GIFRecorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := g.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
