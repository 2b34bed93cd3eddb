package component

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

type AnimationDef struct {
	Name       string
	Row        int
	ColStart   int // start column (frame 0)
	FrameCount int
	FrameW     int
	FrameH     int
	FPS        float64
	Loop       bool
}

// Length is the clip duration in seconds.
func (d AnimationDef) Length() float64 {
	if d.FrameCount <= 0 || d.FPS <= 0 {
		return 0
	}
	return float64(d.FrameCount) / d.FPS
}

// FrameAt maps a local clip time to a frame index, wrapping looping clips and
// holding the last frame otherwise.
func (d AnimationDef) FrameAt(t float64) int {
	if d.FrameCount <= 0 || d.FPS <= 0 || t <= 0 {
		return 0
	}
	frame := int(math.Floor(t * d.FPS))
	if d.Loop {
		return frame % d.FrameCount
	}
	if frame >= d.FrameCount {
		return d.FrameCount - 1
	}
	return frame
}

// Rect is the sheet region of frame.
func (d AnimationDef) Rect(frame int) image.Rectangle {
	x := d.ColStart*d.FrameW + frame*d.FrameW
	y := d.Row * d.FrameH
	return image.Rect(x, y, x+d.FrameW, y+d.FrameH)
}

// Animation is the sprite-sheet animator of an object. Controller holds the
// binding installed by the sequencer (a base controller or an override) and is
// opaque to the animation system.
type Animation struct {
	Sheet      *ebiten.Image
	Defs       map[string]AnimationDef
	Default    string
	Controller any
	Current    string
	Frame      int
	Elapsed    float64
	Speed      float64
	Enabled    bool
	Playing    bool
}

// Rewind puts the animator back on its default clip at frame zero.
func (a *Animation) Rewind() {
	a.Current = a.Default
	a.Frame = 0
	a.Elapsed = 0
	a.Playing = a.Current != ""
}

var AnimationComponent = NewComponent[Animation]()
