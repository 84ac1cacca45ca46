package hud

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: only refresh the stat text every N frames to reduce
	// string allocations.
	updateInterval = 30
)

// Stats is the per-frame snapshot the HUD renders.
type Stats struct {
	Bodies    int
	Types     int
	BatchSize int
	Paused    bool
	StepTime  time.Duration
}

// HUD draws simulation stats at the top-right of the screen. Text is cached
// and recomputed every updateInterval frames, except the paused flag which
// must react immediately.
type HUD struct {
	frameCount uint32
	lastLines  []string
}

// New returns an empty HUD.
func New() *HUD {
	return &HUD{}
}

// Draw renders the overlay. Call after the 3D pass in the draw loop.
func (h *HUD) Draw(s Stats) {
	h.frameCount++
	if h.lastLines == nil || h.frameCount%updateInterval == 0 {
		h.lastLines = []string{
			fmt.Sprintf("FPS: %d", rl.GetFPS()),
			fmt.Sprintf("Bodies: %d (%d types)", s.Bodies, s.Types),
			fmt.Sprintf("Batch: %d", s.BatchSize),
			fmt.Sprintf("Step: %.2f ms", float64(s.StepTime.Microseconds())/1000),
		}
	}

	screenW := int32(rl.GetScreenWidth())
	y := int32(padding)
	for _, text := range h.lastLines {
		w := rl.MeasureText(text, fontSize)
		rl.DrawText(text, screenW-w-padding, y, fontSize, rl.Green)
		y += lineHeight
	}
	if s.Paused {
		text := "PAUSED"
		w := rl.MeasureText(text, fontSize)
		rl.DrawText(text, screenW-w-padding, y, fontSize, rl.Yellow)
	}
}
