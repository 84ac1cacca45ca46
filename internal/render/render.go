package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	windowWidth  = 1280
	windowHeight = 720
	windowTitle  = "particle life"
	targetFPS    = 60
)

// Run starts the window and main loop. Each frame it calls update (input and
// simulation tick), then clears the screen and calls draw. This keeps the
// window plumbing separate from simulation and HUD content.
func Run(update, draw func()) {
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(windowWidth, windowHeight, windowTitle)
	defer rl.CloseWindow()

	rl.SetTargetFPS(targetFPS)

	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		draw()
		rl.EndDrawing()
	}
}

// Renderer draws bodies as additively blended sprite billboards inside an
// orbital 3D camera. It consumes the current position buffer read-only, four
// floats per body (x, y, z, size); it feeds nothing back into the simulation.
type Renderer struct {
	Camera rl.Camera3D

	// Sprite texture upload needs a live GL context, so it is deferred to the
	// first Frame rather than done in New (which runs before InitWindow).
	sprite       rl.Texture2D
	spriteLoaded bool

	colors     []rl.Color
	colorTypes int // type count the palette was built for
}

// New returns a renderer with a perspective camera orbiting the unit cube the
// bodies start in. Camera: position (1.8, 1.4, 1.8), target (0.5, 0.5, 0.5),
// up +Y, fovy 45°.
func New() *Renderer {
	r := &Renderer{}
	r.Camera.Position = rl.NewVector3(1.8, 1.4, 1.8)
	r.Camera.Target = rl.NewVector3(0.5, 0.5, 0.5)
	r.Camera.Up = rl.NewVector3(0, 1, 0)
	r.Camera.Fovy = 45
	r.Camera.Projection = rl.CameraPerspective
	return r
}

// Update runs per-frame camera logic (slow orbit around the target, mouse
// wheel zoom via raylib's orbital mode). Call from the update phase, before
// drawing.
func (r *Renderer) Update() {
	rl.UpdateCamera(&r.Camera, rl.CameraOrbital)
}

// spriteWorldSize converts the position buffer's size lane (1.0 by default)
// into world units for the billboard quad.
const spriteWorldSize = 0.02

// Frame draws one billboard per body, tinted by type hue and blended
// additively so overlapping bodies glow. positions must hold four floats per
// body; the buffer is not retained after Frame returns.
func (r *Renderer) Frame(positions []float32, types []int32, typeCount int) {
	r.ensureSprite()
	r.ensurePalette(typeCount)

	rl.BeginMode3D(r.Camera)
	rl.DrawCubeWiresV(rl.NewVector3(0.5, 0.5, 0.5), rl.NewVector3(1, 1, 1), rl.DarkGray)

	rl.BeginBlendMode(rl.BlendAdditive)
	for i := 0; i < len(positions)/4 && i < len(types); i++ {
		base := i * 4
		center := rl.NewVector3(positions[base], positions[base+1], positions[base+2])
		size := positions[base+3] * spriteWorldSize
		rl.DrawBillboard(r.Camera, r.sprite, center, size, r.colors[types[i]])
	}
	rl.EndBlendMode()
	rl.EndMode3D()
}

// ensurePalette rebuilds the type color table when the type count changes.
// Hues are spread evenly around the wheel, one per type.
func (r *Renderer) ensurePalette(typeCount int) {
	if typeCount == r.colorTypes {
		return
	}
	r.colors = make([]rl.Color, typeCount)
	for t := 0; t < typeCount; t++ {
		hue := float32(t) / float32(typeCount) * 360
		r.colors[t] = rl.ColorFromHSV(hue, 0.8, 1)
	}
	r.colorTypes = typeCount
}
