package main

import (
	"flag"
	"log"

	rl "github.com/gen2brain/raylib-go/raylib"

	"particle-life/internal/app"
	"particle-life/internal/hud"
	"particle-life/internal/logger"
	"particle-life/internal/preset"
	"particle-life/internal/render"
)

// Keys: Space pause/resume, R reset (new positions and matrix), [ and ]
// halve/double the step batch size without touching body state.
func main() {
	presetPath := flag.String("preset", "preset.yaml", "YAML run preset; a missing file means defaults")
	flag.Parse()

	cfg, err := preset.Load(*presetPath)
	if err != nil {
		log.Fatal(err)
	}

	runLog := logger.New(logger.DefaultPath)
	a := app.New(cfg, runLog)
	if err := a.Reset(); err != nil {
		log.Fatal(err)
	}

	rdr := render.New()
	overlay := hud.New()

	update := func() {
		handleInput(a)
		rdr.Update()
		if err := a.Tick(); err != nil {
			runLog.Logf("tick: %v", err)
		}
	}
	draw := func() {
		a.Frame(rdr)
		overlay.Draw(hud.Stats{
			Bodies:    a.Bodies(),
			Types:     typeCount(a),
			BatchSize: a.BatchSize(),
			Paused:    a.Paused(),
			StepTime:  a.StepTime(),
		})
	}
	render.Run(update, draw)
}

func handleInput(a *app.App) {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		_ = a.Reset()
	}
	if rl.IsKeyPressed(rl.KeyLeftBracket) {
		if b := a.BatchSize() / 2; b >= 1 {
			_ = a.SetBatchSize(b)
		}
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) {
		_ = a.SetBatchSize(a.BatchSize() * 2)
	}
}

func typeCount(a *app.App) int {
	if a.Store() == nil {
		return 0
	}
	return a.Store().TypeCount()
}
