package render

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Sprite generation parameters: a white disc with a radial alpha falloff,
// gaussian-blurred so billboards blend into soft glows under additive mode.
const (
	spritePixels     = 64
	spriteBlurRadius = 3.0
)

// ensureSprite builds and uploads the sprite texture on first use. Must run
// after the window exists; Frame is the first caller, which is late enough.
func (r *Renderer) ensureSprite() {
	if r.spriteLoaded {
		return
	}

	img := image.NewRGBA(image.Rect(0, 0, spritePixels, spritePixels))
	c := float64(spritePixels-1) / 2
	for y := 0; y < spritePixels; y++ {
		for x := 0; x < spritePixels; x++ {
			d := math.Hypot(float64(x)-c, float64(y)-c) / c
			if d > 1 {
				d = 1
			}
			a := 1 - d*d // quadratic falloff, bright core
			img.SetRGBA(x, y, color.RGBA{255, 255, 255, uint8(a * 255)})
		}
	}
	soft := blur.Gaussian(img, spriteBlurRadius)

	rlImg := rl.NewImageFromImage(soft)
	r.sprite = rl.LoadTextureFromImage(rlImg)
	rl.UnloadImage(rlImg)
	rl.SetTextureFilter(r.sprite, rl.FilterBilinear)
	r.spriteLoaded = true
}
