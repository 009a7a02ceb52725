package raster

import (
	"bytes"
	"context"
	"fmt"
	stdimage "image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/DMarby/placeholder/internal/image"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const jpegQuality = 90

// Renderer draws placeholder images: a solid background with the dimensions written in the middle
type Renderer struct {
	Face       font.Face
	Background color.Color
	Foreground color.Color
}

// NewRenderer returns a renderer drawing white text on black
func NewRenderer() *Renderer {
	return &Renderer{
		Face:       basicfont.Face7x13,
		Background: color.Black,
		Foreground: color.White,
	}
}

// Render draws and encodes the image for a task
func (r *Renderer) Render(ctx context.Context, task *image.Task) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if task.Width < 1 || task.Height < 1 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", task.Width, task.Height)
	}

	canvas := stdimage.NewRGBA(stdimage.Rect(0, 0, task.Width, task.Height))
	draw.Draw(canvas, canvas.Bounds(), stdimage.NewUniform(r.Background), stdimage.Point{}, draw.Src)

	r.drawLabel(canvas, task.Label())

	return encode(canvas, task.Format)
}

// drawLabel centers the label on the canvas.
// The label is left out entirely when its bounding box doesn't fit strictly inside the canvas.
func (r *Renderer) drawLabel(canvas *stdimage.RGBA, label string) bool {
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  stdimage.NewUniform(r.Foreground),
		Face: r.Face,
	}

	metrics := r.Face.Metrics()
	textWidth := drawer.MeasureString(label).Ceil()
	textHeight := (metrics.Ascent + metrics.Descent).Ceil()

	width, height := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	if textWidth >= width || textHeight >= height {
		return false
	}

	left := (width - textWidth) / 2
	top := (height - textHeight) / 2

	// The dot sits on the baseline
	drawer.Dot = fixed.Point26_6{
		X: fixed.I(left),
		Y: fixed.I(top) + metrics.Ascent,
	}
	drawer.DrawString(label)

	return true
}

func encode(img stdimage.Image, format image.OutputFormat) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case image.JPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	case image.GIF:
		err = gif.Encode(&buf, img, nil)
	default:
		err = png.Encode(&buf, img)
	}

	if err != nil {
		return nil, fmt.Errorf("error encoding %s: %w", format, err)
	}

	return buf.Bytes(), nil
}
