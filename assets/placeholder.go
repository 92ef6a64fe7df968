package assets

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/milk9111/hedgehog/prefabs"
	"golang.org/x/image/colornames"
	"golang.org/x/image/vector"
)

// Placeholder draws stand-in sheets from the skin colors in skins.yaml so the
// game runs without any art on disk. Sheets have the declared frame size and
// frame count per kind.
type Placeholder struct {
	Spec *prefabs.SkinsSpec
}

func NewPlaceholder(spec *prefabs.SkinsSpec) *Placeholder {
	return &Placeholder{Spec: spec}
}

func (p *Placeholder) Load(ctx context.Context, key string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p == nil || p.Spec == nil {
		return nil, fmt.Errorf("assets: generate %s: %w", key, ErrNotFound)
	}
	if key == DataPointKey {
		return p.dataPoint(), nil
	}

	skinName, kind, ok := SplitSheetKey(key)
	if !ok {
		return nil, fmt.Errorf("assets: generate %s: %w", key, ErrNotFound)
	}
	skin, ok := p.Spec.Skin(string(skinName))
	if !ok {
		return nil, fmt.Errorf("assets: generate %s: %w", key, ErrNotFound)
	}
	frames := p.Spec.Frames[kind]
	if frames <= 0 {
		return nil, fmt.Errorf("assets: generate %s: %w", key, ErrNotFound)
	}
	return p.sheet(skin, kind, frames), nil
}

func (p *Placeholder) sheet(skin prefabs.SkinSpec, kind string, frames int) image.Image {
	fw, fh := p.Spec.FrameW, p.Spec.FrameH
	if fw <= 0 {
		fw = 80
	}
	if fh <= 0 {
		fh = 80
	}
	tint := colorOr(skin.Tint, colornames.Orange)
	accent := colorOr(skin.Accent, colornames.Midnightblue)

	dst := image.NewNRGBA(image.Rect(0, 0, fw*frames, fh))
	for i := 0; i < frames; i++ {
		frame := image.Rect(i*fw, 0, (i+1)*fw, fh)
		cx, cy := float32(fw)/2, float32(fh)/2+5
		rx, ry := float32(fw)*0.31, float32(fh)*0.36

		phase := 2 * math.Pi * float64(i) / float64(frames)
		switch kind {
		case SheetWalk:
			cy -= float32(2 * math.Abs(math.Sin(phase)))
		case SheetJump:
			stretch := float32(1 + 0.1*math.Sin(phase/2))
			rx /= stretch
			ry *= stretch
		case SheetFall:
			rx *= 1.06
			ry *= 0.94
		}

		spikes := vector.NewRasterizer(fw, fh)
		for s := 0; s < 7; s++ {
			a := math.Pi*0.9 + float64(s)*math.Pi*0.2
			base1 := a - 0.18
			base2 := a + 0.18
			spikes.MoveTo(cx+rx*float32(math.Cos(base1)), cy+ry*float32(math.Sin(base1)))
			spikes.LineTo(cx+1.35*rx*float32(math.Cos(a)), cy+1.3*ry*float32(math.Sin(a)))
			spikes.LineTo(cx+rx*float32(math.Cos(base2)), cy+ry*float32(math.Sin(base2)))
			spikes.ClosePath()
		}
		spikes.Draw(dst, frame, image.NewUniform(accent), image.Point{})

		body := vector.NewRasterizer(fw, fh)
		ellipse(body, cx, cy, rx, ry)
		body.Draw(dst, frame, image.NewUniform(tint), image.Point{})

		eye := vector.NewRasterizer(fw, fh)
		ellipse(eye, cx+rx*0.45, cy-ry*0.3, 5, 5)
		eye.Draw(dst, frame, image.NewUniform(colornames.White), image.Point{})

		pupil := vector.NewRasterizer(fw, fh)
		ellipse(pupil, cx+rx*0.5, cy-ry*0.3, 2, 2)
		pupil.Draw(dst, frame, image.NewUniform(colornames.Black), image.Point{})
	}
	return dst
}

func (p *Placeholder) dataPoint() image.Image {
	size := p.Spec.DataPoint.Size
	if size <= 0 {
		size = 128
	}
	fill := colorOr(p.Spec.DataPoint.Color, colornames.Gold)

	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), image.Transparent, image.Point{}, draw.Src)

	c := float32(size) / 2
	outer := vector.NewRasterizer(size, size)
	ellipse(outer, c, c, c-2, c-2)
	outer.Draw(dst, dst.Bounds(), image.NewUniform(fill), image.Point{})

	inner := vector.NewRasterizer(size, size)
	ellipse(inner, c, c, c*0.45, c*0.45)
	inner.Draw(dst, dst.Bounds(), image.NewUniform(colornames.White), image.Point{})
	return dst
}

func ellipse(r *vector.Rasterizer, cx, cy, rx, ry float32) {
	const segments = 32
	r.MoveTo(cx+rx, cy)
	for i := 1; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		r.LineTo(cx+rx*float32(math.Cos(a)), cy+ry*float32(math.Sin(a)))
	}
	r.ClosePath()
}

func colorOr(c *prefabs.YAMLColor, fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}
