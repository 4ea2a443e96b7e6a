package chart

import (
	"bytes"
	"context"
	"fmt"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	defaultWidth       = 1000
	defaultHeight      = 500
	defaultLabelGutter = 150
	defaultFontSize    = 11.0
	titleFontSize      = 14.0

	minWidth  = 300
	minHeight = 200

	titleBand  = 50
	axisBand   = 64
	rightPad   = 30
	barFill    = 0.8
	tickStep   = 20
	axisMax    = 100.0
	tickLength = 5
)

var (
	axisColor = drawing.Color{R: 0, G: 0, B: 0, A: 255}
	gridColor = drawing.Color{R: 230, G: 230, B: 230, A: 255}
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize overrides the image size in pixels. Values below the minimum are
// ignored.
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width >= minWidth {
			r.width = width
		}
		if height >= minHeight {
			r.height = height
		}
	}
}

// WithPalette overrides bucket colours; empty slots keep the defaults.
func WithPalette(p Palette) Option {
	return func(r *Renderer) {
		r.palette = p.Merge(DefaultPalette())
	}
}

// Renderer rasterises a Chart into a PNG.
type Renderer struct {
	width       int
	height      int
	dpi         float64
	labelGutter int
	fontSize    float64
	palette     Palette
}

// NewRenderer returns a renderer with defaults plus overrides.
func NewRenderer(options ...Option) *Renderer {
	r := &Renderer{
		width:       defaultWidth,
		height:      defaultHeight,
		dpi:         gochart.DefaultDPI,
		labelGutter: defaultLabelGutter,
		fontSize:    defaultFontSize,
		palette:     DefaultPalette(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.labelGutter > r.width/2 {
		r.labelGutter = r.width / 2
	}
	return r
}

// Palette returns the renderer palette.
func (r *Renderer) Palette() Palette {
	return r.palette
}

// Size returns the image dimensions.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// PNG draws c and returns the encoded image. An empty chart still produces a
// valid image carrying the title and axis.
func (r *Renderer) PNG(ctx context.Context, c Chart) ([]byte, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	colors, err := r.palette.colors()
	if err != nil {
		return nil, err
	}
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("chart: load font: %w", err)
	}
	canvas, err := gochart.PNG(r.width, r.height)
	if err != nil {
		return nil, fmt.Errorf("chart: create canvas: %w", err)
	}
	canvas.SetDPI(r.dpi)

	text := gochart.Style{Font: font, FontSize: r.fontSize, FontColor: axisColor}
	plot := r.plotArea()

	gochart.Draw.Box(canvas, gochart.Box{Top: 0, Left: 0, Right: r.width, Bottom: r.height}, gochart.Style{
		FillColor:   gochart.ColorWhite,
		StrokeColor: gochart.ColorWhite,
		StrokeWidth: 1,
	})

	r.drawTitle(canvas, c.Title, gochart.Style{Font: font, FontSize: titleFontSize, FontColor: axisColor})
	r.drawTicks(canvas, plot, text)

	for i, box := range r.barBoxes(c.Bars) {
		bar := c.Bars[i]
		fill, ok := colors[bar.Bucket]
		if !ok {
			fill = colors[BucketLow]
		}
		if box.Right > box.Left {
			gochart.Draw.Box(canvas, box, gochart.Style{
				FillColor:   fill,
				StrokeColor: fill,
				StrokeWidth: 1,
			})
		}

		size := gochart.Draw.MeasureText(canvas, bar.Label, text)
		x := plot.Left - tickLength - 4 - size.Width()
		y := box.Top + box.Height()/2 + size.Height()/2
		gochart.Draw.Text(canvas, bar.Label, x, y, text)
	}

	r.drawAxes(canvas, plot)

	if c.XLabel != "" {
		size := gochart.Draw.MeasureText(canvas, c.XLabel, text)
		x := plot.Left + plot.Width()/2 - size.Width()/2
		gochart.Draw.Text(canvas, c.XLabel, x, r.height-12, text)
	}

	var buf bytes.Buffer
	if err := canvas.Save(&buf); err != nil {
		return nil, fmt.Errorf("chart: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) plotArea() gochart.Box {
	return gochart.Box{
		Top:    titleBand,
		Left:   r.labelGutter,
		Right:  r.width - rightPad,
		Bottom: r.height - axisBand,
	}
}

// barBoxes lays bars out top to bottom in input order on a fixed 0..100 axis.
func (r *Renderer) barBoxes(bars []Bar) []gochart.Box {
	if len(bars) == 0 {
		return nil
	}
	plot := r.plotArea()
	band := float64(plot.Height()) / float64(len(bars))
	thickness := band * barFill

	out := make([]gochart.Box, 0, len(bars))
	for i, bar := range bars {
		top := float64(plot.Top) + float64(i)*band + (band-thickness)/2
		value := math.Max(0, math.Min(axisMax, bar.Value))
		length := value / axisMax * float64(plot.Width())
		out = append(out, gochart.Box{
			Top:    int(math.Round(top)),
			Bottom: int(math.Round(top + thickness)),
			Left:   plot.Left,
			Right:  plot.Left + int(math.Round(length)),
		})
	}
	return out
}

func (r *Renderer) drawTitle(canvas gochart.Renderer, title string, style gochart.Style) {
	if title == "" {
		return
	}
	size := gochart.Draw.MeasureText(canvas, title, style)
	x := r.width/2 - size.Width()/2
	y := titleBand/2 + size.Height()/2
	gochart.Draw.Text(canvas, title, x, y, style)
}

func (r *Renderer) drawTicks(canvas gochart.Renderer, plot gochart.Box, text gochart.Style) {
	for v := 0; v <= int(axisMax); v += tickStep {
		x := plot.Left + int(math.Round(float64(v)/axisMax*float64(plot.Width())))
		if v > 0 {
			line(canvas, x, plot.Top, x, plot.Bottom, gridColor)
		}
		line(canvas, x, plot.Bottom, x, plot.Bottom+tickLength, axisColor)

		label := fmt.Sprintf("%d", v)
		size := gochart.Draw.MeasureText(canvas, label, text)
		gochart.Draw.Text(canvas, label, x-size.Width()/2, plot.Bottom+tickLength+4+size.Height(), text)
	}
}

func (r *Renderer) drawAxes(canvas gochart.Renderer, plot gochart.Box) {
	line(canvas, plot.Left, plot.Top, plot.Left, plot.Bottom, axisColor)
	line(canvas, plot.Left, plot.Bottom, plot.Right, plot.Bottom, axisColor)
}

func line(canvas gochart.Renderer, x0, y0, x1, y1 int, c drawing.Color) {
	gochart.Style{StrokeColor: c, StrokeWidth: 1}.WriteDrawingOptionsToRenderer(canvas)
	defer canvas.ResetStyle()

	canvas.MoveTo(x0, y0)
	canvas.LineTo(x1, y1)
	canvas.Stroke()
}
