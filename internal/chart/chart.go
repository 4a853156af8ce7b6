// Package chart turns a visible series window into a line chart. A Chart is
// a long-lived handle: Update swaps its data in place and Render draws the
// current data as PNG or SVG.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"FinAdventure/internal/model"
)

// Format is an image output format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// MaxXLabels caps the number of date labels on the X axis.
const MaxXLabels = 15

// Meta describes the series a chart shows.
type Meta struct {
	Symbol   string
	DataType string
}

// Title returns "<symbol> - <data type>".
func (m Meta) Title() string {
	return fmt.Sprintf("%s - %s", m.Symbol, m.DataType)
}

// Chart is a rendered-chart handle. Its data is replaced on every Update; the
// handle itself stays the same.
type Chart struct {
	ID       int
	Meta     Meta
	Labels   []string
	Values   []float64
	Radius   int
	Revision int
	Width    int
	Height   int
}

// Points returns the number of data points currently held.
func (c *Chart) Points() int { return len(c.Values) }

// Renderer creates chart handles and applies updates to them.
type Renderer struct {
	Width  int
	Height int
	Format Format

	mu      sync.Mutex
	created int
}

// NewRenderer creates a renderer producing images of the given size.
func NewRenderer(width, height int, format Format) *Renderer {
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 400
	}
	if format == "" {
		format = FormatPNG
	}
	return &Renderer{Width: width, Height: height, Format: format}
}

// Update replaces the data of c in place and returns it. A nil c creates a
// new handle.
func (r *Renderer) Update(c *Chart, labels []string, values []float64, meta Meta) *Chart {
	if c == nil {
		r.mu.Lock()
		r.created++
		id := r.created
		r.mu.Unlock()
		c = &Chart{ID: id, Width: r.Width, Height: r.Height}
	}
	c.Meta = meta
	c.Labels = append(c.Labels[:0], labels...)
	c.Values = append(c.Values[:0], values...)
	c.Radius = PointRadius(len(values))
	c.Revision++
	return c
}

// Created returns how many chart handles this renderer has created.
func (r *Renderer) Created() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.created
}

// Render draws c to w in the renderer's format.
func (r *Renderer) Render(c *Chart, w io.Writer) error {
	return c.Render(w, r.Format)
}

// WriteFile renders c to a temp file next to path and renames it into place,
// so readers never see a partial image.
func (r *Renderer) WriteFile(c *Chart, path string) error {
	if c == nil {
		return errors.New("no chart to render")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".chart-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := r.Render(c, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// Render draws the chart. A chart with no points returns model.ErrNoData.
func (c *Chart) Render(w io.Writer, format Format) error {
	if len(c.Values) == 0 {
		return model.ErrNoData
	}
	provider := gochart.PNG
	switch format {
	case FormatPNG, "":
	case FormatSVG:
		provider = gochart.SVG
	default:
		return fmt.Errorf("render chart: unknown format %q", format)
	}

	ch := c.build()
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func (c *Chart) build() gochart.Chart {
	n := len(c.Values)
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	ys := append([]float64{}, c.Values...)
	// go-chart needs at least two X values.
	if n == 1 {
		xs = []float64{0, 1}
		ys = []float64{ys[0], ys[0]}
	}

	style := gochart.Style{
		StrokeColor: drawing.ColorFromHex("4bc0c0"),
		StrokeWidth: 2,
		DotWidth:    float64(c.Radius),
		DotColor:    drawing.ColorFromHex("4bc0c0"),
	}
	if n == 1 {
		style.DotWidth = float64(DefaultRadius) * 2
	}

	minY, maxY := ys[0], ys[0]
	for _, v := range ys {
		minY = math.Min(minY, v)
		maxY = math.Max(maxY, v)
	}
	if minY == maxY {
		pad := math.Max(math.Abs(minY)*0.05, 1)
		minY, maxY = minY-pad, maxY+pad
	}

	return gochart.Chart{
		Title:      c.Meta.Title(),
		Width:      c.Width,
		Height:     c.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 12, Bottom: 48}},
		XAxis: gochart.XAxis{
			Name:  "Date",
			Range: &gochart.ContinuousRange{Min: xs[0], Max: xs[len(xs)-1]},
			Ticks: xTicks(c.Labels),
		},
		YAxis: gochart.YAxis{
			Name:  "Value",
			Range: &gochart.ContinuousRange{Min: minY, Max: maxY},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return FormatCurrency(f)
				}
				return fmt.Sprint(v)
			},
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    c.Meta.Title(),
				XValues: xs,
				YValues: ys,
				Style:   style,
			},
		},
	}
}

// xTicks spreads at most MaxXLabels date labels evenly over the points.
func xTicks(labels []string) []gochart.Tick {
	n := len(labels)
	if n == 0 {
		return nil
	}
	step := (n + MaxXLabels - 1) / MaxXLabels
	ticks := make([]gochart.Tick, 0, MaxXLabels)
	for i := 0; i < n; i += step {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: labels[i]})
	}
	return ticks
}
