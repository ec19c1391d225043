// Package chart renders the dashboard charts (makes bar, years line, makes pie)
// as SVG or PNG.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"ev-dashboard/internal/model"
	"ev-dashboard/internal/pipeline"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	// ErrNoData is returned instead of rendering a chart without buckets.
	ErrNoData = errors.New("no data to chart")
	// ErrUnknownKind is returned for a chart kind other than make, year or pie.
	ErrUnknownKind = errors.New("unknown chart kind")
	// ErrUnknownFormat is returned for an output format other than svg or png.
	ErrUnknownFormat = errors.New("unknown chart format")
)

// Kind selects which dashboard chart to draw.
type Kind string

const (
	KindMake Kind = "make"
	KindYear Kind = "year"
	KindPie  Kind = "pie"
)

// Kinds lists every chart kind.
var Kinds = []Kind{KindMake, KindYear, KindPie}

// Format is the image encoding.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// Palette cycles through the pie slices.
var Palette = []string{
	"FF6B6B", "FFD93D", "6BCB77", "4D96FF", "FF6F91",
	"845EC2", "FFC75F", "F9F871", "00C9A7", "0081CF",
}

// Options sizes the output.
type Options struct {
	Width  int
	Height int
	// TopN further limits the view's top makes in the make charts; the line
	// chart always shows every year.
	TopN int
}

// DefaultOptions match the dashboard layout.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 400, TopN: 10}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.TopN <= 0 {
		o.TopN = d.TopN
	}
	return o
}

// ParseKind validates a chart kind from a request path or flag.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindMake, KindYear, KindPie:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// ParseFormat validates an output format; empty means SVG.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "":
		return SVG, nil
	case SVG, PNG:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType is the MIME type for f.
func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() gochart.RendererProvider {
	if f == PNG {
		return gochart.PNG
	}
	return gochart.SVG
}

// Render draws the chart of the given kind from a dashboard view.
func Render(w io.Writer, kind Kind, format Format, v model.View, opts Options) error {
	opts = opts.withDefaults()
	switch kind {
	case KindMake:
		return Bar(w, format, pipeline.TopN(v.TopMakes, opts.TopN), opts)
	case KindYear:
		return Line(w, format, v.ByYear, opts)
	case KindPie:
		return Pie(w, format, pipeline.TopN(v.TopMakes, opts.TopN), opts)
	}
	return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// Bar renders registrations per make as vertical bars.
func Bar(w io.Writer, format Format, buckets []model.AggregateBucket, opts Options) error {
	if len(buckets) == 0 {
		return ErrNoData
	}
	opts = opts.withDefaults()

	bars := make([]gochart.Value, len(buckets))
	for i, b := range buckets {
		bars[i] = gochart.Value{Label: b.Name, Value: float64(b.Value)}
	}

	slot := (opts.Width - 80) / len(buckets)
	barWidth := int(math.Max(4, float64(slot)*0.6))

	bc := gochart.BarChart{
		Title:      "Top Companies by Registrations",
		Width:      opts.Width,
		Height:     opts.Height,
		BarWidth:   barWidth,
		BarSpacing: int(math.Max(2, float64(slot-barWidth))),
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: gochart.YAxis{
			Range:          &gochart.ContinuousRange{Min: 0, Max: ceiling(buckets)},
			ValueFormatter: intFormatter,
		},
		Bars: bars,
	}
	if err := bc.Render(format.provider(), w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

// Line renders registrations per model year; buckets must be in year order.
func Line(w io.Writer, format Format, buckets []model.AggregateBucket, opts Options) error {
	if len(buckets) == 0 {
		return ErrNoData
	}
	opts = opts.withDefaults()

	xs := make([]float64, 0, len(buckets))
	ys := make([]float64, 0, len(buckets))
	ticks := make([]gochart.Tick, 0, len(buckets))
	for _, b := range buckets {
		year, err := strconv.Atoi(b.Name)
		if err != nil {
			return fmt.Errorf("year bucket %q: %w", b.Name, err)
		}
		xs = append(xs, float64(year))
		ys = append(ys, float64(b.Value))
		ticks = append(ticks, gochart.Tick{Value: float64(year), Label: b.Name})
	}
	minX, maxX := xs[0], xs[len(xs)-1]
	if len(xs) == 1 {
		// a single point needs two X values to draw; the X range follows the
		// ticks, so they are padded with unlabeled ones
		xs = []float64{minX - 0.5, minX + 0.5}
		ys = []float64{ys[0], ys[0]}
		minX, maxX = minX-1, maxX+1
		ticks = []gochart.Tick{{Value: minX}, ticks[0], {Value: maxX}}
	}

	ch := gochart.Chart{
		Title:      "Registrations by Model Year",
		Width:      opts.Width,
		Height:     opts.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Name:  "Model Year",
			Range: &gochart.ContinuousRange{Min: minX, Max: maxX},
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Name:           "Vehicles",
			Range:          &gochart.ContinuousRange{Min: 0, Max: ceiling(buckets)},
			ValueFormatter: intFormatter,
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    "Registrations",
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: drawing.ColorFromHex(Palette[3]),
					StrokeWidth: 2,
					DotColor:    drawing.ColorFromHex(Palette[3]),
					DotWidth:    3,
				},
			},
		},
	}
	if err := ch.Render(format.provider(), w); err != nil {
		return fmt.Errorf("render line chart: %w", err)
	}
	return nil
}

// Pie renders the share of each make, colored from Palette.
func Pie(w io.Writer, format Format, buckets []model.AggregateBucket, opts Options) error {
	if len(buckets) == 0 {
		return ErrNoData
	}
	opts = opts.withDefaults()

	values := make([]gochart.Value, len(buckets))
	for i, b := range buckets {
		values[i] = gochart.Value{
			Label: b.Name,
			Value: float64(b.Value),
			Style: gochart.Style{
				FillColor:   drawing.ColorFromHex(Palette[i%len(Palette)]),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 1,
			},
		}
	}

	pc := gochart.PieChart{
		Title:  "Company Share",
		Width:  opts.Width,
		Height: opts.Height,
		Values: values,
	}
	if err := pc.Render(format.provider(), w); err != nil {
		return fmt.Errorf("render pie chart: %w", err)
	}
	return nil
}

// ceiling leaves headroom above the tallest bucket.
func ceiling(buckets []model.AggregateBucket) float64 {
	top := 0
	for _, b := range buckets {
		if b.Value > top {
			top = b.Value
		}
	}
	return math.Ceil(float64(top)*1.1) + 1
}

func intFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.Itoa(int(math.Round(f)))
	}
	return fmt.Sprintf("%v", v)
}
