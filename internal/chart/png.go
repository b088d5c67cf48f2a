package chart

import (
	"errors"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Title is the heading of exported chart images.
const Title = "Equipment Type Distribution"

// PNGOptions controls the exported image. Zero fields take defaults.
type PNGOptions struct {
	Width    int
	Height   int
	BarWidth int
	Title    string
}

func (o PNGOptions) withDefaults() PNGOptions {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 480
	}
	if o.BarWidth <= 0 {
		o.BarWidth = 60
	}
	if o.Title == "" {
		o.Title = Title
	}
	return o
}

var barFill = drawing.ColorFromHex("36A2EB")

// RenderPNG writes s as a PNG bar chart to w.
func RenderPNG(s *Series, w io.Writer, opts PNGOptions) error {
	if s.Len() == 0 {
		return errors.New("no chart data to render")
	}
	opts = opts.withDefaults()

	bars := make([]gochart.Value, s.Len())
	for i, label := range s.Labels {
		bars[i] = gochart.Value{
			Label: label,
			Value: float64(s.Values[i]),
			Style: gochart.Style{
				FillColor:   barFill,
				StrokeColor: barFill,
				StrokeWidth: 1,
			},
		}
	}

	// All-zero distributions still need a non-empty range.
	top := float64(max(s.Max(), 1))

	bc := gochart.BarChart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		BarWidth:   opts.BarWidth,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: top},
		},
		Bars: bars,
	}
	return bc.Render(gochart.PNG, w)
}
