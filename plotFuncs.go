package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"

	// Liberation fonts register automatically on import
	_ "gonum.org/v1/plot/font/liberation"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/bob-anderson-ok/IAMscattering/scattering"
)

func setPlotFonts(p *plot.Plot) {
	// Modify the font fields directly on existing styles
	p.Title.TextStyle.Font.Typeface = "Liberation"
	p.Title.TextStyle.Font.Variant = "Sans"
	p.Title.TextStyle.Font.Size = vg.Points(12)

	p.X.Label.TextStyle.Font.Typeface = "Liberation"
	p.X.Label.TextStyle.Font.Variant = "Sans"
	p.X.Label.TextStyle.Font.Size = vg.Points(12)

	p.Y.Label.TextStyle.Font.Typeface = "Liberation"
	p.Y.Label.TextStyle.Font.Variant = "Sans"
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)

	p.X.Tick.Label.Font.Typeface = "Liberation"
	p.X.Tick.Label.Font.Variant = "Sans"
	p.X.Tick.Label.Font.Size = vg.Points(10)

	p.Y.Tick.Label.Font.Typeface = "Liberation"
	p.Y.Tick.Label.Font.Variant = "Sans"
	p.Y.Tick.Label.Font.Size = vg.Points(10)
}

// curve pairs q with values in ascending q order.
func curve(q, values []float64) plotter.XYs {
	pts := make(plotter.XYs, len(q))
	for i := range q {
		pts[i].X = q[i]
		pts[i].Y = values[i]
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
	return pts
}

// makePatternPlot draws the elastic, inelastic and total curves of pattern p
// against q (in the units named by qUnits). ref, if not nil, is overlaid dashed.
func makePatternPlot(title, qUnits string, q []float64, p *scattering.Pattern, ref *scattering.ReferencePattern,
	wPx, hPx float64) (image.Image, error) {

	if len(q) == 0 {
		return nil, fmt.Errorf("nothing to plot")
	}

	pl := plot.New()
	setPlotFonts(pl)

	pl.Title.Text = title
	pl.X.Label.Text = fmt.Sprintf("q (%s)", qUnits)
	pl.Y.Label.Text = "intensity (electron units)"
	pl.Legend.Top = true

	qMin, qMax := floats.Min(q), floats.Max(q)
	if qMax > qMin {
		pl.X.Tick.Marker = StepTicks{Step: niceStep((qMax - qMin) / 10), Format: "%.4g"}
	}
	pl.Add(plotter.NewGrid()) // grid + ticks

	lines := []struct {
		name   string
		values []float64
		col    color.RGBA
	}{
		{"total", p.Total, color.RGBA{R: 0, G: 0, B: 0, A: 255}},
		{"elastic", p.Elastic, color.RGBA{R: 0, G: 0, B: 255, A: 255}},
		{"inelastic", p.Inelastic, color.RGBA{R: 0, G: 150, B: 0, A: 255}},
	}
	for _, l := range lines {
		line, err := plotter.NewLine(curve(q, l.values))
		if err != nil {
			return nil, err
		}
		line.Color = l.col
		line.Width = vg.Points(1.5)
		pl.Add(line)
		pl.Legend.Add(l.name, line)
	}

	if ref != nil {
		rline, err := plotter.NewLine(curve(ref.Q, ref.Total))
		if err != nil {
			return nil, err
		}
		rline.Dashes = []vg.Length{
			vg.Points(6), // dash length
			vg.Points(4), // gap length
		}
		rline.Color = color.RGBA{R: 255, G: 0, B: 0, A: 255} // red
		pl.Add(rline)
		pl.Legend.Add("reference", rline)
	}

	// Render into an in-memory image
	// Choose a "virtual" size in vg units and map to pixels via DPI.
	const dpi = 96
	width := vg.Length(wPx) * vg.Inch / dpi
	height := vg.Length(hPx) * vg.Inch / dpi

	c := vgimg.New(width, height)
	dc := draw.New(c)
	pl.Draw(dc)

	return c.Image(), nil
}

func savePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return png.Encode(f, img)
}

type StepTicks struct {
	Step   float64
	Format string
}

func (t StepTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	start := math.Ceil(min/t.Step) * t.Step
	for v := start; v <= max; v += t.Step {
		ticks = append(ticks, plot.Tick{
			Value: v,
			Label: fmt.Sprintf(t.Format, v),
		})
	}
	return ticks
}

// niceStep rounds raw up to 1, 2 or 5 times a power of ten.
func niceStep(raw float64) float64 {
	if raw <= 0 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch f := raw / mag; {
	case f <= 1:
		return mag
	case f <= 2:
		return 2 * mag
	case f <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}
