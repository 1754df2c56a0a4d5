package plot

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/cantuslab/cantus/internal/score"
)

// Supported figure formats. Retina is PNG rasterized at double scale.
const (
	FormatPNG    = "png"
	FormatRetina = "retina"
	FormatSVG    = "svg"
)

const (
	figureWidth  = 6 * vg.Inch
	figureHeight = 4 * vg.Inch

	// BaseDPI is the reference resolution; the configured DPI scales the
	// canvas relative to it.
	BaseDPI = 96
)

// Formats lists the supported figure formats.
func Formats() []string {
	return []string{FormatPNG, FormatRetina, FormatSVG}
}

// figure is a rendered image.
type figure struct {
	data   []byte
	format string
	mime   string
}

// histogram renders the distribution of a part's MIDI pitches.
func histogram(part *score.Part, bins int, format string, dpi int) (*figure, error) {
	pitches := part.MIDIPitches()
	if len(pitches) == 0 {
		return nil, fmt.Errorf("part has no notes")
	}
	if bins <= 0 {
		// One bin per semitone of ambitus, single bin for monotone parts.
		low, high := pitches[0], pitches[0]
		for _, v := range pitches {
			if v < low {
				low = v
			}
			if v > high {
				high = v
			}
		}
		bins = int(high-low) + 1
	}

	p := plot.New()
	p.Title.Text = "Pitch Distribution"
	p.X.Label.Text = "MIDI pitch"
	p.Y.Label.Text = "Count"

	h, err := plotter.NewHist(plotter.Values(pitches), bins)
	if err != nil {
		return nil, fmt.Errorf("build histogram: %w", err)
	}
	p.Add(h)

	return render(p, format, dpi)
}

// contour renders pitch against note index.
func contour(part *score.Part, format string, dpi int) (*figure, error) {
	notes := part.Notes()
	if len(notes) == 0 {
		return nil, fmt.Errorf("part has no notes")
	}

	points := make(plotter.XYs, len(notes))
	for i, n := range notes {
		points[i].X = float64(i)
		points[i].Y = float64(n.MIDI())
	}

	p := plot.New()
	p.Title.Text = "Melodic Contour"
	p.X.Label.Text = "Note index"
	p.Y.Label.Text = "MIDI pitch"

	line, err := plotter.NewLine(points)
	if err != nil {
		return nil, fmt.Errorf("build contour: %w", err)
	}
	p.Add(line)
	p.Add(plotter.NewGrid())

	return render(p, format, dpi)
}

// render rasterizes a plot into the requested format. The canvas is
// scaled by dpi relative to BaseDPI; retina doubles it on top of that.
func render(p *plot.Plot, format string, dpi int) (*figure, error) {
	if dpi <= 0 {
		dpi = BaseDPI
	}
	scale := vg.Length(dpi) / BaseDPI
	width, height := figureWidth*scale, figureHeight*scale
	target := format
	mime := "image/png"

	switch format {
	case FormatPNG:
	case FormatRetina:
		// Retina doubles the canvas, the writer stays PNG.
		width *= 2
		height *= 2
		target = FormatPNG
	case FormatSVG:
		mime = "image/svg+xml"
	default:
		return nil, fmt.Errorf("unsupported figure format: %q", format)
	}

	wt, err := p.WriterTo(width, height, target)
	if err != nil {
		return nil, fmt.Errorf("render figure: %w", err)
	}

	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write figure: %w", err)
	}

	return &figure{data: buf.Bytes(), format: format, mime: mime}, nil
}
