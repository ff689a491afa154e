// Package plot renders computed series for external consumption. The
// simulator hands over ordered (x, y) pairs and expects nothing back.
package plot

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

const (
	chartWidth  = 800
	chartHeight = 400
	margin      = 20
	axisWeight  = 2
)

var (
	background = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	axisColor  = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
	barColor   = color.NRGBA{R: 70, G: 130, B: 180, A: 255}
)

// RenderShape draws a bar chart of quantity against tick distance and
// saves it as an image at path. Values must be non-negative.
func RenderShape(path string, values []float64) error {
	if len(values) == 0 {
		return fmt.Errorf("plot: empty series")
	}

	maxVal := 0.0
	for i, v := range values {
		if v < 0 {
			return fmt.Errorf("plot: negative value %g at index %d", v, i)
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	canvas := imaging.New(chartWidth, chartHeight, background)

	plotW := chartWidth - 2*margin
	plotH := chartHeight - 2*margin
	barW := plotW / len(values)
	if barW < 1 {
		barW = 1
	}

	for i, v := range values {
		barH := int(v / maxVal * float64(plotH))
		if barH == 0 {
			continue
		}
		gap := barW - 1
		if gap < 1 {
			gap = 1
		}
		bar := imaging.New(gap, barH, barColor)
		x := margin + i*barW
		y := chartHeight - margin - barH
		canvas = imaging.Paste(canvas, bar, image.Pt(x, y))
	}

	// Baseline axis.
	axis := imaging.New(plotW, axisWeight, axisColor)
	canvas = imaging.Paste(canvas, axis, image.Pt(margin, chartHeight-margin))

	if err := imaging.Save(canvas, path); err != nil {
		return fmt.Errorf("plot: save %s: %w", path, err)
	}
	return nil
}
