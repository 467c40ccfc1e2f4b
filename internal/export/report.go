package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/CollagePack/internal/model"
)

// tileColor represents an RGB color for a placed image tile.
type tileColor struct {
	R, G, B int
}

// tileColors is the rotation of fill colors used in the layout diagram.
var tileColors = []tileColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// WriteReport generates a one-page PDF documenting the winning layout: a
// scaled diagram of the placed image rectangles, the layout statistics, and
// the search settings that produced it.
func WriteReport(path string, layout model.PackedLayout, settings model.SearchSettings, runID string) error {
	if layout.Empty() {
		return fmt.Errorf("no layout to report")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()

	renderLayoutDiagram(pdf, layout)
	renderSettingsSummary(pdf, settings)

	// Footer with run id
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	footer := fmt.Sprintf("Generated by CollagePack - run %s", runID)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, footer, "", 0, "C", false, 0, "")

	return pdf.OutputFileAndClose(path)
}

// renderLayoutDiagram draws the scaled layout with one colored rectangle per
// placed image.
func renderLayoutDiagram(pdf *fpdf.Fpdf, layout model.PackedLayout) {
	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Collage Layout (%d x %d px)", layout.Width, layout.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Images: %d | Free area: %.1f%% | Aspect ratio: %.3f",
		len(layout.Placements), layout.FreePercent(), layout.AspectRatio())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Scale the canvas into the drawing area
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	scaleX := drawWidth / float64(layout.Width)
	scaleY := drawHeight / float64(layout.Height)
	scale := math.Min(scaleX, scaleY)

	canvasW := float64(layout.Width) * scale
	canvasH := float64(layout.Height) * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Canvas background
	pdf.SetFillColor(245, 245, 245)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Placed image tiles
	for i, p := range layout.Placements {
		col := tileColors[i%len(tileColors)]
		px := offsetX + float64(p.Rect.X)*scale
		py := offsetY + float64(p.Rect.Y)*scale
		pw := float64(p.Rect.Width) * scale
		ph := float64(p.Rect.Height) * scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 10 && ph > 6 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)
			label := fmt.Sprintf("#%d", p.ImageID)
			labelW := pdf.GetStringWidth(label)
			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-2)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
		}
	}
}

// renderSettingsSummary prints the search parameters under the diagram.
func renderSettingsSummary(pdf *fpdf.Fpdf, settings model.SearchSettings) {
	y := pageHeight - marginBottom - statsHeight + 2

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(40, 5, "Search settings:", "", 0, "L", false, 0, "")
	y += 5

	var strategy string
	if settings.Mode == model.ModeRandom {
		strategy = fmt.Sprintf("random, %d trials", settings.NumTrials)
	} else {
		strategy = fmt.Sprintf("genetic, population %d, %d generations, crossover %.2f, mutation %.2f",
			settings.PopulationSize, settings.Generations, settings.CrossoverRate, settings.MutationRate)
	}

	lines := []string{
		fmt.Sprintf("Strategy: %s", strategy),
		fmt.Sprintf("Images per collage: %d-%d | Padding: %d px | Target aspect: %.2f | Seed: %d",
			settings.MinImages, settings.MaxImages, settings.Padding, settings.DesiredAspectRatio, settings.Seed),
	}

	pdf.SetFont("Helvetica", "", 8)
	for _, line := range lines {
		pdf.SetXY(marginLeft+2, y)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, line, "", 0, "L", false, 0, "")
		y += 4
	}
}

// labelFontSize returns an appropriate font size for a tile's dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
