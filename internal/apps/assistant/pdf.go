package assistant

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/serenwell/backend/internal/apps/journal"
	"github.com/serenwell/backend/internal/apps/moods"
)

// Palette matching the product UI.
var (
	peachAccent = [3]int{246, 215, 195}
	sageAccent  = [3]int{207, 239, 230}
	textDark    = [3]int{30, 41, 59}
	textGray    = [3]int{100, 116, 139}
)

// GenerateReportPDF renders a stored report plus the user's three most
// recent moods and journals into a printable document.
func GenerateReportPDF(report *AiReport, recentMoods []moods.MoodEntry, recentJournals []journal.JournalEntry) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	addHeader(pdf, report)
	addMetadata(pdf, report)

	if len(recentMoods) > 0 {
		addMoodTable(pdf, recentMoods)
	}
	if len(recentJournals) > 0 {
		addJournalSection(pdf, recentJournals)
	}

	addContentSection(pdf, "AI Insights & Analysis", report.Content)
	addFooter(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func addHeader(pdf *gofpdf.Fpdf, report *AiReport) {
	pdf.SetFont("Times", "B", 24)
	pdf.SetTextColor(textDark[0], textDark[1], textDark[2])
	pdf.CellFormat(0, 12, "SerenWell Wellness Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "I", 12)
	pdf.SetTextColor(textGray[0], textGray[1], textGray[2])
	pdf.CellFormat(0, 8, strings.ToUpper(report.ReportType)+" REPORT", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	separator(pdf, peachAccent)
	pdf.Ln(6)
}

func addMetadata(pdf *gofpdf.Fpdf, report *AiReport) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(textGray[0], textGray[1], textGray[2])
	pdf.CellFormat(28, 6, "Generated On:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(textDark[0], textDark[1], textDark[2])
	pdf.CellFormat(0, 6, report.CreatedAt.Format("02 Jan 2006, 03:04 PM"), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(textGray[0], textGray[1], textGray[2])
	pdf.CellFormat(28, 6, "User ID:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(textDark[0], textDark[1], textDark[2])
	pdf.CellFormat(0, 6, report.UserID.String(), "", 1, "L", false, 0, "")
	pdf.Ln(6)
}

func addMoodTable(pdf *gofpdf.Fpdf, entries []moods.MoodEntry) {
	sectionHeading(pdf, "Recent Mood Entries (Last 3)", peachAccent)

	colWidths := []float64{38, 38, 32, 32, 32}
	headers := []string{"Date", "Mood", "Score", "Energy", "Stress"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFillColor(textDark[0], textDark[1], textDark[2])
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(textDark[0], textDark[1], textDark[2])
	for _, m := range entries {
		pdf.CellFormat(colWidths[0], 7, m.Timestamp.Format("Jan 02, 2006"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 7, moodLabel(m.MoodScore), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[2], 7, fmt.Sprintf("%d/10", m.MoodScore), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[3], 7, levelCell(m.EnergyLevel), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[4], 7, levelCell(m.StressLevel), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(6)
}

func addJournalSection(pdf *gofpdf.Fpdf, entries []journal.JournalEntry) {
	sectionHeading(pdf, "Recent Journal Entries (Last 3)", sageAccent)

	for i, j := range entries {
		if i > 0 {
			pdf.Ln(4)
		}

		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(textDark[0], textDark[1], textDark[2])
		pdf.MultiCell(0, 6, fmt.Sprintf("%d. %s", i+1, j.Title), "", "L", false)

		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(textGray[0], textGray[1], textGray[2])
		pdf.CellFormat(0, 5, j.CreatedAt.Format("Jan 02, 2006"), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(textDark[0], textDark[1], textDark[2])
		pdf.MultiCell(0, 5, excerpt(j.Content, 200), "", "L", false)

		if j.IsFavorite {
			pdf.SetFont("Helvetica", "B", 8)
			pdf.SetTextColor(255, 193, 7)
			pdf.CellFormat(0, 5, "* Favorite Entry", "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(6)
}

func addContentSection(pdf *gofpdf.Fpdf, title, content string) {
	sectionHeading(pdf, title, sageAccent)

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(textDark[0], textDark[1], textDark[2])
	pdf.MultiCell(0, 6, content, "", "J", false)
	pdf.Ln(6)
}

func addFooter(pdf *gofpdf.Fpdf) {
	pdf.Ln(4)
	separator(pdf, peachAccent)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(textGray[0], textGray[1], textGray[2])
	pdf.MultiCell(0, 4,
		"This report was generated by SerenWell AI and is for informational purposes only.\n"+
			"It does not constitute medical advice. Please consult with a healthcare professional for medical concerns.\n\n"+
			"Generated by SerenWell - Your Mental Wellness Companion",
		"", "C", false)
}

func sectionHeading(pdf *gofpdf.Fpdf, title string, accent [3]int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(textDark[0], textDark[1], textDark[2])
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	separator(pdf, accent)
	pdf.Ln(4)
}

func separator(pdf *gofpdf.Fpdf, color [3]int) {
	pdf.SetDrawColor(color[0], color[1], color[2])
	pdf.SetLineWidth(0.4)
	y := pdf.GetY()
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	pdf.Line(left, y, pageWidth-right, y)
}

// moodLabel maps a score to the display bucket used across the app.
func moodLabel(score int) string {
	switch {
	case score >= 8:
		return "Very Happy"
	case score >= 6:
		return "Happy"
	case score >= 4:
		return "Okay"
	case score >= 2:
		return "Sad"
	default:
		return "Very Sad"
	}
}

func levelCell(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d/10", *v)
}
