package reporting

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/avelasq/wifisentry/internal/core/domain"
)

// ThreatReport bundles everything the PDF renders.
type ThreatReport struct {
	GeneratedAt time.Time
	Stats       domain.ThreatStats
	Threats     []domain.DetectedThreat
	Summaries   []domain.ScanSummary
}

// PDFExporter renders threat reports to PDF format
type PDFExporter struct{}

// NewPDFExporter creates a new PDF exporter instance
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Export generates a PDF document from a threat report.
func (e *PDFExporter) Export(report ThreatReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	e.addHeader(pdf, report)
	e.addStatistics(pdf, report)
	e.addThreatTable(pdf, report)
	e.addScanActivity(pdf, report)
	e.addFooter(pdf, report)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) addHeader(pdf *gofpdf.Fpdf, report ThreatReport) {
	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 15, "WiFi Threat Report", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(120, 120, 120)
	dateStr := fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("2006-01-02 15:04"))
	pdf.CellFormat(0, 6, dateStr, "", 1, "L", false, 0, "")
	pdf.Ln(8)
}

func (e *PDFExporter) addStatistics(pdf *gofpdf.Fpdf, report ThreatReport) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Threat Overview", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	stats := []struct {
		label string
		value string
		color []int
	}{
		{"Total Threats", fmt.Sprintf("%d", report.Stats.Total), []int{0, 102, 204}},
		{"Critical", fmt.Sprintf("%d", report.Stats.BySeverity[domain.SeverityCritical]), []int{220, 53, 69}},
		{"High", fmt.Sprintf("%d", report.Stats.BySeverity[domain.SeverityHigh]), []int{255, 149, 0}},
		{"Medium", fmt.Sprintf("%d", report.Stats.BySeverity[domain.SeverityMedium]), []int{255, 204, 0}},
	}

	colWidth := 85.0
	for i, stat := range stats {
		x := 20.0
		if i%2 == 1 {
			x = 105.0
		}
		pdf.SetXY(x, pdf.GetY())

		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(50, 7, stat.label+":", "", 0, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 11)
		pdf.SetTextColor(stat.color[0], stat.color[1], stat.color[2])
		pdf.CellFormat(colWidth-50, 7, stat.value, "", 0, "R", false, 0, "")

		if i%2 == 1 {
			pdf.Ln(7)
		}
	}
	pdf.Ln(10)
}

func (e *PDFExporter) addThreatTable(pdf *gofpdf.Fpdf, report ThreatReport) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Detected Threats", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(report.Threats) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 7, "No threats recorded", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(60, 60, 60)

	pdf.CellFormat(35, 8, "Type", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Severity", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, "Network", "1", 0, "L", true, 0, "")
	pdf.CellFormat(55, 8, "Details", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Time", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, threat := range report.Threats {
		if pdf.GetY() > 260 {
			pdf.AddPage()
		}

		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(35, 7, string(threat.Type), "1", 0, "L", false, 0, "")

		r, g, b := e.severityColor(threat.Severity)
		pdf.SetTextColor(r, g, b)
		pdf.CellFormat(20, 7, string(threat.Severity), "1", 0, "C", false, 0, "")

		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(35, 7, truncate(threat.Subject.DisplaySSID(), 20), "1", 0, "L", false, 0, "")
		pdf.CellFormat(55, 7, truncate(threat.Details, 38), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, threat.Timestamp.Format("15:04:05"), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(8)
}

func (e *PDFExporter) addScanActivity(pdf *gofpdf.Fpdf, report ThreatReport) {
	if len(report.Summaries) == 0 {
		return
	}
	if pdf.GetY() > 230 {
		pdf.AddPage()
	}

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Recent Scan Activity", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(60, 60, 60)

	pdf.CellFormat(40, 8, "Time", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Networks", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "Threats", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, "High Risk", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, "Evil Twins", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(60, 60, 60)
	for i, s := range report.Summaries {
		if i >= 20 {
			break
		}
		pdf.CellFormat(40, 7, s.Timestamp.Format("01-02 15:04:05"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", s.NetworkCount), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", s.ThreatCount), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%d", s.HighRisk), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%d", s.EvilTwins), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(8)
}

func (e *PDFExporter) severityColor(severity domain.Severity) (r, g, b int) {
	switch severity {
	case domain.SeverityCritical:
		return 220, 53, 69
	case domain.SeverityHigh:
		return 255, 149, 0
	default:
		return 255, 204, 0
	}
}

func (e *PDFExporter) addFooter(pdf *gofpdf.Fpdf, report ThreatReport) {
	pdf.SetY(-20)
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(3)

	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 5, "Generated by WifiSentry", "", 1, "C", false, 0, "")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
