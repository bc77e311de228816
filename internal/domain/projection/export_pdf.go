package projection

import (
	"fmt"
	"io"

	"TripGenie-App/internal/domain/model"

	"github.com/phpdave11/gofpdf"
)

// 列幅（mm, A4横）
var pdfColumnWidths = []float64{18, 50, 60, 95, 25, 29}

// WritePDF はエクスポート表をPDFで書き出す
// 標準フォントはLatin-1のみ対応のため、表現できない文字は置き換えられる
func WritePDF(w io.Writer, plan *model.TripPlan) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	title := "TripGenie Plan"
	if plan != nil && plan.Summary != "" {
		title = plan.Summary
	}
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 12, tr(title), "", 1, "L", false, 0, "")
	if plan != nil && plan.EstimatedBudget != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 8, tr("Estimated budget: "+plan.EstimatedBudget), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(238, 242, 255)
	for i, h := range ExportHeader {
		pdf.CellFormat(pdfColumnWidths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range ExportRows(plan) {
		for i, cell := range row {
			pdf.CellFormat(pdfColumnWidths[i], 7, tr(truncateCell(cell, pdfColumnWidths[i])), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("PDFの出力に失敗: %w", err)
	}
	return nil
}

// truncateCell はセル幅に収まらない文字列を切り詰める（9ptで約2mm/文字）
func truncateCell(s string, width float64) string {
	limit := int(width / 1.9)
	runes := []rune(s)
	if len(runes) <= limit || limit < 4 {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
