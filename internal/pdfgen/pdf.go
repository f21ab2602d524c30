package pdfgen

import (
	"bytes"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"pod-service/internal/domain"
)

// 文案沿用既有模板（丹麦语），布局不追求和旧版逐像素一致

const title = "POD - Leveringskvittering"

var statusLabels = map[domain.Status]string{
	domain.StatusPending:  "Afventer godkendelse",
	domain.StatusApproved: "Godkendt",
	domain.StatusRejected: "Afvist",
}

// Render 把单据当前状态渲染为 PDF 字节流
func Render(r *domain.PODRecord) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(30, 64, 175)
	pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 7, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 7, tr(value), "", "L", false)
	}

	row("Sags nr:", r.CaseNumber)
	row("Chauffør/Pakkemester:", r.DriverName)
	row("Formand:", r.ForemanName)
	row("Kunde:", r.CustomerName)
	row("Noter:", r.Notes)
	pdf.Ln(4)

	row("Status:", statusLabels[r.Status])
	if r.Status != domain.StatusPending {
		row("Godkendelsesnoter:", r.ApprovalNotes)
	}
	pdf.Ln(4)

	row("Billeder:", strings.Join(r.PhotoPaths, ", "))
	row("Signatur:", r.SignaturePath)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, tr("Genereret: "+time.Now().Format("02-01-2006 15:04")), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &domain.RenderError{Err: err}
	}
	return buf.Bytes(), nil
}

// Filename 下载用文件名，POD_<sagsnr>.pdf
func Filename(r *domain.PODRecord) string {
	return "POD_" + strings.ReplaceAll(r.CaseNumber, "/", "-") + ".pdf"
}
