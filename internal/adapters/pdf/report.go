// Package pdf renders a printable summary of one employee and the
// beneficiaries designated by that employee. The participation column is
// totalled so the operator can see at a glance whether it reaches 100%.
package pdf

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/csg33k/beneficiary-admin/internal/domain"
	"github.com/csg33k/beneficiary-admin/internal/forms"
)

// EmployeeReport writes a one-employee PDF to w.
func EmployeeReport(e domain.Employee, bens []domain.Beneficiary, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AliasNbPages("{nb}")
	pdf.SetTitle("Employee "+e.FullName(), true)
	pdf.AddPage()

	drawEmployee(pdf, e)
	drawBeneficiaries(pdf, bens)
	drawFooter(pdf, e)

	return pdf.Output(w)
}

func drawEmployee(pdf *fpdf.Fpdf, e domain.Employee) {
	pageW, _ := pdf.GetPageSize()
	marginL, marginT, marginR, _ := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	// ── Header bar ───────────────────────────────────────────────────────────
	pdf.SetFillColor(30, 30, 30)
	pdf.Rect(marginL, marginT, contentW, 10, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginL+2, marginT+1.5)
	pdf.CellFormat(contentW-4, 7, "EMPLOYEE BENEFICIARY REPORT", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 7, "Page "+fmt.Sprint(pdf.PageNo())+" of {nb}", "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	y := marginT + 13

	// ── Employee section ─────────────────────────────────────────────────────
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(contentW, 5.5, "EMPLOYEE INFORMATION", "LRT", 1, "L", true, 0, "")
	y += 5.5

	colHalf := contentW / 2
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(colHalf, 6.5, e.LastName+", "+e.FirstName, "L", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(colHalf, 6.5, fmt.Sprintf("Employee No. %d", e.EmployeeNumber), "R", 1, "R", false, 0, "")
	y += 6.5

	pairs := [][2]string{
		{"Nationality", e.Nationality},
		{"Birth date", displayDate(e.BirthDate)},
		{"CURP", e.CURP},
		{"SSN", formatSSN(e.SSN)},
		{"Phone", formatPhone(string(e.Phone))},
		{"Status", activeLabel(e.IsActive)},
	}
	pdf.SetFont("Helvetica", "", 9)
	for i := 0; i < len(pairs); i += 2 {
		pdf.SetXY(marginL, y)
		left, right := pairs[i], pairs[i+1]
		pdf.CellFormat(colHalf, 5.5, left[0]+": "+dash(left[1]), "L", 0, "L", false, 0, "")
		pdf.CellFormat(colHalf, 5.5, right[0]+": "+dash(right[1]), "R", 1, "L", false, 0, "")
		y += 5.5
	}
	// close employee box
	pdf.SetXY(marginL, y)
	pdf.CellFormat(contentW, 0, "", "LB", 1, "L", false, 0, "")
	pdf.SetY(y + 5)
}

func drawBeneficiaries(pdf *fpdf.Fpdf, bens []domain.Beneficiary) {
	pageW, _ := pdf.GetPageSize()
	marginL, _, marginR, _ := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	nameW := contentW * 0.34
	natW := contentW * 0.18
	dateW := contentW * 0.16
	phoneW := contentW * 0.17
	pctW := contentW - nameW - natW - dateW - phoneW

	// Table header
	pdf.SetFillColor(30, 30, 30)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 8.5)
	pdf.SetX(marginL)
	pdf.CellFormat(nameW, 7, "Beneficiary", "1", 0, "L", true, 0, "")
	pdf.CellFormat(natW, 7, "Nationality", "1", 0, "L", true, 0, "")
	pdf.CellFormat(dateW, 7, "Birth date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(phoneW, 7, "Phone", "1", 0, "C", true, 0, "")
	pdf.CellFormat(pctW, 7, "Participation", "1", 1, "R", true, 0, "")
	pdf.SetTextColor(0, 0, 0)

	if len(bens) == 0 {
		pdf.SetFont("Helvetica", "I", 8.5)
		pdf.SetX(marginL)
		pdf.CellFormat(contentW, 6.5, "No beneficiaries registered", "1", 1, "C", false, 0, "")
		return
	}

	total := decimal.Zero
	rowH := 6.5
	pdf.SetFont("Helvetica", "", 8.5)
	for i, b := range bens {
		// Alternating row background
		if i%2 == 0 {
			pdf.SetFillColor(250, 250, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetX(marginL)
		pdf.CellFormat(nameW, rowH, b.FullName(), "1", 0, "L", true, 0, "")
		pdf.CellFormat(natW, rowH, dash(b.Nationality), "1", 0, "L", true, 0, "")
		pdf.CellFormat(dateW, rowH, displayDate(b.BirthDate), "1", 0, "C", true, 0, "")
		pdf.CellFormat(phoneW, rowH, formatPhone(string(b.Phone)), "1", 0, "C", true, 0, "")
		pdf.CellFormat(pctW, rowH, b.ParticipationPercent.String()+"%", "1", 1, "R", true, 0, "")
		total = total.Add(b.ParticipationPercent.Decimal)
	}

	// Totals row, green when the shares add up to exactly 100.
	if total.Equal(decimal.NewFromInt(100)) {
		pdf.SetFillColor(220, 240, 220)
	} else {
		pdf.SetFillColor(245, 220, 220)
	}
	pdf.SetFont("Helvetica", "B", 8.5)
	pdf.SetX(marginL)
	pdf.CellFormat(contentW-pctW, rowH, "Total", "1", 0, "R", true, 0, "")
	pdf.CellFormat(pctW, rowH, total.StringFixed(2)+"%", "1", 1, "R", true, 0, "")
}

func drawFooter(pdf *fpdf.Fpdf, e domain.Employee) {
	pageW, pageH := pdf.GetPageSize()
	marginL, _, marginR, marginB := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	pdf.SetXY(marginL, pageH-marginB-6)
	pdf.SetFont("Helvetica", "I", 7.5)
	pdf.SetTextColor(130, 130, 130)
	pdf.CellFormat(contentW/2, 5, "Generated by Beneficiary Admin", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5, e.FullName()+" | "+time.Now().Format("2006-01-02 15:04"), "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func formatSSN(ssn string) string {
	digits := strings.ReplaceAll(ssn, "-", "")
	if len(digits) == 9 {
		return digits[:3] + "-" + digits[3:5] + "-" + digits[5:]
	}
	return ssn
}

func formatPhone(phone string) string {
	if len(phone) == 10 {
		return "(" + phone[:3] + ") " + phone[3:6] + "-" + phone[6:]
	}
	return phone
}

func displayDate(raw string) string {
	t := forms.ParseDate(raw)
	if t.IsZero() {
		return dash(raw)
	}
	return t.Format("Jan 2, 2006")
}

func activeLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
