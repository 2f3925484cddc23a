// Package pdf renders a report summary into a paginated PDF document: a
// header, three summary cards, and a two-column chronological ledger of
// deposits and expenses.
//
// Rendering is a single sequential pass. All mutable layout state (vertical
// cursor, alternating-row flag) lives in an explicit layout context value
// threaded through the row-drawing steps, never in package state, so one
// Renderer can serve concurrent callers.
package pdf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"

	"hisab/internal/core"
	"hisab/internal/report"
)

// Page geometry in millimeters (A4 portrait).
const (
	margin      = 15.0
	lineHeight  = 5.0
	cardHeight  = 15.0
	headerRowH  = 7.0
	minRowH     = 10.0
	bottomLimit = 282.0 // page height 297 minus bottom margin
)

// Options configures a Renderer.
type Options struct {
	// FontRegular and FontBold are optional TTF payloads registered as a
	// UTF-8 font, required when descriptions or the currency sign fall
	// outside the built-in core font's glyph set (the deployed system ships
	// Noto Sans Bengali). When FontBold is nil the regular face doubles for
	// bold. Without any font the renderer uses Helvetica and an ASCII
	// currency marker.
	FontRegular []byte
	FontBold    []byte

	// Currency is the symbol prefixed to every amount. Defaults to the taka
	// sign when a UTF-8 font is supplied, "Tk " otherwise.
	Currency string
}

// Renderer produces PDF reports. The zero value is not usable; construct
// with NewRenderer.
type Renderer struct {
	opts     Options
	family   string
	currency string
}

func NewRenderer(opts Options) *Renderer {
	r := &Renderer{opts: opts, family: "Helvetica", currency: opts.Currency}
	if len(opts.FontRegular) > 0 {
		r.family = "ReportSans"
	}
	if r.currency == "" {
		if len(opts.FontRegular) > 0 {
			r.currency = "৳" // taka sign
		} else {
			r.currency = "Tk "
		}
	}
	return r
}

// layoutContext is the per-render mutable layout state. Row-drawing steps
// receive it by value and return the updated copy.
type layoutContext struct {
	y       float64
	greyRow bool
}

// Render lays out the summary into a complete document and returns its
// bytes. Any internal layout or font failure aborts rendering; there is no
// partial-document fallback.
func (r *Renderer) Render(sum report.Summary, generatedAt time.Time) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)

	if len(r.opts.FontRegular) > 0 {
		bold := r.opts.FontBold
		if bold == nil {
			bold = r.opts.FontRegular
		}
		if !isTrueType(r.opts.FontRegular) || !isTrueType(bold) {
			return nil, errors.New("register report font: payload is not a TrueType font")
		}
		doc.AddUTF8FontFromBytes(r.family, "", r.opts.FontRegular)
		doc.AddUTF8FontFromBytes(r.family, "B", bold)
	}
	if doc.Err() {
		return nil, fmt.Errorf("register report font: %w", doc.Error())
	}

	doc.AddPage()
	pageWidth, _ := doc.GetPageSize()
	tableWidth := pageWidth - 2*margin

	lc := layoutContext{y: margin}
	lc = r.drawHeader(doc, lc, sum.Meta, generatedAt)
	lc = r.drawSummaryCards(doc, lc, tableWidth, sum)
	r.drawLedger(doc, lc, pageWidth, sum)

	if doc.Err() {
		return nil, fmt.Errorf("render report: %w", doc.Error())
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawHeader(doc *fpdf.Fpdf, lc layoutContext, meta report.Meta, generatedAt time.Time) layoutContext {
	doc.SetFont(r.family, "", 22)
	doc.SetTextColor(0, 102, 204)
	doc.Text(margin, lc.y, "Dashboard Report")
	lc.y += 8

	doc.SetFontSize(10)
	doc.SetTextColor(150, 150, 150)
	doc.Text(margin, lc.y, "A summary of your financial activity.")
	lc.y += 10

	doc.SetTextColor(51, 51, 51)
	doc.Text(margin, lc.y, "Report generated on: "+generatedAt.UTC().Format("02 Jan 2006"))
	lc.y += 8

	if meta.StartDate != nil && meta.EndDate != nil {
		doc.Text(margin, lc.y, fmt.Sprintf("Date Range: %s - %s",
			meta.StartDate.UTC().Format("02 Jan 2006"),
			meta.EndDate.UTC().Format("02 Jan 2006")))
		lc.y += 10
	}
	lc.y += 10
	return lc
}

func (r *Renderer) drawSummaryCards(doc *fpdf.Fpdf, lc layoutContext, tableWidth float64, sum report.Summary) layoutContext {
	doc.SetFont(r.family, "B", 14)
	doc.SetTextColor(0, 0, 0)
	doc.Text(margin, lc.y, "Financial Summary")
	lc.y += 8

	doc.SetDrawColor(200, 200, 200)
	doc.Line(margin, lc.y, margin+tableWidth, lc.y)
	lc.y += 5

	cardWidth := tableWidth / 3
	const spacing = 5.0

	r.drawCard(doc, margin, lc.y, cardWidth-spacing,
		"+ "+r.amount(sum.TotalDeposits), "Total Deposits",
		rgb{240, 255, 240}, rgb{0, 150, 0})
	r.drawCard(doc, margin+cardWidth, lc.y, cardWidth-spacing,
		"- "+r.amount(sum.TotalExpenses), "Total Expenses",
		rgb{255, 240, 240}, rgb{200, 0, 0})
	r.drawCard(doc, margin+2*cardWidth, lc.y, cardWidth,
		r.amount(sum.Balance), "Current Balance",
		rgb{240, 240, 255}, rgb{0, 0, 200})

	lc.y += cardHeight + 10
	return lc
}

type rgb struct{ r, g, b int }

func (r *Renderer) drawCard(doc *fpdf.Fpdf, x, y, w float64, value, label string, fill, text rgb) {
	doc.SetFillColor(fill.r, fill.g, fill.b)
	doc.RoundedRect(x, y, w, cardHeight, 3, "1234", "F")

	doc.SetTextColor(text.r, text.g, text.b)
	doc.SetFont(r.family, "", 16)
	doc.Text(x+5, y+9, value)

	doc.SetFontSize(10)
	doc.SetTextColor(100, 100, 100)
	doc.Text(x+5, y+13, label)
}

// drawLedger renders the two-column chronological table. Deposits and
// expenses are grouped by the UTC calendar day of their business date; the
// row order is the ascending union of days present in either group.
func (r *Renderer) drawLedger(doc *fpdf.Fpdf, lc layoutContext, pageWidth float64, sum report.Summary) layoutContext {
	lc.y += 10
	doc.SetFont(r.family, "B", 14)
	doc.SetTextColor(0, 0, 0)
	doc.Text(margin, lc.y, "Detailed Transactions")
	lc.y += 8

	leftX := margin
	rightX := pageWidth / 2
	colWidth := pageWidth/2 - margin - 5

	lc = r.drawTableHeader(doc, lc, leftX, rightX, colWidth)

	byDay := map[int64]*dayEntry{}
	for _, d := range sum.Deposits {
		row := entry(byDay, d.Date)
		row.deposits = append(row.deposits, fmt.Sprintf("%s: %s", d.Description, r.amount(d.Amount)))
	}
	for _, e := range sum.Expenses {
		row := entry(byDay, e.Date)
		row.expenses = append(row.expenses, fmt.Sprintf("%s (%s)", e.Description, r.amount(e.Amount)))
	}
	days := make([]int64, 0, len(byDay))
	for k := range byDay {
		days = append(days, k)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	doc.SetFont(r.family, "", 10)
	for _, dayKey := range days {
		row := byDay[dayKey]

		depLines := splitLines(doc, row.deposits, colWidth-10)
		expLines := splitLines(doc, row.expenses, colWidth-10)
		rowHeight := maxf(float64(len(depLines))*lineHeight, float64(len(expLines))*lineHeight, minRowH)

		// Page break before the row if it would cross the bottom margin.
		if lc.y+rowHeight+lineHeight > bottomLimit {
			doc.AddPage()
			lc.y = margin
			lc.greyRow = false
			lc = r.drawTableHeader(doc, lc, leftX, rightX, colWidth)
			doc.SetFont(r.family, "", 10)
		}

		if lc.greyRow {
			doc.SetFillColor(245, 245, 245)
			doc.Rect(leftX, lc.y, colWidth, rowHeight+lineHeight, "F")
			doc.Rect(rightX, lc.y, colWidth, rowHeight+lineHeight, "F")
		}

		label := time.Unix(dayKey*86400, 0).UTC().Format("02 Jan 2006")
		doc.SetTextColor(0, 0, 0)
		doc.SetFont(r.family, "B", 10)
		doc.Text(leftX+5, lc.y+5, label)
		doc.Text(rightX+5, lc.y+5, label)
		doc.SetFont(r.family, "", 10)

		doc.SetTextColor(0, 150, 0)
		drawLines(doc, leftX+5, lc.y+10, depLines)
		doc.SetTextColor(200, 0, 0)
		drawLines(doc, rightX+5, lc.y+10, expLines)

		lc.y += rowHeight + 2*lineHeight
		lc.greyRow = !lc.greyRow
	}
	return lc
}

// drawTableHeader draws the two column titles; called at the start of the
// ledger and again after every page break.
func (r *Renderer) drawTableHeader(doc *fpdf.Fpdf, lc layoutContext, leftX, rightX, colWidth float64) layoutContext {
	doc.SetFont(r.family, "B", 12)
	doc.SetFillColor(230, 230, 230)
	doc.Rect(leftX, lc.y, colWidth, headerRowH, "F")
	doc.Rect(rightX, lc.y, colWidth, headerRowH, "F")
	doc.SetTextColor(51, 51, 51)
	doc.Text(leftX+5, lc.y+5, "Deposits")
	doc.Text(rightX+5, lc.y+5, "Expenses")
	lc.y += headerRowH
	return lc
}

func (r *Renderer) amount(m core.Money) string {
	return r.currency + m.String()
}

type dayEntry struct {
	deposits []string
	expenses []string
}

func entry(byDay map[int64]*dayEntry, date time.Time) *dayEntry {
	key := core.EpochDay(date)
	e, ok := byDay[key]
	if !ok {
		e = &dayEntry{}
		byDay[key] = e
	}
	return e
}

// splitLines wraps each item to the column width and flattens the result,
// so the row height can be measured before anything is drawn.
func splitLines(doc *fpdf.Fpdf, items []string, width float64) []string {
	var out []string
	for _, item := range items {
		out = append(out, doc.SplitText(item, width)...)
	}
	return out
}

func drawLines(doc *fpdf.Fpdf, x, y float64, lines []string) {
	for i, line := range lines {
		doc.Text(x, y+float64(i)*lineHeight, line)
	}
}

// isTrueType checks the sfnt version tag at the head of the payload.
func isTrueType(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	switch binary.BigEndian.Uint32(data) {
	case 0x00010000, 0x74727565: // TrueType outlines, 'true'
		return true
	}
	return false
}

func maxf(vals ...float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
