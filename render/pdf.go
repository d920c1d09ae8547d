package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Layout in points on A4.
const (
	margin     = 40
	font       = "Helvetica"
	lineHeight = 12
	rowHeight  = 18
	boxHeight  = 40
	boxPadding = 5
	stampSize  = 80

	// Body text shrinks from maxBodySize down to minBodySize to fit.
	maxBodySize = 10
	minBodySize = 6

	// Space around each box for its numbered title and hint line.
	sectionGap = 4 + lineHeight + 2 + 2

	footerGap    = 30
	footerHeight = footerGap + lineHeight + 5 + stampSize
)

// truncated ends a body that was cut to fit the page.
const truncated = "[...]"

var (
	black     = [3]int{0, 0, 0}
	green     = [3]int{0x72, 0xbf, 0x6a}
	lightGrey = [3]int{0xf0, 0xf0, 0xf0}
	darkGrey  = [3]int{0x44, 0x44, 0x44}
)

// WritePDF writes the document as an A4 PDF with exactly one PDF page per
// page of the document.
func WritePDF(w io.Writer, doc *Document) error {
	if len(doc.Pages) == 0 {
		return errors.New("render: document has no pages")
	}
	pdf := layout(doc)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return pdf.Output(w)
}

func layout(doc *Document) *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(doc.Header.Title, true)
	pdf.SetCreator("kastelo.dev/internlog", false)

	for _, p := range doc.Pages {
		pdf.AddPage()
		drawPage(pdf, doc.Header, p)
	}
	return pdf
}

// winAnsi converts to the code page of the core fonts. Runes outside it
// become '?'.
func winAnsi(s string) string {
	s = norm.NFC.String(s)
	b := make([]byte, 0, len(s))
	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b = append(b, c)
		} else {
			b = append(b, '?')
		}
	}
	return string(b)
}

func drawPage(pdf *fpdf.Fpdf, hdr Header, p Page) {
	pageWidth, _ := pdf.GetPageSize()
	width := pageWidth - 2*margin

	drawHeader(pdf, hdr, width)

	pdf.SetFont(font, "B", 10)
	pdf.Write(lineHeight, winAnsi("Instructions: "))
	pdf.SetFont(font, "", 10)
	pdf.Write(lineHeight, winAnsi(p.Instructions))
	pdf.Ln(lineHeight + 8)

	sectionTitle(pdf, tableTitle)
	drawTable(pdf, p.Table, width)

	sectionTitle(pdf, reportTitle)
	pdf.SetFont(font, "", 9)
	pdf.CellFormat(width, lineHeight, winAnsi(reportNote), "", 1, "L", false, 0, "")

	_, pageHeight := pdf.GetPageSize()
	room := pageHeight - margin - footerHeight - pdf.GetY() - float64(len(p.Sections))*sectionGap
	fit := fitSections(pdf, p.Sections, width, room)

	for i, s := range p.Sections {
		pdf.Ln(4)
		pdf.SetFont(font, "B", 10)
		pdf.Write(lineHeight, winAnsi(fmt.Sprintf("%d. %s ", i+1, s.Title)))
		pdf.SetFont(font, "I", 9)
		setTextColor(pdf, darkGrey)
		pdf.Write(lineHeight, winAnsi(s.Hint))
		setTextColor(pdf, black)
		pdf.Ln(lineHeight + 2)
		drawBox(pdf, fit.bodies[i], fit.size, width)
	}

	drawFooter(pdf, p.Footer, width)
}

func drawHeader(pdf *fpdf.Fpdf, hdr Header, width float64) {
	pdf.SetFont(font, "B", 14)
	pdf.CellFormat(width, 18, winAnsi(hdr.Title), "", 1, "C", false, 0, "")
	pdf.SetFont(font, "B", 11)
	pdf.CellFormat(width, 14, winAnsi(hdr.Institution), "", 1, "C", false, 0, "")
	pdf.CellFormat(width, 14, winAnsi(hdr.Location), "", 1, "C", false, 0, "")
	pdf.SetFont(font, "I", 10)
	pdf.CellFormat(width, 14, winAnsi(hdr.Affiliation), "", 1, "C", false, 0, "")
	pdf.Ln(10)
}

func sectionTitle(pdf *fpdf.Fpdf, title string) {
	pdf.Ln(6)
	pdf.SetFont(font, "B", 11)
	pdf.CellFormat(0, 14, winAnsi(title), "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func drawTable(pdf *fpdf.Fpdf, rows []Row, width float64) {
	labelWidth := width * 0.3
	setDrawColor(pdf, black)
	setFillColor(pdf, lightGrey)
	for _, r := range rows {
		pdf.SetFont(font, "B", 10)
		pdf.CellFormat(labelWidth, rowHeight, winAnsi(r.Label), "1", 0, "L", true, 0, "")
		pdf.SetFont(font, "", 10)
		pdf.CellFormat(width-labelWidth, rowHeight, winAnsi(r.Value), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

// fitted is the wrapped text of each section body at a common font size.
type fitted struct {
	size   float64
	bodies [][]string
}

func bodyLineHeight(size float64) float64 {
	return size * lineHeight / maxBodySize
}

func boxFor(lines int, size float64) float64 {
	return max(float64(lines)*bodyLineHeight(size)+2*boxPadding, boxHeight)
}

// fitSections wraps the section bodies at the largest font size whose
// boxes fit in height. At minBodySize, bodies that still do not fit are
// cut and end with truncated.
func fitSections(pdf *fpdf.Fpdf, sections []Section, width, height float64) fitted {
	inner := width - 2*boxPadding - 2
	for size := float64(maxBodySize); ; size-- {
		pdf.SetFont(font, "", size)
		f := fitted{size: size}
		total := 0.0
		for _, s := range sections {
			lines := wrapText(pdf, winAnsi(s.Body), inner)
			f.bodies = append(f.bodies, lines)
			total += boxFor(len(lines), size)
		}
		if total <= height || size <= minBodySize {
			if total > height {
				clamp(f.bodies, size, height)
			}
			return f
		}
	}
}

// clamp cuts bodies so their boxes fit in height, leaving every later box
// at least its minimum height.
func clamp(bodies [][]string, size, height float64) {
	for i, lines := range bodies {
		reserve := float64(len(bodies)-i-1) * boxHeight
		keep := int((height - reserve - 2*boxPadding) / bodyLineHeight(size))
		keep = max(keep, 1)
		if len(lines) > keep {
			bodies[i] = append(lines[:keep-1:keep-1], truncated)
		}
		height -= boxFor(len(bodies[i]), size)
	}
}

// drawBox draws the lines inside a green box that is at least boxHeight
// tall and grows with the text.
func drawBox(pdf *fpdf.Fpdf, lines []string, size, width float64) {
	pdf.SetFont(font, "", size)
	inner := width - 2*boxPadding
	lh := bodyLineHeight(size)
	height := boxFor(len(lines), size)

	x, y := pdf.GetX(), pdf.GetY()
	setDrawColor(pdf, green)
	pdf.Rect(x, y, width, height, "D")
	setDrawColor(pdf, black)

	pdf.SetXY(x+boxPadding, y+boxPadding)
	for _, line := range lines {
		pdf.CellFormat(inner, lh, line, "", 2, "L", false, 0, "")
	}
	pdf.SetXY(x, y+height+2)
}

// wrapText breaks s into lines no wider than width in the current font.
// Words longer than a line are split between characters.
func wrapText(pdf *fpdf.Fpdf, s string, width float64) []string {
	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(s, "\r", ""), "\n") {
		var line string
		for _, word := range strings.Fields(para) {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if pdf.GetStringWidth(candidate) <= width {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			for pdf.GetStringWidth(word) > width {
				n := 1
				for n < len(word) && pdf.GetStringWidth(word[:n+1]) <= width {
					n++
				}
				lines = append(lines, word[:n])
				word = word[n:]
			}
			line = word
		}
		lines = append(lines, line)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func drawFooter(pdf *fpdf.Fpdf, f Footer, width float64) {
	top := pdf.GetY() + footerGap
	colWidth := width * 0.3

	if len(f.Signatories) > 0 {
		drawSignature(pdf, margin, top, colWidth, f.Signatories[0], f.Lines)
	}
	drawStamp(pdf, margin+(width-colWidth)/2, top, colWidth, f.Stamp)
	if len(f.Signatories) > 1 {
		drawSignature(pdf, margin+width-colWidth, top, colWidth, f.Signatories[1], f.Lines)
	}
	pdf.SetY(top + footerHeight - footerGap)
}

func drawSignature(pdf *fpdf.Fpdf, x, y, width float64, title string, lines []string) {
	pdf.SetXY(x, y)
	pdf.SetFont(font, "B", 10)
	pdf.CellFormat(width, lineHeight, winAnsi(title), "", 2, "L", false, 0, "")
	pdf.SetXY(x, pdf.GetY()+20)
	pdf.SetFont(font, "", 10)
	for i, line := range lines {
		if i > 0 {
			pdf.SetXY(x, pdf.GetY()+10)
		}
		pdf.CellFormat(width, lineHeight, winAnsi(line), "", 2, "L", false, 0, "")
	}
}

func drawStamp(pdf *fpdf.Fpdf, x, y, width float64, label string) {
	pdf.SetFont(font, "", 9)
	label = winAnsi(label)
	labelWidth := pdf.GetStringWidth(label) + 4
	center := x + width/2

	setDrawColor(pdf, green)
	pdf.SetXY(center-labelWidth/2, y)
	pdf.CellFormat(labelWidth, lineHeight, label, "1", 2, "C", false, 0, "")

	setDrawColor(pdf, black)
	pdf.RoundedRect(center-stampSize/2, y+lineHeight+5, stampSize, stampSize, 8, "1234", "D")
}

func setDrawColor(pdf *fpdf.Fpdf, c [3]int) {
	pdf.SetDrawColor(c[0], c[1], c[2])
}

func setFillColor(pdf *fpdf.Fpdf, c [3]int) {
	pdf.SetFillColor(c[0], c[1], c[2])
}

func setTextColor(pdf *fpdf.Fpdf, c [3]int) {
	pdf.SetTextColor(c[0], c[1], c[2])
}
