package internlog

import (
	"fmt"
	"io"
	"strings"
)

// Positions in the template. Sheets are found by index, not by name.
const (
	studentSheet = 0
	logsSheet    = 1
	firstLogRow  = 4

	// TemplateMarker starts the prompt row of the template, which is not a log.
	TemplateMarker = "Add your own"
)

// studentRows maps each student info field to its 0-based row; values are
// in column 1.
var studentRows = struct {
	name, lc, host, department, supervisor int
}{3, 4, 5, 6, 7}

func ParseReader(r io.Reader) (*Workbook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading workbook: %w", err)
	}
	return Parse(data)
}

// Parse reads a filled-in template. Any failure to read the two sheets is
// reported as a *ParseError; field presence is checked by Validate.
func Parse(data []byte) (*Workbook, error) {
	b, err := readBook(data, 2)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	if len(b.sheets) < 2 {
		return nil, &ParseError{Err: fmt.Errorf("expected two sheets, found %d", len(b.sheets))}
	}

	info := b.sheets[studentSheet]
	wb := Workbook{
		Student: StudentInfo{
			StudentName:      studentValue(info.at(studentRows.name, 1)),
			LCNumber:         studentValue(info.at(studentRows.lc, 1)),
			HostOrganization: studentValue(info.at(studentRows.host, 1)),
			Department:       studentValue(info.at(studentRows.department, 1)),
			OnSiteSupervisor: studentValue(info.at(studentRows.supervisor, 1)),
		},
	}

	logs := b.sheets[logsSheet]
	for i := firstLogRow; i < len(logs); i++ {
		r := logs[i]
		date := r.at(0)
		if date.blank() || strings.Contains(date.text, TemplateMarker) {
			continue
		}
		wb.Logs = append(wb.Logs, DailyLog{
			Date:            normalizeDate(date, b.date1904),
			Tasks:           r.at(1).text,
			Meetings:        r.at(2).text,
			Accomplishments: r.at(3).text,
			Learnings:       r.at(4).text,
			PlanForTomorrow: r.at(5).text,
		})
	}

	return &wb, nil
}

// studentValue is the text of a student info cell. A numeric zero counts
// as missing there; log columns keep it as written.
func studentValue(c cell) string {
	if c.isNumber && c.number == 0 {
		return ""
	}
	return c.text
}
