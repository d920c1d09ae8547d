package internlog // import "kastelo.dev/internlog"

import (
	"fmt"
	"strings"
)

type StudentInfo struct {
	StudentName      string
	LCNumber         string
	HostOrganization string
	Department       string
	OnSiteSupervisor string
}

// DailyLog is one working day. Date is normally YYYY-MM-DD but carries the
// spreadsheet text verbatim when it could not be read as a date.
type DailyLog struct {
	Date            string
	Tasks           string
	Meetings        string
	Accomplishments string
	Learnings       string
	PlanForTomorrow string
}

type Workbook struct {
	Student StudentInfo
	Logs    []DailyLog
}

// Field names one student info value, in sheet order.
type Field struct {
	Label string
	Value func(StudentInfo) string
}

var StudentFields = []Field{
	{"Student Name", func(s StudentInfo) string { return s.StudentName }},
	{"LC Number", func(s StudentInfo) string { return s.LCNumber }},
	{"Host Organization", func(s StudentInfo) string { return s.HostOrganization }},
	{"Department", func(s StudentInfo) string { return s.Department }},
	{"On-Site Supervisor", func(s StudentInfo) string { return s.OnSiteSupervisor }},
}

// String renders the workbook as plain text, one value per line.
func (wb *Workbook) String() string {
	var b strings.Builder
	for _, f := range StudentFields {
		fmt.Fprintf(&b, "%s: %s\n", f.Label, f.Value(wb.Student))
	}
	for i, log := range wb.Logs {
		fmt.Fprintf(&b, "\n[%d] %s\n", i+1, log.Date)
		fmt.Fprintf(&b, "Tasks: %s\n", log.Tasks)
		fmt.Fprintf(&b, "Meetings: %s\n", log.Meetings)
		fmt.Fprintf(&b, "Accomplishments: %s\n", log.Accomplishments)
		fmt.Fprintf(&b, "Learnings: %s\n", log.Learnings)
		fmt.Fprintf(&b, "Plan for tomorrow: %s\n", log.PlanForTomorrow)
	}
	return b.String()
}
