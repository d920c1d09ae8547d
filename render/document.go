// Package render lays a student's daily logs out as a printable document,
// one page per day.
package render

import (
	"dario.cat/mergo"
	"kastelo.dev/internlog"
)

type Document struct {
	Header Header
	Pages  []Page
}

type Header struct {
	Title       string
	Institution string
	Location    string
	Affiliation string
}

var DefaultHeader = Header{
	Title:       "MBA Internship: Daily Activity Log",
	Institution: "Balmiki Lincoln College",
	Location:    "Birtamode, Jhapa",
	Affiliation: "(Affiliated to Lincoln University, Malaysia)",
}

type Page struct {
	Instructions string
	Table        []Row
	Sections     []Section
	Footer       Footer
}

// Row is a label/value line of the student and placement table.
type Row struct {
	Label string
	Value string
}

// Section is a numbered free text box of the daily report.
type Section struct {
	Title string
	Hint  string
	Body  string
}

type Footer struct {
	Signatories []string
	Lines       []string
	Stamp       string
}

const (
	instructions = "Complete this log at the end of each workday and submit as required by your faculty advisor."
	tableTitle   = "SECTION 1: STUDENT & PLACEMENT"
	reportTitle  = "DAILY REPORT"
	reportNote   = "(Please provide details for each category for today's date.)"
	dateLabel    = "Date (YYYY-MM-DD):"
)

var footer = Footer{
	Signatories: []string{"On-Site Supervisor/ Manager", "Faculty Advisor"},
	Lines: []string{
		"Signature: ________________",
		"Name: ____________________",
		"Date: _____________________",
	},
	Stamp: "Official Stamp",
}

type Option func(*Document)

// WithHeader replaces the page header. Empty fields keep their default.
func WithHeader(h Header) Option {
	return func(doc *Document) {
		_ = mergo.Merge(&h, DefaultHeader)
		doc.Header = h
	}
}

// Render builds one page per log, in order. Values are copied as they are.
func Render(student internlog.StudentInfo, logs []internlog.DailyLog, opts ...Option) *Document {
	doc := &Document{Header: DefaultHeader}
	for _, opt := range opts {
		opt(doc)
	}

	doc.Pages = make([]Page, 0, len(logs))
	for _, log := range logs {
		doc.Pages = append(doc.Pages, page(student, log))
	}
	return doc
}

func page(student internlog.StudentInfo, log internlog.DailyLog) Page {
	table := make([]Row, 0, len(internlog.StudentFields)+1)
	for _, f := range internlog.StudentFields {
		table = append(table, Row{Label: f.Label + ":", Value: f.Value(student)})
	}
	table = append(table, Row{Label: dateLabel, Value: log.Date})

	return Page{
		Instructions: instructions,
		Table:        table,
		Sections: []Section{
			{"Primary Tasks & Activities Completed", "(List the main tasks you worked on.)", log.Tasks},
			{"Key Meetings & Interactions", "(Who did you meet with?)", log.Meetings},
			{"Accomplishments / Deliverables", "(What tangible outcomes did you produce?)", log.Accomplishments},
			{"Key Learning, Skills Used & Challenges", "(New skills, insights?)", log.Learnings},
			{"Plan for Tomorrow", "(List top 1-3 priorities.)", log.PlanForTomorrow},
		},
		Footer: footer,
	}
}

// Date is the value of the table's date row.
func (p Page) Date() string {
	for _, r := range p.Table {
		if r.Label == dateLabel {
			return r.Value
		}
	}
	return ""
}
