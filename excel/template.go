package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"kastelo.dev/internlog"
)

const (
	StudentSheet = "Student Info"
	LogsSheet    = "Daily Logs"

	PromptRow = internlog.TemplateMarker + " entries here..."
)

var LogColumns = []string{
	"Date (YYYY-MM-DD)",
	"Primary Tasks & Activities",
	"Key Meetings & Interactions",
	"Accomplishments / Deliverables",
	"Key Learning, Skills & Challenges",
	"Plan for Tomorrow",
}

var ExampleStudent = internlog.StudentInfo{
	StudentName:      "John Doe",
	LCNumber:         "LC-2024-889",
	HostOrganization: "Tech Corp Nepal",
	Department:       "Software Development",
	OnSiteSupervisor: "Mr. Ram Sharma",
}

var ExampleLogs = []internlog.DailyLog{
	{
		Date:            "2025-01-01",
		Tasks:           "Setup Next.js environment and installed dependencies.",
		Meetings:        "Daily Standup with QA team regarding unit tests.",
		Accomplishments: "Completed the initial repository setup.",
		Learnings:       "Learned about Docker containerization for Next.js.",
		PlanForTomorrow: "Begin coding the authentication module.",
	},
	{
		Date:            "2025-01-02",
		Tasks:           "Implemented Login and Register API routes.",
		Meetings:        "Client meeting to discuss UI theme colors.",
		Accomplishments: "Fixed JWT token issue in backend.",
		Learnings:       "Deep dive into NextAuth.js callbacks.",
		PlanForTomorrow: "Connect database to the dashboard.",
	},
}

// TemplateXLSX returns the blank template students fill in, seeded with
// ExampleStudent and ExampleLogs.
func TemplateXLSX() ([]byte, error) {
	xlsx := excelize.NewFile()
	defer xlsx.Close()

	_ = xlsx.SetAppProps(&excelize.AppProperties{
		Application: "kastelo.dev/internlog",
	})

	sheet := xlsx.GetSheetName(xlsx.GetActiveSheetIndex())
	if err := xlsx.SetSheetName(sheet, StudentSheet); err != nil {
		return nil, err
	}
	if err := writeStudentSheet(xlsx, StudentSheet); err != nil {
		return nil, err
	}

	if _, err := xlsx.NewSheet(LogsSheet); err != nil {
		return nil, err
	}
	if err := writeLogsSheet(xlsx, LogsSheet); err != nil {
		return nil, err
	}

	xlsx.SetActiveSheet(0)

	buf, err := xlsx.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeStudentSheet(xlsx *excelize.File, sheet string) error {
	_ = xlsx.SetColWidth(sheet, "A", "A", 25)
	_ = xlsx.SetColWidth(sheet, "B", "B", 40)

	if err := xlsx.SetCellValue(sheet, "A1", "MBA Internship Log - Student Information"); err != nil {
		return err
	}
	setStyle(xlsx, sheet, "A1", "A1", fontTitle())

	// Row 2 stays empty
	if err := xlsx.SetSheetRow(sheet, "A3", &[]any{"Field", "Value"}); err != nil {
		return err
	}
	setStyle(xlsx, sheet, "A3", "B3", fontBold(), fill("#F0F0F0"), thinBorder("bottom"))

	for i, f := range internlog.StudentFields {
		row := []any{f.Label, f.Value(ExampleStudent)}
		if err := xlsx.SetSheetRow(sheet, cell('A', i+4), &row); err != nil {
			return err
		}
	}
	last := len(internlog.StudentFields) + 3
	setStyle(xlsx, sheet, "A4", cell('A', last), fontBold())
	return nil
}

func writeLogsSheet(xlsx *excelize.File, sheet string) error {
	_ = xlsx.SetColWidth(sheet, "A", "A", 15)
	_ = xlsx.SetColWidth(sheet, "B", "F", 30)

	if err := xlsx.SetCellValue(sheet, "A1", "MBA Internship - Daily Activity Logs"); err != nil {
		return err
	}
	setStyle(xlsx, sheet, "A1", "A1", fontTitle())
	if err := xlsx.SetCellValue(sheet, "A2", "Enter one row per day. You can add as many days as needed."); err != nil {
		return err
	}
	setStyle(xlsx, sheet, "A2", "A2", fontItalic())

	// Row 3 stays empty
	header := make([]any, len(LogColumns))
	for i, c := range LogColumns {
		header[i] = c
	}
	if err := xlsx.SetSheetRow(sheet, "A4", &header); err != nil {
		return err
	}
	setStyle(xlsx, sheet, "A4", "F4", fontBold(), fill("#F0F0F0"), thinBorder("bottom"), wrapTop())

	row := 5
	for _, log := range ExampleLogs {
		values := []any{log.Date, log.Tasks, log.Meetings, log.Accomplishments, log.Learnings, log.PlanForTomorrow}
		if err := xlsx.SetSheetRow(sheet, cell('A', row), &values); err != nil {
			return err
		}
		row++
	}
	if err := xlsx.SetCellValue(sheet, cell('A', row), PromptRow); err != nil {
		return err
	}
	setStyle(xlsx, sheet, "A5", cell('F', row), wrapTop())
	setStyle(xlsx, sheet, cell('A', row), cell('A', row), wrapTop(), fontItalic())

	// Keep the header in view while scrolling through days
	_ = xlsx.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      4,
		TopLeftCell: "A5",
		ActivePane:  "bottomLeft",
	})
	return nil
}

func cell(col rune, row int) string {
	return fmt.Sprintf("%c%d", col, row)
}
