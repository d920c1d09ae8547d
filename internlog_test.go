package internlog

import (
	"strings"
	"testing"
)

func TestOutputFilename(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"John Doe", "Internship_Logs_John_Doe.pdf"},
		{"Mary Ann  Smith", "Internship_Logs_Mary_Ann__Smith.pdf"},
		{"Tab\tName", "Internship_Logs_Tab_Name.pdf"},
		{"Single", "Internship_Logs_Single.pdf"},
	}

	for _, tc := range cases {
		if res := OutputFilename(tc.in); res != tc.out {
			t.Errorf("OutputFilename(%q) -> %q, expected %q", tc.in, res, tc.out)
		}
	}
}

func TestWorkbookString(t *testing.T) {
	wb := &Workbook{
		Student: completeStudent,
		Logs:    []DailyLog{{Date: "2025-01-01", Tasks: "Setup"}},
	}
	s := wb.String()

	for _, want := range []string{
		"Student Name: John Doe\n",
		"On-Site Supervisor: Mr. Ram Sharma\n",
		"[1] 2025-01-01\n",
		"Tasks: Setup\n",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %q in\n%s", want, s)
		}
	}
}
