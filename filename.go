package internlog

import (
	"strings"
	"unicode"
)

const TemplateFilename = "Internship_Log_Template.xlsx"

// OutputFilename is the name of the generated PDF for the given student.
func OutputFilename(studentName string) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, studentName)
	return "Internship_Logs_" + name + ".pdf"
}
