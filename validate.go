package internlog

import "fmt"

type Validation struct {
	Valid  bool
	Errors []string
}

// Err returns the problems as a *ValidationError, or nil when there are none.
func (v Validation) Err() error {
	if v.Valid {
		return nil
	}
	return &ValidationError{Errors: v.Errors}
}

// Validate reports every missing required value at once.
func Validate(wb *Workbook) Validation {
	var errs []string

	for _, f := range StudentFields {
		if f.Value(wb.Student) == "" {
			errs = append(errs, f.Label+" is required")
		}
	}

	if len(wb.Logs) == 0 {
		errs = append(errs, "At least one daily log entry is required")
	}

	for i, log := range wb.Logs {
		if log.Date == "" {
			errs = append(errs, fmt.Sprintf("Log %d: Date is required", i+1))
		}
		if log.Tasks == "" {
			errs = append(errs, fmt.Sprintf("Log %d: Tasks are required", i+1))
		}
	}

	return Validation{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}

// Generate parses and validates a workbook. The error is a *ParseError or
// a *ValidationError.
func Generate(data []byte) (*Workbook, error) {
	wb, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := Validate(wb).Err(); err != nil {
		return wb, err
	}
	return wb, nil
}
