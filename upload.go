package internlog

import (
	"fmt"
	"slices"
	"strings"
)

const MaxUploadSize = 5 * 1024 * 1024

var acceptedTypes = []string{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.ms-excel",
}

// CheckUpload refuses files that are not spreadsheets or are larger than
// MaxUploadSize. It looks only at the metadata, never the content.
func CheckUpload(name, contentType string, size int64) error {
	return CheckUploadLimit(name, contentType, size, MaxUploadSize)
}

func CheckUploadLimit(name, contentType string, size, limit int64) error {
	if !acceptedUpload(name, contentType) {
		return &InputRejectedError{Reason: "Please upload a valid Excel file (.xlsx or .xls)"}
	}
	if size > limit {
		return &InputRejectedError{Reason: sizeReason(limit)}
	}
	return nil
}

func acceptedUpload(name, contentType string) bool {
	if slices.Contains(acceptedTypes, contentType) {
		return true
	}
	name = strings.ToLower(name)
	return strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xls")
}

func sizeReason(limit int64) string {
	if limit%(1<<20) == 0 {
		return fmt.Sprintf("File size must be less than %dMB", limit>>20)
	}
	return fmt.Sprintf("File size must be less than %d bytes", limit)
}
