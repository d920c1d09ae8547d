package main

import (
	"fmt"
	"io"

	diffpatch "github.com/sourcegraph/go-diff-patch"
	"kastelo.dev/internlog"
	"kastelo.dev/internlog/internal/config"
)

// diff prints a unified diff of the contents of two workbooks. Identical
// contents print nothing.
func diff(w io.Writer, cfg *config.Config, oldPath, newPath string) error {
	before, err := workbookText(cfg, oldPath)
	if err != nil {
		return fmt.Errorf("%s: %w", oldPath, err)
	}
	after, err := workbookText(cfg, newPath)
	if err != nil {
		return fmt.Errorf("%s: %w", newPath, err)
	}
	if before == after {
		return nil
	}
	_, err = io.WriteString(w, diffpatch.GeneratePatch(newPath, before, after))
	return err
}

func workbookText(cfg *config.Config, path string) (string, error) {
	data, err := readInput(cfg, path)
	if err != nil {
		return "", err
	}
	wb, err := internlog.Parse(data)
	if err != nil {
		return "", err
	}
	return wb.String(), nil
}
