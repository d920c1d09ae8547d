package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"kastelo.dev/internlog"
	"kastelo.dev/internlog/excel"
	"kastelo.dev/internlog/internal/config"
	"kastelo.dev/internlog/render"
)

func writeTemplate(out string) error {
	bs, err := excel.TemplateXLSX()
	if err != nil {
		return fmt.Errorf("creating template: %w", err)
	}
	return os.WriteFile(out, bs, 0o644)
}

// readInput applies the same checks as an upload before reading the file.
func readInput(cfg *config.Config, path string) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	ctype := mime.TypeByExtension(filepath.Ext(path))
	if err := internlog.CheckUploadLimit(filepath.Base(path), ctype, fi.Size(), cfg.MaxUploadBytes); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func header(cfg *config.Config) render.Header {
	return render.Header{
		Title:       cfg.Header.Title,
		Institution: cfg.Header.Institution,
		Location:    cfg.Header.Location,
		Affiliation: cfg.Header.Affiliation,
	}
}

// generate writes the PDF and returns the name of the file written.
func generate(cfg *config.Config, in, out string) (string, error) {
	data, err := readInput(cfg, in)
	if err != nil {
		return "", err
	}
	wb, err := internlog.Generate(data)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	doc := render.Render(wb.Student, wb.Logs, render.WithHeader(header(cfg)))
	if err := render.WritePDF(&buf, doc); err != nil {
		return "", err
	}

	if out == "" {
		out = internlog.OutputFilename(wb.Student.StudentName)
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return out, nil
}

func validate(w io.Writer, cfg *config.Config, in string) error {
	data, err := readInput(cfg, in)
	if err != nil {
		return err
	}
	wb, err := internlog.Parse(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Student: %s\n", wb.Student.StudentName)
	fmt.Fprintf(w, "Entries: %d\n", len(wb.Logs))
	if err := internlog.Validate(wb).Err(); err != nil {
		return err
	}
	fmt.Fprintln(w, "OK")
	return nil
}

// report prints the error kinds the way a user needs to see them.
func report(w io.Writer, log *zap.Logger, err error) {
	var parseErr *internlog.ParseError
	var validErr *internlog.ValidationError
	var rejected *internlog.InputRejectedError
	switch {
	case errors.As(err, &validErr):
		fmt.Fprintln(w, "Validation Errors:")
		for _, e := range validErr.Errors {
			fmt.Fprintln(w, "  "+e)
		}
	case errors.As(err, &parseErr):
		log.Debug("Parse failure", zap.Error(parseErr.Err))
		fmt.Fprintln(w, parseErr.Error())
	case errors.As(err, &rejected):
		fmt.Fprintln(w, rejected.Reason)
	default:
		log.Error("Failed", zap.Error(err))
	}
}
