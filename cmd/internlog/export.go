package main

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"kastelo.dev/internlog"
	"kastelo.dev/internlog/internal/config"
)

func export(cfg *config.Config, in, dir string) error {
	data, err := readInput(cfg, in)
	if err != nil {
		return err
	}
	wb, err := internlog.Parse(data)
	if err != nil {
		return err
	}

	if err := writeStudent(dir, wb.Student); err != nil {
		return err
	}
	return writeLogs(dir, wb.Logs)
}

func writeStudent(dir string, st internlog.StudentInfo) error {
	rows := [][]string{{"Field", "Value"}}
	for _, f := range internlog.StudentFields {
		rows = append(rows, []string{f.Label, f.Value(st)})
	}
	return writeCSV(filepath.Join(dir, "student.csv"), rows)
}

func writeLogs(dir string, logs []internlog.DailyLog) error {
	rows := [][]string{{"Date", "Tasks", "Meetings", "Accomplishments", "Learnings", "PlanForTomorrow"}}
	for _, l := range logs {
		rows = append(rows, []string{l.Date, l.Tasks, l.Meetings, l.Accomplishments, l.Learnings, l.PlanForTomorrow})
	}
	return writeCSV(filepath.Join(dir, "logs.csv"), rows)
}

func writeCSV(path string, rows [][]string) error {
	fd, err := os.Create(path)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(fd)
	if err := cw.WriteAll(rows); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}
