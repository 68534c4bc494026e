// Package export writes filtered result rows to a spreadsheet file.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hunseop/automated-task-launcher/internal/errors"
	"github.com/hunseop/automated-task-launcher/internal/table"
)

// sheetName is the single sheet holding the exported rows
const sheetName = "Policies"

// exportDelimiter joins sequence values inside one exported cell
const exportDelimiter = ", "

// Filename builds the export file name: {YYYYMMDD}_{projectName}_{projectType}.xlsx,
// falling back to {YYYYMMDD}_{projectName}.xlsx when the type is unknown.
func Filename(projectName, projectType string, now time.Time) string {
	date := now.Format("20060102")
	name := sanitize(projectName)
	if projectType == "" {
		return fmt.Sprintf("%s_%s.xlsx", date, name)
	}
	return fmt.Sprintf("%s_%s_%s.xlsx", date, name, sanitize(projectType))
}

// sanitize keeps file names portable: spaces and path separators collapse to
// underscores.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_")
	return replacer.Replace(s)
}

// WriteXLSX serializes the rows to path with the humanized column headers.
// Missing fields become empty cells; the row set is expected to be the
// currently filtered set, not a single page.
func WriteXLSX(path string, columns []table.Column, rows []map[string]any) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), sheetName)

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return errors.NewExportWriteError(path, err)
		}
		if err := f.SetCellValue(sheetName, cell, col.Title); err != nil {
			return errors.NewExportWriteError(path, err)
		}
	}

	for r, row := range rows {
		for c, col := range columns {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return errors.NewExportWriteError(path, err)
			}
			value := table.CellString(row[col.Key], exportDelimiter)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return errors.NewExportWriteError(path, err)
			}
		}
	}

	if err := f.SaveAs(filepath.Clean(path)); err != nil {
		return errors.NewExportWriteError(path, err)
	}
	return nil
}
