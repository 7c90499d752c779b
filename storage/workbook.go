package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"newscrawl/news"

	"github.com/xuri/excelize/v2"
)

const (
	// WorkbookName is the file name of the spreadsheet inside a run folder.
	WorkbookName = "Crawl_data.xlsx"

	defaultSheet = "Sheet1"
)

// Workbook writes records to output/<unix-timestamp>/Crawl_data.xlsx, one
// worksheet per record.
type Workbook struct {
	path string
}

// NewWorkbook creates the timestamped run folder under outputDir.
func NewWorkbook(outputDir string, startedAt time.Time) (*Workbook, error) {
	folder := filepath.Join(outputDir, strconv.FormatInt(startedAt.Unix(), 10))
	if err := os.MkdirAll(folder, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output folder %s: %w", folder, err)
	}
	return &Workbook{path: filepath.Join(folder, WorkbookName)}, nil
}

// Path returns the location the workbook is saved to.
func (w *Workbook) Path() string {
	return w.path
}

// Write saves records in order. Every field takes one row with its name in
// column A and its value in column B, except the image path, which is
// embedded as a picture in column B instead. With no records the workbook
// holds a single blank default sheet.
func (w *Workbook) Write(records []news.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, record := range records {
		sheet := "Sheet" + strconv.Itoa(i+1)
		if sheet != defaultSheet {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("create %s: %w", sheet, err)
			}
		}
		if err := writeRecord(f, sheet, record); err != nil {
			return fmt.Errorf("write %s: %w", sheet, err)
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("save workbook %s: %w", w.path, err)
	}
	return nil
}

func writeRecord(f *excelize.File, sheet string, record news.Record) error {
	for i, field := range record.Fields() {
		row := i + 1

		if field.Name == news.FieldImagePath {
			if !record.HasImage() {
				continue
			}
			if err := embedImage(f, sheet, cell(2, row), record.ImagePath); err != nil {
				return err
			}
			continue
		}

		if err := f.SetCellValue(sheet, cell(1, row), field.Name); err != nil {
			return err
		}
		if s, ok := field.Value.(string); ok && s == "" {
			continue
		}
		if err := f.SetCellValue(sheet, cell(2, row), field.Value); err != nil {
			return err
		}
	}
	return nil
}

// embedImage inserts the thumbnail. Thumbnails are PNG element screenshots
// whatever extension their source URL carried.
func embedImage(f *excelize.File, sheet, at, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image %s: %w", path, err)
	}
	return f.AddPictureFromBytes(sheet, at, &excelize.Picture{
		Extension: ".png",
		File:      data,
		Format:    &excelize.GraphicOptions{AltText: filepath.Base(path)},
	})
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
