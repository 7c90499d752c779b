package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"newscrawl/news"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeThumbnail(t *testing.T, dir, name string) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o644))
	return p
}

func TestNewWorkbook_TimestampedFolder(t *testing.T) {
	out := t.TempDir()
	started := time.Unix(1700000000, 0)

	wb, err := NewWorkbook(out, started)
	require.NoError(t, err)

	folder := filepath.Join(out, strconv.FormatInt(started.Unix(), 10))
	assert.Equal(t, filepath.Join(folder, WorkbookName), wb.Path())
	assert.DirExists(t, folder)
}

func TestWorkbook_Write(t *testing.T) {
	dir := t.TempDir()
	thumb := writeThumbnail(t, dir, "thumb.jpg")

	records := []news.Record{
		{
			Title:         "$100 bonus for Iniesta",
			Date:          "May 1, 2024",
			Description:   "Iniesta signs",
			PhraseCount:   2,
			MentionsMoney: true,
			ImageName:     "thumb.jpg",
			ImagePath:     thumb,
		},
		{
			Title:       "No picture here",
			Date:        "May 2, 2024",
			Description: "",
			PhraseCount: 0,
		},
	}

	wb, err := NewWorkbook(dir, time.Now())
	require.NoError(t, err)
	require.NoError(t, wb.Write(records))

	f, err := excelize.OpenFile(wb.Path())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Sheet1", "Sheet2"}, f.GetSheetList())

	expected := [][2]string{
		{news.FieldTitle, "$100 bonus for Iniesta"},
		{news.FieldDate, "May 1, 2024"},
		{news.FieldDescription, "Iniesta signs"},
		{news.FieldPhraseCount, "2"},
		{news.FieldMoney, "TRUE"},
		{news.FieldImageName, "thumb.jpg"},
	}
	for i, want := range expected {
		row := strconv.Itoa(i + 1)
		name, err := f.GetCellValue("Sheet1", "A"+row)
		require.NoError(t, err)
		value, err := f.GetCellValue("Sheet1", "B"+row)
		require.NoError(t, err)
		assert.Equal(t, want[0], name)
		assert.Equal(t, want[1], value)
	}

	// the image path row carries the picture only
	label, err := f.GetCellValue("Sheet1", "A7")
	require.NoError(t, err)
	assert.Empty(t, label)
	pics, err := f.GetPictures("Sheet1", "B7")
	require.NoError(t, err)
	assert.Len(t, pics, 1)

	pics, err = f.GetPictures("Sheet2", "B7")
	require.NoError(t, err)
	assert.Empty(t, pics)
	money, err := f.GetCellValue("Sheet2", "B5")
	require.NoError(t, err)
	assert.Equal(t, "FALSE", money)
	imageName, err := f.GetCellValue("Sheet2", "B6")
	require.NoError(t, err)
	assert.Empty(t, imageName)
}

func TestWorkbook_WriteNoRecords(t *testing.T) {
	wb, err := NewWorkbook(t.TempDir(), time.Now())
	require.NoError(t, err)
	require.NoError(t, wb.Write(nil))

	f, err := excelize.OpenFile(wb.Path())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWorkbook_WriteMissingImageFails(t *testing.T) {
	dir := t.TempDir()
	wb, err := NewWorkbook(dir, time.Now())
	require.NoError(t, err)

	err = wb.Write([]news.Record{{Title: "x", ImageName: "gone.png", ImagePath: filepath.Join(dir, "gone.png")}})
	assert.Error(t, err)
}
