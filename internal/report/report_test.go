package report

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/AlfredSjoqvist/gideon/internal/tester"
	"github.com/AlfredSjoqvist/gideon/internal/trial"
)

func TestWriteWorkbook(t *testing.T) {
	res := &trial.Result{
		Weighted: map[string]float64{
			"a.com/one": 95,
			"a.com/two": 40,
		},
		Breakdown: map[string]map[string]trial.Score{
			"Solo": {
				"a.com/one": {Title: "One", Link: "https://a.com/one", Score: 95},
				"a.com/two": {Title: "Two", Link: "https://a.com/two", Score: 40},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "scores.xlsx")
	tester.NoErr(t, Write(path, map[string]*trial.Result{"test_run": res}))

	f, err := excelize.OpenFile(path)
	tester.NoErr(t, err)
	defer f.Close()

	title, err := f.GetCellValue("test_run", "A2")
	tester.NoErr(t, err)
	tester.Eq(t, title, "One")

	score, err := f.GetCellValue("test_run", "C2")
	tester.NoErr(t, err)
	tester.Eq(t, score, "95")

	header, err := f.GetCellValue("test_run", "D1")
	tester.NoErr(t, err)
	tester.Eq(t, header, "Weighted")
}

func TestWriteEmpty(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "scores.xlsx"), nil)
	tester.True(t, err != nil)
}
