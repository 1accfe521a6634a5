// Package report exports trial scores to an xlsx workbook, one sheet
// per run, for eyeballing how the judges disagreed.
package report

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/AlfredSjoqvist/gideon/internal/trial"
)

// Write renders one sheet per run with a row per article: title, link,
// each judge's raw score, and the weighted total, highest first.
func Write(path string, results map[string]*trial.Result) error {
	if len(results) == 0 {
		return fmt.Errorf("report: nothing to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	runNames := make([]string, 0, len(results))
	for name := range results {
		runNames = append(runNames, name)
	}
	sort.Strings(runNames)

	for _, name := range runNames {
		if err := writeSheet(f, sheetName(name), results[name]); err != nil {
			return fmt.Errorf("report: run %s: %w", name, err)
		}
	}
	f.DeleteSheet("Sheet1")
	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, name string, res *trial.Result) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	judges := make([]string, 0, len(res.Breakdown))
	for j := range res.Breakdown {
		judges = append(judges, j)
	}
	sort.Strings(judges)

	header := append([]string{"Title", "Link"}, judges...)
	header = append(header, "Weighted")
	for col, h := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(name, cell, h); err != nil {
			return err
		}
	}

	type row struct {
		url      string
		weighted float64
	}
	rows := make([]row, 0, len(res.Weighted))
	for url, w := range res.Weighted {
		rows = append(rows, row{url, w})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].weighted > rows[j].weighted })

	for i, r := range rows {
		title, link := articleIdentity(res, judges, r.url)
		values := []any{title, link}
		for _, j := range judges {
			if sc, ok := res.Breakdown[j][r.url]; ok {
				values = append(values, sc.Score)
			} else {
				values = append(values, 0.0)
			}
		}
		values = append(values, r.weighted)

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(name, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// articleIdentity recovers a display title and link for a normalized
// URL from whichever judge scored it.
func articleIdentity(res *trial.Result, judges []string, url string) (string, string) {
	for _, j := range judges {
		if sc, ok := res.Breakdown[j][url]; ok {
			return sc.Title, sc.Link
		}
	}
	return "", url
}

// sheetName keeps names inside the xlsx 31-char limit.
func sheetName(run string) string {
	if len(run) > 31 {
		return run[:31]
	}
	return run
}
