package main

import (
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"taiyaku/internal/scripts"
)

const previewRunes = 150

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// scriptTable lays out one row per script. The title column is present only
// when the store is titled.
func scriptTable(generation string, items []scripts.Script) string {
	titled := generation == string(scripts.GenerationTitled)
	headers := []string{"ID"}
	aligns := []columnAlignment{alignRight}
	if titled {
		headers = append(headers, "Title")
		aligns = append(aligns, alignLeft)
	}
	headers = append(headers, "English", "Japanese")
	aligns = append(aligns, alignLeft, alignLeft)

	rows := make([][]string, 0, len(items))
	for _, s := range items {
		row := []string{strconv.FormatInt(s.ID, 10)}
		if titled {
			row = append(row, s.TitleOr("-"))
		}
		row = append(row, preview(s.EnglishText), preview(s.JapaneseText))
		rows = append(rows, row)
	}
	return renderTable(headers, rows, aligns)
}

// preview flattens line breaks and truncates to previewRunes runes.
func preview(value string) string {
	flat := strings.Join(strings.Fields(value), " ")
	runes := []rune(flat)
	if len(runes) <= previewRunes {
		return flat
	}
	return string(runes[:previewRunes]) + "..."
}
