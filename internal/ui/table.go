package ui

import (
	"bytes"
	"io"

	"github.com/mgutz/ansi"
	"github.com/pterm/pterm"
	"github.com/tomlazar/table"
)

// WriteTable renders rows under headers to w, with alternating row colors
// when color is set.
func WriteTable(w io.Writer, headers []string, rows [][]string, color bool) error {
	tab := table.Table{
		Headers: headers,
		Rows:    rows,
	}
	return tab.WriteTable(w, &table.Config{
		ShowIndex:       false,
		Color:           color,
		AlternateColors: true,
		TitleColorCode:  ansi.ColorCode("white+buf"),
		AltColorCodes: []string{
			ansi.ColorCode("white"),
			ansi.ColorCode("white:236"),
		},
	})
}

// Table prints a table to the terminal.
func Table(headers []string, rows [][]string, color bool) error {
	var buf bytes.Buffer
	if err := WriteTable(&buf, headers, rows, color); err != nil {
		return err
	}
	pterm.Println(buf.String())
	return nil
}
