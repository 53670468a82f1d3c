package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cheesypeas/stemfetch/internal/fetch"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderTable prints the fetched files grouped by dataset, one row per file.
func renderTable(w io.Writer, results []fetch.Result) {
	if len(results) == 0 {
		fmt.Fprintln(w, "Nothing fetched.")

		return
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Dataset", "Size", "Path"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{
			Name:        "Size",
			AlignHeader: text.AlignLeft,
			Align:       text.AlignRight,
			Transformer: func(val interface{}) string {
				s, _ := val.(int64)

				return humanize.Bytes(uint64(s))
			},
		},
	})

	for _, r := range results {
		// the order of values must match the order of the header
		t.AppendRow(table.Row{r.Dataset, r.Size, r.Path})
	}

	fmt.Fprintln(w, t.Render())
}

func renderJSON(w io.Writer, results []fetch.Result) error {
	if results == nil {
		results = []fetch.Result{}
	}

	return json.NewEncoder(w).Encode(results)
}
