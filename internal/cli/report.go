package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/aretw0/skelly/pkg/actor"
	"github.com/aretw0/skelly/pkg/registry"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

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
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// RenderTrackers tabulates every region of every layout.
func RenderTrackers(layouts []registry.TrackerLayout) string {
	var rows [][]string
	for _, l := range layouts {
		for _, r := range l.Regions {
			rows = append(rows, []string{
				l.Kind,
				strconv.Itoa(l.Dims),
				string(r.Name),
				strconv.Itoa(len(r.Indices)),
				indexSpan(r.Indices),
			})
		}
	}
	return renderTable(
		[]string{"Tracker", "Dims", "Region", "Landmarks", "Indices"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignLeft},
	)
}

// RenderActor tabulates the aspects of a, with the mean reprojection error
// per aspect when one is attached.
func RenderActor(a *actor.Actor) string {
	var rows [][]string
	for _, asp := range a.Aspects() {
		frames, errCol := "-", "-"
		if c, ok := asp.Trajectories(); ok {
			frames = strconv.Itoa(c.Frames())
			if means := c.MeanErrors(); means != nil {
				errCol = fmt.Sprintf("%.3f", average(means))
			}
		} else if asp.HasPendingReprojectionError() {
			errCol = "pending"
		}
		rows = append(rows, []string{
			string(asp.Name()),
			strconv.Itoa(asp.Structure().Len()),
			frames,
			errCol,
		})
	}
	return renderTable(
		[]string{"Aspect", "Landmarks", "Frames", "Mean error"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	)
}

// indexSpan prints contiguous indices as [start:end) and anything else as a count.
func indexSpan(indices []int) string {
	if len(indices) == 0 {
		return "-"
	}
	for i := 1; i < len(indices); i++ {
		if indices[i] != indices[i-1]+1 {
			return fmt.Sprintf("%d scattered", len(indices))
		}
	}
	return fmt.Sprintf("[%d:%d)", indices[0], indices[len(indices)-1]+1)
}

func average(m map[string]float64) float64 {
	if len(m) == 0 {
		return 0
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sum := 0.0
	for _, k := range keys {
		sum += m[k]
	}
	return sum / float64(len(m))
}
