package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/DrSkyle/digraph/pkg/graph"
)

// WriteJSON writes s as indented JSON. Degree maps marshal with sorted keys.
func WriteJSON(w io.Writer, s Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteCSV writes one row per vertex with its in and out degree. A vertex
// missing from one of the maps gets 0 in that column.
func WriteCSV(w io.Writer, s Summary) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"vertex", "in_degree", "out_degree"}); err != nil {
		return err
	}

	all := maps.Clone(s.InDegrees)
	if all == nil {
		all = map[graph.Vertex]int{}
	}
	maps.Copy(all, s.OutDegrees)

	for _, k := range slices.Sorted(maps.Keys(all)) {
		record := []string{
			string(k),
			strconv.Itoa(s.InDegrees[k]),
			strconv.Itoa(s.OutDegrees[k]),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
