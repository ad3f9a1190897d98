// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package stocksphere

import "github.com/2dChan/stocksphere/stock"

type sectorGroup struct {
	sector  string
	records []stock.Record
}

// groupBySector partitions records by sector. Groups follow sector discovery
// order and keep the input order of their members.
func groupBySector(records []stock.Record) []sectorGroup {
	idx := make(map[string]int)
	var groups []sectorGroup
	for _, r := range records {
		i, ok := idx[r.Sector]
		if !ok {
			i = len(groups)
			idx[r.Sector] = i
			groups = append(groups, sectorGroup{sector: r.Sector})
		}
		groups[i].records = append(groups[i].records, r)
	}
	return groups
}
