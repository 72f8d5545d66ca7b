package chem

import (
	"fmt"
	"sort"
	"strings"
)

// formula renders the molecular formula in Hill order: carbon first, then
// hydrogen, then the remaining elements alphabetically by symbol.
func formula(m *Molecule) string {
	counts := make(map[int]int)
	hydrogens := 0
	for i := 0; i < m.NumAtoms(); i++ {
		a := m.Atom(i)
		if a.Element == Hydrogen {
			hydrogens++
		} else {
			counts[a.Element]++
		}
		hydrogens += a.Hydrogens
	}

	var sb strings.Builder
	write := func(symbol string, count int) {
		if count == 0 {
			return
		}
		sb.WriteString(symbol)
		if count > 1 {
			fmt.Fprintf(&sb, "%d", count)
		}
	}

	write("C", counts[Carbon])
	delete(counts, Carbon)
	write("H", hydrogens)

	symbols := make([]string, 0, len(counts))
	bySymbol := make(map[string]int, len(counts))
	for element, count := range counts {
		s := ElementSymbol(element)
		symbols = append(symbols, s)
		bySymbol[s] = count
	}
	sort.Strings(symbols)
	for _, s := range symbols {
		write(s, bySymbol[s])
	}

	return sb.String()
}
