// Package bank projects a compiled entity table into the Object Bank: for
// each entity, the names of the fields it declares.
package bank

import (
	"sort"

	"scrivener/internal/parser"
)

// Index maps an entity name to its field names in ascending order.
type Index map[string][]string

// Sink receives the Object Bank produced by a resolve call.
type Sink func(Index)

func Project(table parser.Table) Index {
	index := make(Index, len(table))
	for name, entity := range table {
		index[name] = entity.Fields()
	}
	return index
}

// Names returns the entity names in ascending order.
func (i Index) Names() []string {
	names := make([]string, 0, len(i))
	for name := range i {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Collect returns a Sink that stores the index it receives in dst.
func Collect(dst *Index) Sink {
	return func(index Index) { *dst = index }
}
