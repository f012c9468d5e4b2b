package schema

import (
	"fmt"
	"strings"
)

// CreationOrder returns table names ordered so that every table comes after
// the tables it references. Tables are emitted level by level: first every
// table with no references, then every table whose parents are all emitted,
// and so on; within a level declaration order is kept. Self references are
// ignored; any other cycle is an error.
func (s *Schema) CreationOrder() ([]string, error) {
	position := make(map[string]int, len(s.Tables))
	for i, t := range s.Tables {
		position[t.Name] = i
	}

	// pending[i] counts the distinct parents of table i not yet emitted
	pending := make([]int, len(s.Tables))
	children := make([][]int, len(s.Tables))
	for i, t := range s.Tables {
		seen := make(map[string]bool)
		for _, rel := range t.Relations {
			if rel.TargetTable == t.Name || seen[rel.TargetTable] {
				continue
			}
			parent, ok := position[rel.TargetTable]
			if !ok {
				return nil, fmt.Errorf("table %s references unknown table %s", t.Name, rel.TargetTable)
			}
			seen[rel.TargetTable] = true
			pending[i]++
			children[parent] = append(children[parent], i)
		}
	}

	layers, err := layer(s.Tables, pending, children)
	if err != nil {
		return nil, err
	}
	order := make([]string, 0, len(s.Tables))
	for _, l := range layers {
		order = append(order, l...)
	}

	return order, nil
}

// DeletionOrder is CreationOrder reversed: dependents before the tables they
// reference.
func (s *Schema) DeletionOrder() ([]string, error) {
	order, err := s.CreationOrder()
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

func layer(tables []Table, pending []int, children [][]int) ([][]string, error) {
	var layers [][]string
	emitted := make([]bool, len(tables))
	remaining := len(tables)
	for remaining > 0 {
		var ready []int
		for i := range tables {
			if !emitted[i] && pending[i] == 0 {
				ready = append(ready, i)
			}
		}
		if len(ready) == 0 {
			var stuck []string
			for i, t := range tables {
				if !emitted[i] {
					stuck = append(stuck, t.Name)
				}
			}
			return nil, fmt.Errorf("reference cycle between tables: %s", strings.Join(stuck, ", "))
		}

		names := make([]string, 0, len(ready))
		for _, i := range ready {
			emitted[i] = true
			names = append(names, tables[i].Name)
		}
		for _, i := range ready {
			for _, child := range children[i] {
				pending[child]--
			}
		}
		layers = append(layers, names)
		remaining -= len(ready)
	}
	return layers, nil
}
