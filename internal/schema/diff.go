package schema

import (
	"fmt"
	"strings"
)

// Mismatch describes one difference between a declared and a live schema.
type Mismatch struct {
	Table  string
	Column string
	Detail string
}

func (m Mismatch) String() string {
	if m.Column != "" {
		return fmt.Sprintf("%s.%s: %s", m.Table, m.Column, m.Detail)
	}
	return fmt.Sprintf("%s: %s", m.Table, m.Detail)
}

// Diff compares a live schema against the declared one. Only structure that
// survives every supported engine is compared: table and column presence,
// nullability, primary keys, foreign keys and uniqueness. Column types are
// engine specific and ignored. Extra live tables and columns are reported too.
func Diff(want, got *Schema) []Mismatch {
	var mismatches []Mismatch

	for _, wt := range want.Tables {
		gt := got.Table(wt.Name)
		if gt == nil {
			mismatches = append(mismatches, Mismatch{Table: wt.Name, Detail: "table missing"})
			continue
		}
		mismatches = append(mismatches, diffTable(&wt, gt)...)
	}

	for _, gt := range got.Tables {
		if want.Table(gt.Name) == nil {
			mismatches = append(mismatches, Mismatch{Table: gt.Name, Detail: "unexpected table"})
		}
	}

	return mismatches
}

func diffTable(want, got *Table) []Mismatch {
	var mismatches []Mismatch

	for _, wc := range want.Columns {
		gc := got.Column(wc.Name)
		if gc == nil {
			mismatches = append(mismatches, Mismatch{Table: want.Name, Column: wc.Name, Detail: "column missing"})
			continue
		}
		if wc.Nullable != gc.Nullable {
			mismatches = append(mismatches, Mismatch{
				Table:  want.Name,
				Column: wc.Name,
				Detail: fmt.Sprintf("nullable = %t, want %t", gc.Nullable, wc.Nullable),
			})
		}
	}
	for _, gc := range got.Columns {
		if want.Column(gc.Name) == nil {
			mismatches = append(mismatches, Mismatch{Table: want.Name, Column: gc.Name, Detail: "unexpected column"})
		}
	}

	if columnKey(want.PrimaryKey) != columnKey(got.PrimaryKey) {
		mismatches = append(mismatches, Mismatch{
			Table:  want.Name,
			Detail: fmt.Sprintf("primary key (%s), want (%s)", strings.Join(got.PrimaryKey, ", "), strings.Join(want.PrimaryKey, ", ")),
		})
	}

	for _, rel := range want.Relations {
		if !hasRelation(got, rel) {
			mismatches = append(mismatches, Mismatch{
				Table:  want.Name,
				Column: rel.SourceColumn,
				Detail: fmt.Sprintf("foreign key to %s.%s missing", rel.TargetTable, rel.TargetColumn),
			})
		}
	}

	for _, wc := range want.Columns {
		if wc.IsUnique && !got.HasUnique(wc.Name) {
			mismatches = append(mismatches, Mismatch{Table: want.Name, Column: wc.Name, Detail: "unique constraint missing"})
		}
	}
	for _, idx := range want.Indexes {
		if idx.IsUnique && !got.HasUnique(idx.Columns...) {
			mismatches = append(mismatches, Mismatch{
				Table:  want.Name,
				Detail: fmt.Sprintf("unique constraint on (%s) missing", strings.Join(idx.Columns, ", ")),
			})
		}
	}

	return mismatches
}

func hasRelation(t *Table, want Relation) bool {
	for _, rel := range t.Relations {
		if rel.SourceColumn == want.SourceColumn &&
			rel.TargetTable == want.TargetTable &&
			rel.TargetColumn == want.TargetColumn {
			return true
		}
	}
	return false
}
