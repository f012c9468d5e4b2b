package schema

import "strings"

// Schema represents a complete database schema
type Schema struct {
	Tables []Table
}

// Table represents a database table
type Table struct {
	Name       string
	Columns    []Column
	Relations  []Relation
	Indexes    []Index
	PrimaryKey []string
}

// Column represents a table column
type Column struct {
	Name          string
	Type          string
	Nullable      bool
	DefaultValue  *string
	IsUnique      bool
	AutoIncrement bool
}

// Relation represents a foreign key relationship
type Relation struct {
	TargetTable  string
	TargetColumn string
	SourceColumn string
	Cardinality  string // 1:1, 1:N, N:1
}

// Index represents a database index
type Index struct {
	Name     string
	Columns  []string
	IsUnique bool
}

// Table returns the table with the given name, or nil.
func (s *Schema) Table(name string) *Table {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// TableNames returns table names in declaration order.
func (s *Schema) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		names = append(names, t.Name)
	}
	return names
}

// Column returns the column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// AutoIncrementColumn returns the name of the auto-assigned key column, if any.
func (t *Table) AutoIncrementColumn() (string, bool) {
	for _, col := range t.Columns {
		if col.AutoIncrement {
			return col.Name, true
		}
	}
	return "", false
}

// HasUnique reports whether the table enforces uniqueness over exactly the
// given column set, either through a unique column, a unique index or the
// primary key.
func (t *Table) HasUnique(columns ...string) bool {
	want := columnKey(columns)
	if want == columnKey(t.PrimaryKey) {
		return true
	}
	if len(columns) == 1 {
		if col := t.Column(columns[0]); col != nil && col.IsUnique {
			return true
		}
	}
	for _, idx := range t.Indexes {
		if idx.IsUnique && columnKey(idx.Columns) == want {
			return true
		}
	}
	return false
}

// MarkUniqueColumns sets IsUnique on every column covered by a single-column
// unique index. Extractors call it after reading indexes so that composite
// unique constraints never flag their member columns as individually unique.
func (t *Table) MarkUniqueColumns() {
	for _, idx := range t.Indexes {
		if !idx.IsUnique || len(idx.Columns) != 1 {
			continue
		}
		if col := t.Column(idx.Columns[0]); col != nil && !isPrimaryKeyOnly(t, col.Name) {
			col.IsUnique = true
		}
	}
}

func isPrimaryKeyOnly(t *Table, column string) bool {
	return len(t.PrimaryKey) == 1 && t.PrimaryKey[0] == column
}

func columnKey(columns []string) string {
	return strings.Join(columns, ",")
}
