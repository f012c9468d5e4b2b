// Package formatter renders a schema, declared or extracted, as compact text
// or markdown.
package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/musicdb/internal/schema"
)

const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Formatter writes a whole schema
type Formatter interface {
	Format(s *schema.Schema) error
}

// New returns the formatter for the named output format
func New(format string, w io.Writer) (Formatter, error) {
	name, err := Normalize(format)
	if err != nil {
		return nil, err
	}
	if name == FormatMarkdown {
		return NewMarkdownFormatter(w), nil
	}
	return NewTextFormatter(w), nil
}

// Normalize maps a format name or alias to FormatText or FormatMarkdown.
// An empty name means text.
func Normalize(format string) (string, error) {
	switch format {
	case FormatText, "":
		return FormatText, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use text or markdown)", format)
	}
}

// IncomingRelation is a foreign key pointing at a table
type IncomingRelation struct {
	SourceTable  string
	SourceColumn string
	TargetColumn string
}

// incomingRelations finds all foreign keys pointing to the named table
func incomingRelations(tableName string, s *schema.Schema) []IncomingRelation {
	var incoming []IncomingRelation
	for _, table := range s.Tables {
		for _, rel := range table.Relations {
			if rel.TargetTable == tableName {
				incoming = append(incoming, IncomingRelation{
					SourceTable:  table.Name,
					SourceColumn: rel.SourceColumn,
					TargetColumn: rel.TargetColumn,
				})
			}
		}
	}
	return incoming
}

func isPrimaryKey(column string, primaryKey []string) bool {
	for _, pk := range primaryKey {
		if pk == column {
			return true
		}
	}
	return false
}
