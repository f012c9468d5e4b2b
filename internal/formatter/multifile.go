package formatter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tordrt/musicdb/internal/schema"
)

// MultiFileFormatter writes an overview plus one file per table into a directory
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text" or "markdown"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	if name, err := Normalize(format); err == nil {
		format = name
	}
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes the schema to multiple files. Tables are listed in the order
// they appear in s, which callers set to the creation order.
func (f *MultiFileFormatter) Format(s *schema.Schema) error {
	format, err := Normalize(f.OutputFormat)
	if err != nil {
		return err
	}
	f.OutputFormat = format

	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeOverview(s); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for _, table := range s.Tables {
		if err := f.writeTableFile(table, s); err != nil {
			return fmt.Errorf("failed to write table file for %s: %w", table.Name, err)
		}
	}

	return nil
}

func (f *MultiFileFormatter) writeOverview(s *schema.Schema) error {
	file, err := os.Create(filepath.Join(f.OutputDir, "_overview"+f.fileExtension()))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if f.OutputFormat == FormatMarkdown {
		_, _ = fmt.Fprintf(file, "# Schema Overview\n\n")
		_, _ = fmt.Fprintf(file, "Each table has a corresponding file: `<table_name>%s`\n\n", f.fileExtension())
		_, _ = fmt.Fprintf(file, "## Tables\n\n")
	} else {
		_, _ = fmt.Fprintf(file, "SCHEMA OVERVIEW\n")
		_, _ = fmt.Fprintf(file, "Each table has a file: <table_name>%s\n\n", f.fileExtension())
	}

	for i, table := range s.Tables {
		name := table.Name
		if f.OutputFormat == FormatMarkdown {
			name = fmt.Sprintf("%d. **%s**", i+1, table.Name)
		}
		_, _ = fmt.Fprint(file, name)
		if len(table.Relations) > 0 {
			targets := make([]string, 0, len(table.Relations))
			for _, rel := range table.Relations {
				targets = append(targets, rel.TargetTable)
			}
			_, _ = fmt.Fprintf(file, " (references: %s)", strings.Join(targets, ", "))
		}
		_, _ = fmt.Fprintln(file)
	}

	return nil
}

func (f *MultiFileFormatter) writeTableFile(table schema.Table, s *schema.Schema) error {
	file, err := os.Create(filepath.Join(f.OutputDir, table.Name+f.fileExtension()))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if f.OutputFormat == FormatMarkdown {
		NewMarkdownFormatter(file).FormatTable(table, s)
		return nil
	}
	NewTextFormatter(file).formatTable(table, s)
	return nil
}

func (f *MultiFileFormatter) fileExtension() string {
	if f.OutputFormat == FormatMarkdown {
		return ".md"
	}
	return ".txt"
}
