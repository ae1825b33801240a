// Package output печатает результаты команд таблицей, JSON или YAML
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Data табличное представление; структуры без него печатаются как JSON
type Data struct {
	Headers []string
	Rows    [][]string
	// RightAlign номера колонок с числами
	RightAlign []int
}

// Tabular значение, которое умеет представить себя таблицей
type Tabular interface {
	Table() Data
}

type Formatter interface {
	Format(w io.Writer, data any) error
}

// New для Tabular значений в table-формате печатает таблицу
func New(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &jsonFormatter{indent: "  "}
	case FormatYAML:
		return &yamlFormatter{}
	default:
		return &tableFormatter{}
	}
}

// Parse пустая строка означает автоопределение: таблица в терминале, JSON в пайпе
func Parse(s string) (Format, error) {
	switch format := Format(strings.ToLower(strings.TrimSpace(s))); format {
	case FormatTable, FormatJSON, FormatYAML:
		return format, nil
	case "":
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return FormatTable, nil
		}
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of: table, json, yaml", s)
	}
}

type jsonFormatter struct {
	indent string
}

func (f *jsonFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", f.indent)
	return encoder.Encode(data)
}

type yamlFormatter struct{}

func (f *yamlFormatter) Format(w io.Writer, data any) error {
	// типы с MarshalJSON печатаются так же, как в JSON
	out, err := yaml.MarshalWithOptions(data,
		yaml.Indent(2),
		yaml.IndentSequence(false),
		yaml.UseJSONMarshaler(),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

type tableFormatter struct{}

func (f *tableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case Data:
		return renderTable(w, v)
	case Tabular:
		return renderTable(w, v.Table())
	default:
		return (&jsonFormatter{indent: "  "}).Format(w, data)
	}
}

func renderTable(w io.Writer, data Data) error {
	cfg := tablewriter.Config{}
	if len(data.RightAlign) > 0 && len(data.Headers) > 0 {
		align := make([]tw.Align, len(data.Headers))
		for i := range align {
			align[i] = tw.AlignLeft
		}
		for _, col := range data.RightAlign {
			if col >= 0 && col < len(align) {
				align[col] = tw.AlignRight
			}
		}
		cfg.Row.Alignment = tw.CellAlignment{PerColumn: align}
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(cfg))

	if len(data.Headers) > 0 {
		headers := make([]any, len(data.Headers))
		for i, h := range data.Headers {
			headers[i] = h
		}
		table.Header(headers...)
	}

	for _, row := range data.Rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}

	return table.Render()
}
