package simpleexcel

import (
	"bytes"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v2"
)

// DataExporter renders the sheets of a YAML report template with bound section data.
type DataExporter struct {
	template *ReportTemplate
	// data holds data bound to specific section IDs
	data       map[string]interface{}
	formatters map[string]func(interface{}) interface{}
}

// ReportTemplate represents the YAML structure.
type ReportTemplate struct {
	Sheets []SheetTemplate `yaml:"sheets"`
}

// SheetTemplate represents a sheet in the YAML.
type SheetTemplate struct {
	Name     string          `yaml:"name"`
	Sections []SectionConfig `yaml:"sections"`
}

// SectionConfig defines a block of rows in a sheet.
type SectionConfig struct {
	ID         string         `yaml:"id"`
	Title      string         `yaml:"title"`
	ShowHeader bool           `yaml:"show_header"`
	Columns    []ColumnConfig `yaml:"columns"`
}

// ColumnConfig defines a column in a section.
type ColumnConfig struct {
	// FieldName is a struct field name or map key; nested fields use dots, e.g. "Department.Name".
	FieldName     string  `yaml:"field_name"`
	Header        string  `yaml:"header"`
	Width         float64 `yaml:"width"`
	FormatterName string  `yaml:"formatter"` // name of a registered formatter
}

// NewDataExporterFromYamlConfig parses an inline YAML template.
func NewDataExporterFromYamlConfig(config string) (*DataExporter, error) {
	var tmpl ReportTemplate
	if err := yaml.Unmarshal([]byte(config), &tmpl); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(tmpl.Sheets) == 0 {
		return nil, fmt.Errorf("template defines no sheets")
	}
	return &DataExporter{
		template:   &tmpl,
		data:       make(map[string]interface{}),
		formatters: make(map[string]func(interface{}) interface{}),
	}, nil
}

// NewDataExporterFromYamlFile reads a YAML template from path.
func NewDataExporterFromYamlFile(path string) (*DataExporter, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open yaml file: %w", err)
	}
	return NewDataExporterFromYamlConfig(string(b))
}

// BindSectionData binds a slice of rows to a section ID.
func (e *DataExporter) BindSectionData(id string, data interface{}) *DataExporter {
	e.data[id] = data
	return e
}

// RegisterFormatter makes f available to columns that name it in the template.
func (e *DataExporter) RegisterFormatter(name string, f func(interface{}) interface{}) *DataExporter {
	e.formatters[name] = f
	return e
}

// ToBytes exports the workbook to an in-memory byte slice.
func (e *DataExporter) ToBytes() ([]byte, error) {
	f, err := e.buildExcel()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *DataExporter) buildExcel() (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 13}})
	if err != nil {
		f.Close()
		return nil, err
	}

	for i, sheet := range e.template.Sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				f.Close()
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			f.Close()
			return nil, err
		}

		rowNum := 1
		for _, sec := range sheet.Sections {
			if rowNum, err = e.renderSection(f, sheet.Name, sec, rowNum, titleStyle, headerStyle); err != nil {
				f.Close()
				return nil, err
			}
			// blank row between sections
			rowNum++
		}
	}
	return f, nil
}

func (e *DataExporter) renderSection(f *excelize.File, sheet string, sec SectionConfig, rowNum, titleStyle, headerStyle int) (int, error) {
	for i, col := range sec.Columns {
		if col.Width <= 0 {
			continue
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return rowNum, err
		}
		if err := f.SetColWidth(sheet, name, name, col.Width); err != nil {
			return rowNum, err
		}
	}

	if sec.Title != "" {
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetCellValue(sheet, cell, sec.Title); err != nil {
			return rowNum, err
		}
		_ = f.SetCellStyle(sheet, cell, cell, titleStyle)
		rowNum++
	}

	if sec.ShowHeader && len(sec.Columns) > 0 {
		for i, col := range sec.Columns {
			cell, _ := excelize.CoordinatesToCellName(i+1, rowNum)
			if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
				return rowNum, err
			}
		}
		first, _ := excelize.CoordinatesToCellName(1, rowNum)
		last, _ := excelize.CoordinatesToCellName(len(sec.Columns), rowNum)
		_ = f.SetCellStyle(sheet, first, last, headerStyle)
		rowNum++
	}

	formatters := make([]func(interface{}) interface{}, len(sec.Columns))
	for i, col := range sec.Columns {
		if col.FormatterName == "" {
			continue
		}
		fn, ok := e.formatters[col.FormatterName]
		if !ok {
			return rowNum, fmt.Errorf("section %q: unknown formatter %q", sec.ID, col.FormatterName)
		}
		formatters[i] = fn
	}

	data, ok := e.data[sec.ID]
	if !ok || data == nil {
		return rowNum, nil
	}
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		return rowNum, fmt.Errorf("section %q: data must be a slice, got %T", sec.ID, data)
	}
	for i := 0; i < v.Len(); i++ {
		for j, col := range sec.Columns {
			val := extractValue(v.Index(i), col.FieldName)
			if formatters[j] != nil {
				val = formatters[j](val)
			}
			if s, ok := val.(string); ok && s == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(j+1, rowNum)
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return rowNum, fmt.Errorf("section %q row %d: %w", sec.ID, i+1, err)
			}
		}
		rowNum++
	}
	return rowNum, nil
}

// extractValue follows a dotted field path through structs, maps and pointers.
// A nil pointer anywhere on the path yields an empty cell.
func extractValue(v reflect.Value, path string) interface{} {
	for _, name := range strings.Split(path, ".") {
		for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
			if v.IsNil() {
				return ""
			}
			v = v.Elem()
		}
		switch v.Kind() {
		case reflect.Struct:
			v = v.FieldByName(name)
		case reflect.Map:
			v = v.MapIndex(reflect.ValueOf(name))
		default:
			return ""
		}
		if !v.IsValid() {
			return ""
		}
	}
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	return v.Interface()
}
