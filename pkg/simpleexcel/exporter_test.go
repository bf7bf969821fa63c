package simpleexcel

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const testTemplate = `
sheets:
  - name: "Staff"
    sections:
      - id: "people"
        title: "People"
        show_header: true
        columns:
          - field_name: "ID"
            header: "ID"
            width: 8
          - field_name: "Name"
            header: "Name"
            width: 20
          - field_name: "Team.Name"
            header: "Team"
`

type team struct {
	Name string
}

type person struct {
	ID   int
	Name string
	Team *team
}

func TestDataExporter_ToBytes(t *testing.T) {
	exporter, err := NewDataExporterFromYamlConfig(testTemplate)
	if err != nil {
		t.Fatalf("NewDataExporterFromYamlConfig failed: %v", err)
	}
	exporter.BindSectionData("people", []person{
		{ID: 1, Name: "alice_01", Team: &team{Name: "Development"}},
		{ID: 2, Name: "bob_0002"},
	})

	data, err := exporter.ToBytes()
	if err != nil {
		t.Fatalf("ToBytes failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Staff")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}

	expected := [][]string{
		{"People"},
		{"ID", "Name", "Team"},
		{"1", "alice_01", "Development"},
		{"2", "bob_0002"},
	}
	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("expected %v, got %v", expected, rows)
	}
}

func TestDataExporter_RejectsNonSlice(t *testing.T) {
	exporter, err := NewDataExporterFromYamlConfig(testTemplate)
	if err != nil {
		t.Fatalf("NewDataExporterFromYamlConfig failed: %v", err)
	}
	exporter.BindSectionData("people", person{ID: 1})

	if _, err := exporter.ToBytes(); err == nil {
		t.Error("expected an error for non-slice section data")
	}
}

func TestNewDataExporterFromYamlConfig_NoSheets(t *testing.T) {
	if _, err := NewDataExporterFromYamlConfig("sheets: []"); err == nil {
		t.Error("expected an error for a template without sheets")
	}
}

func TestDataExporter_NamedFormatter(t *testing.T) {
	exporter, err := NewDataExporterFromYamlConfig(`
sheets:
  - name: "Staff"
    sections:
      - id: "people"
        columns:
          - field_name: "Name"
            formatter: "upper"
`)
	if err != nil {
		t.Fatalf("NewDataExporterFromYamlConfig failed: %v", err)
	}
	exporter.RegisterFormatter("upper", func(v interface{}) interface{} {
		return strings.ToUpper(fmt.Sprint(v))
	}).BindSectionData("people", []person{{Name: "alice_01"}})

	data, err := exporter.ToBytes()
	if err != nil {
		t.Fatalf("ToBytes failed: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	got, _ := f.GetCellValue("Staff", "A1")
	if got != "ALICE_01" {
		t.Errorf("expected ALICE_01, got %q", got)
	}
}

func TestDataExporter_UnknownFormatter(t *testing.T) {
	exporter, err := NewDataExporterFromYamlConfig(`
sheets:
  - name: "Staff"
    sections:
      - id: "people"
        columns:
          - field_name: "Name"
            formatter: "missing"
`)
	if err != nil {
		t.Fatalf("NewDataExporterFromYamlConfig failed: %v", err)
	}
	if _, err := exporter.ToBytes(); err == nil {
		t.Error("expected an error for an unregistered formatter")
	}
}

func TestExtractValue(t *testing.T) {
	testCases := map[string]struct {
		input interface{}
		path  string
		want  interface{}
	}{
		"struct field":      {person{ID: 7}, "ID", 7},
		"nested pointer":    {person{Team: &team{Name: "QA"}}, "Team.Name", "QA"},
		"nil pointer":       {person{}, "Team.Name", ""},
		"map key":           {map[string]interface{}{"Brand": "GoLang"}, "Brand", "GoLang"},
		"missing field":     {person{}, "Nope", ""},
		"pointer to struct": {&person{Name: "x"}, "Name", "x"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got := extractValue(reflect.ValueOf(tc.input), tc.path)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
