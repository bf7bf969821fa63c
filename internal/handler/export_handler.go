package handler

import (
	_ "embed"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/empcrud/internal/service"
	"github.com/locvowork/empcrud/internal/service/serviceutils"
	"github.com/locvowork/empcrud/pkg/simpleexcel"
)

//go:embed templates/employees.yaml
var defaultExportTemplate string

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	svc          service.EmployeeService
	templatePath string
}

// NewExportHandler builds the spreadsheet export. An empty templatePath uses the embedded template.
func NewExportHandler(svc service.EmployeeService, templatePath string) *ExportHandler {
	return &ExportHandler{svc: svc, templatePath: templatePath}
}

// ExportHandler handles GET /emps/export
func (h *ExportHandler) ExportHandler(c echo.Context) error {
	emps, err := h.svc.GetAll(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to list employees", err)
	}

	var exporter *simpleexcel.DataExporter
	if h.templatePath != "" {
		exporter, err = simpleexcel.NewDataExporterFromYamlFile(h.templatePath)
	} else {
		exporter, err = simpleexcel.NewDataExporterFromYamlConfig(defaultExportTemplate)
	}
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to parse report config", err)
	}

	data, err := exporter.
		RegisterFormatter("gender", formatGender).
		BindSectionData("employees", emps).
		ToBytes()
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to generate Excel file", err)
	}

	c.Response().Header().Set("Content-Disposition", `attachment; filename="employees.xlsx"`)
	c.Response().Header().Set("Content-Length", strconv.Itoa(len(data)))
	return c.Blob(http.StatusOK, mimeXLSX, data)
}

func formatGender(v interface{}) interface{} {
	switch v {
	case "M":
		return "Male"
	case "F":
		return "Female"
	}
	return v
}
