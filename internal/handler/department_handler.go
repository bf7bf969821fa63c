package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/empcrud/internal/service"
	"github.com/locvowork/empcrud/internal/service/serviceutils"
)

type DepartmentHandler struct {
	svc service.DepartmentService
}

func NewDepartmentHandler(svc service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{svc: svc}
}

// ListHandler handles GET /depts
func (h *DepartmentHandler) ListHandler(c echo.Context) error {
	depts, err := h.svc.List(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to list departments", err)
	}
	return serviceutils.ResponseSuccess(c, map[string]interface{}{"depts": depts})
}
