package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/empcrud/internal/domain"
	"github.com/locvowork/empcrud/internal/service"
	"github.com/locvowork/empcrud/internal/service/serviceutils"
	"github.com/locvowork/empcrud/internal/validation"
)

const (
	MsgUnavailable = "username is unavailable"

	keyEmp         = "emp"
	keyEmps        = "emps"
	keyEmpID       = "empId"
	keyPageInfo    = "pageInfo"
	keyVaMsg       = "va_msg"
	keyErrorFields = "errorFields"
)

type EmployeeHandler struct {
	svc service.EmployeeService
}

func NewEmployeeHandler(svc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

// ListHandler handles GET /emps?pn=
func (h *EmployeeHandler) ListHandler(c echo.Context) error {
	pn := 1
	if raw := c.QueryParam("pn"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid page number", err)
		}
		pn = v
	}

	page, err := h.svc.ListPage(c.Request().Context(), pn)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to list employees", err)
	}
	return serviceutils.ResponseSuccess(c, map[string]interface{}{keyPageInfo: page})
}

// AllHandler handles GET /emps/all
func (h *EmployeeHandler) AllHandler(c echo.Context) error {
	emps, err := h.svc.GetAll(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to list employees", err)
	}
	return serviceutils.ResponseSuccess(c, map[string]interface{}{keyEmps: emps})
}

// SearchHandler handles GET /emps/search?q=
func (h *EmployeeHandler) SearchHandler(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Missing search query", errors.New("empty q"))
	}

	emps, err := h.svc.Search(c.Request().Context(), q)
	if errors.Is(err, domain.ErrSearchDisabled) {
		return serviceutils.ResponseError(c, http.StatusServiceUnavailable, "Search is not available", err)
	}
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to search employees", err)
	}
	return serviceutils.ResponseSuccess(c, map[string]interface{}{keyEmps: emps})
}

// CreateHandler handles POST /emp. Every violated field is reported at once.
func (h *EmployeeHandler) CreateHandler(c echo.Context) error {
	p, err := decodePatch(c)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	e := domain.Employee{
		Name:   p.Name.Value,
		Gender: p.Gender.Value,
		Email:  p.Email.Value,
	}
	if p.DeptID.Present() {
		dept := p.DeptID.Value
		e.DeptID = &dept
	}

	if errs := validation.Validate(e); errs != nil {
		return serviceutils.ResponseFail(c, keyErrorFields, errs)
	}

	if err := h.svc.Save(c.Request().Context(), &e); err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to create employee", err)
	}
	return serviceutils.ResponseSuccess(c, map[string]interface{}{keyEmpID: e.ID})
}

// GetHandler handles GET /emp/:id. An unknown id answers success with a null employee.
func (h *EmployeeHandler) GetHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid employee ID", err)
	}

	emp, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to get employee", err)
	}
	return serviceutils.ResponseSuccess(c, map[string]interface{}{keyEmp: emp})
}

// UpdateHandler handles PUT /emp/:id. Only the supplied fields are written.
func (h *EmployeeHandler) UpdateHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid employee ID", err)
	}

	p, err := decodePatch(c)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if p.ID.Present() && p.ID.Value != id {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid employee ID", domain.ErrIDMismatch)
	}
	p.ID = domain.Some(id)

	if errs := validation.ValidatePatch(p); errs != nil {
		return serviceutils.ResponseFail(c, keyErrorFields, errs)
	}

	if err := h.svc.Update(c.Request().Context(), p); err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to update employee", err)
	}
	return serviceutils.ResponseSuccess(c, nil)
}

// DeleteHandler handles DELETE /emp/:id where the segment is "7" or "1-2-3".
func (h *EmployeeHandler) DeleteHandler(c echo.Context) error {
	ids, batch, err := ParseIDs(c.Param("id"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid employee ID", err)
	}

	ctx := c.Request().Context()
	if batch {
		err = h.svc.DeleteBatch(ctx, ids)
	} else {
		err = h.svc.Delete(ctx, ids[0])
	}
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to delete employee", err)
	}
	return serviceutils.ResponseSuccess(c, nil)
}

// CheckUserHandler handles GET /checkuser?empName=
func (h *EmployeeHandler) CheckUserHandler(c echo.Context) error {
	name := c.QueryParam("empName")
	if !validation.ValidEmpName(name) {
		return serviceutils.ResponseFail(c, keyVaMsg, validation.MsgEmpName)
	}

	available, err := h.svc.CheckUser(c.Request().Context(), name)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to check username", err)
	}
	if !available {
		return serviceutils.ResponseFail(c, keyVaMsg, MsgUnavailable)
	}
	return serviceutils.ResponseSuccess(c, nil)
}

// ParseIDs reads a delete path segment. A segment containing "-" is a batch of ids;
// anything else is a single id, never a one-element batch.
func ParseIDs(raw string) (ids []int, batch bool, err error) {
	if !strings.Contains(raw, "-") {
		id, err := parseID(raw)
		if err != nil {
			return nil, false, err
		}
		return []int{id}, false, nil
	}

	seen := make(map[int]struct{})
	for _, part := range strings.Split(raw, "-") {
		id, err := parseID(part)
		if err != nil {
			return nil, true, err
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, true, nil
}

// parseID reads an emp_id, which is a 32-bit SERIAL column.
func parseID(raw string) (int, error) {
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
