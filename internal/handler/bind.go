package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/empcrud/internal/domain"
)

const multipartMemory = 32 << 20

// decodePatch reads employee fields from a JSON or form-encoded body, keeping track of
// which fields were supplied. Query string values never count as supplied fields.
func decodePatch(c echo.Context) (domain.EmployeePatch, error) {
	var p domain.EmployeePatch
	req := c.Request()
	ctype := req.Header.Get(echo.HeaderContentType)

	if strings.HasPrefix(ctype, echo.MIMEApplicationJSON) {
		if err := json.NewDecoder(req.Body).Decode(&p); err != nil && !errors.Is(err, io.EOF) {
			return p, err
		}
		return p, checkRanges(p)
	}

	var err error
	if strings.HasPrefix(ctype, echo.MIMEMultipartForm) {
		err = req.ParseMultipartForm(multipartMemory)
	} else {
		err = req.ParseForm()
	}
	if err != nil {
		return p, err
	}
	form := req.PostForm
	if v, ok := form["empId"]; ok {
		if p.ID, err = formInt("empId", v[0]); err != nil {
			return p, err
		}
	}
	if v, ok := form["empName"]; ok {
		p.Name = domain.Some(v[0])
	}
	if v, ok := form["gender"]; ok {
		p.Gender = domain.Some(v[0])
	}
	if v, ok := form["email"]; ok {
		p.Email = domain.Some(v[0])
	}
	if v, ok := form["dId"]; ok {
		if p.DeptID, err = formInt("dId", v[0]); err != nil {
			return p, err
		}
	}
	return p, nil
}

// formInt parses an integer form value; an empty value is an explicit null.
func formInt(field, raw string) (domain.Optional[int], error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Null[int](), nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return domain.Optional[int]{}, fmt.Errorf("%s: %w", field, err)
	}
	return domain.Some(int(v)), nil
}

// checkRanges rejects JSON ids that do not fit the 32-bit id columns.
func checkRanges(p domain.EmployeePatch) error {
	for field, o := range map[string]domain.Optional[int]{"empId": p.ID, "dId": p.DeptID} {
		if o.Present() && (o.Value > math.MaxInt32 || o.Value < math.MinInt32) {
			return fmt.Errorf("%s: %d is out of range", field, o.Value)
		}
	}
	return nil
}
