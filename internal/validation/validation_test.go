package validation

import (
	"testing"

	"github.com/locvowork/empcrud/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidEmpName(t *testing.T) {
	tests := map[string]bool{
		"ab":                  false,
		"validName123":        true,
		"user_name-1":         true,
		"abcde":               false,
		"abcdefghijklmnopq":   false,
		"张三":                  true,
		"张三李四王五":              false,
		"张":                   false,
		"has space":           false,
		"":                    false,
		"validName123\nabcde": false,
	}
	for name, want := range tests {
		assert.Equal(t, want, ValidEmpName(name), "name %q", name)
	}
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("jdoe@example.com"))
	assert.True(t, ValidEmail("j.doe-1@mail.example.org"))
	assert.False(t, ValidEmail("jdoe@"))
	assert.False(t, ValidEmail("JDOE@EXAMPLE.COM"))
	assert.False(t, ValidEmail("not-an-email"))
}

func TestValidate_CollectsEveryViolation(t *testing.T) {
	errs := Validate(domain.Employee{Name: "ab", Gender: "X"})

	assert.Len(t, errs, 3)
	assert.Equal(t, MsgEmpName, errs["empName"])
	assert.Equal(t, "email is required", errs["email"])
	assert.Equal(t, MsgGender, errs["gender"])
}

func TestValidate_Valid(t *testing.T) {
	assert.Nil(t, Validate(domain.Employee{Name: "validName123", Email: "v@example.com", Gender: "M"}))
	assert.Nil(t, Validate(domain.Employee{Name: "validName123", Email: "v@example.com"}))
}

func TestValidatePatch(t *testing.T) {
	assert.Nil(t, ValidatePatch(domain.EmployeePatch{Email: domain.Some("new@example.com")}))
	assert.Nil(t, ValidatePatch(domain.EmployeePatch{DeptID: domain.Null[int]()}))

	errs := ValidatePatch(domain.EmployeePatch{
		Name:   domain.Null[string](),
		Email:  domain.Some("bad"),
		Gender: domain.Some("Q"),
	})
	assert.Equal(t, "empName is required", errs["empName"])
	assert.Equal(t, MsgEmail, errs["email"])
	assert.Equal(t, MsgGender, errs["gender"])
}
