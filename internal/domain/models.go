package domain

// Employee represents a row of tbl_emp, with its department joined on read.
type Employee struct {
	ID         int         `json:"empId" form:"empId"`
	Name       string      `json:"empName" form:"empName" validate:"required,empname"`
	Gender     string      `json:"gender" form:"gender" validate:"omitempty,oneof=M F"`
	Email      string      `json:"email" form:"email" validate:"required,empemail"`
	DeptID     *int        `json:"dId" form:"dId"`
	Department *Department `json:"department,omitempty" form:"-"`
}

// Department represents a row of tbl_dept. It is read-only here.
type Department struct {
	ID   int    `json:"deptId"`
	Name string `json:"deptName"`
}
