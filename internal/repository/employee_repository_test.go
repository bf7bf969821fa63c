package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/locvowork/empcrud/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectEmpWithDept = "SELECT e.emp_id, e.emp_name, e.gender, e.email, e.d_id, d.dept_id, d.dept_name FROM tbl_emp e LEFT JOIN tbl_dept d ON e.d_id = d.dept_id"

var empColumns = []string{"emp_id", "emp_name", "gender", "email", "d_id", "dept_id", "dept_name"}

func newMockRepo(t *testing.T) (domain.EmployeeRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewEmployeeRepository(db), mock
}

func TestEmployeeRepository_Insert(t *testing.T) {
	repo, mock := newMockRepo(t)
	dept := 2
	e := &domain.Employee{Name: "jdoe_1234", Gender: "M", Email: "jdoe@example.com", DeptID: &dept}

	mock.ExpectQuery("INSERT INTO tbl_emp (emp_name, gender, email, d_id) VALUES ($1, $2, $3, $4) RETURNING emp_id").
		WithArgs("jdoe_1234", "M", "jdoe@example.com", 2).
		WillReturnRows(sqlmock.NewRows([]string{"emp_id"}).AddRow(41))

	require.NoError(t, repo.Insert(context.Background(), e))
	assert.Equal(t, 41, e.ID)
}

func TestEmployeeRepository_InsertSkipsEmptyColumns(t *testing.T) {
	repo, mock := newMockRepo(t)
	e := &domain.Employee{Name: "jdoe_1234", Email: "jdoe@example.com"}

	mock.ExpectQuery("INSERT INTO tbl_emp (emp_name, email) VALUES ($1, $2) RETURNING emp_id").
		WithArgs("jdoe_1234", "jdoe@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"emp_id"}).AddRow(1))

	require.NoError(t, repo.Insert(context.Background(), e))
}

func TestEmployeeRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(selectEmpWithDept+" WHERE e.emp_id = $1").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(empColumns).AddRow(7, "jdoe_1234", "F", "jdoe@example.com", 1, 1, "Development"))

	e, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "jdoe_1234", e.Name)
	assert.Equal(t, "F", e.Gender)
	require.NotNil(t, e.DeptID)
	assert.Equal(t, 1, *e.DeptID)
	require.NotNil(t, e.Department)
	assert.Equal(t, "Development", e.Department.Name)
}

func TestEmployeeRepository_GetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(selectEmpWithDept + " WHERE e.emp_id = $1").
		WithArgs(404).
		WillReturnError(sql.ErrNoRows)

	e, err := repo.GetByID(context.Background(), 404)
	assert.NoError(t, err)
	assert.Nil(t, e)
}

func TestEmployeeRepository_GetByIDNullDepartment(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(selectEmpWithDept+" WHERE e.emp_id = $1").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(empColumns).AddRow(3, "jdoe_1234", nil, "jdoe@example.com", nil, nil, nil))

	e, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, e.DeptID)
	assert.Nil(t, e.Department)
	assert.Empty(t, e.Gender)
}

func TestEmployeeRepository_UpdateSelective(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE tbl_emp SET email = $1 WHERE emp_id = $2").
		WithArgs("new@example.com", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateSelective(context.Background(), domain.EmployeePatch{
		ID:    domain.Some(5),
		Email: domain.Some("new@example.com"),
	})
	require.NoError(t, err)
}

func TestEmployeeRepository_UpdateSelectiveNullDepartment(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE tbl_emp SET gender = $1, d_id = $2 WHERE emp_id = $3").
		WithArgs("F", nil, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateSelective(context.Background(), domain.EmployeePatch{
		ID:     domain.Some(5),
		Gender: domain.Some("F"),
		DeptID: domain.Null[int](),
	})
	require.NoError(t, err)
}

func TestEmployeeRepository_UpdateSelectiveNoFields(t *testing.T) {
	repo, _ := newMockRepo(t)
	err := repo.UpdateSelective(context.Background(), domain.EmployeePatch{ID: domain.Some(5)})
	assert.NoError(t, err)
}

func TestEmployeeRepository_UpdateSelectiveWithoutID(t *testing.T) {
	repo, _ := newMockRepo(t)
	err := repo.UpdateSelective(context.Background(), domain.EmployeePatch{Email: domain.Some("x@example.com")})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestEmployeeRepository_DeleteByIDZeroRows(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM tbl_emp WHERE emp_id = $1").
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.DeleteByID(context.Background(), 9))
}

func TestEmployeeRepository_DeleteBy(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM tbl_emp WHERE emp_id IN ($1, $2, $3)").
		WithArgs(1, 2, 3).
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := repo.DeleteBy(context.Background(), domain.NewEmployeeCriteria().IDIn(1, 2, 3, 2))
	assert.NoError(t, err)
}

func TestEmployeeRepository_DeleteByRequiresPredicate(t *testing.T) {
	repo, _ := newMockRepo(t)
	err := repo.DeleteBy(context.Background(), domain.NewEmployeeCriteria())
	assert.ErrorIs(t, err, domain.ErrUnboundedDelete)
}

func TestEmployeeRepository_CountBy(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT COUNT(*) FROM tbl_emp WHERE emp_name = $1").
		WithArgs("jdoe_1234").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := repo.CountBy(context.Background(), domain.NewEmployeeCriteria().NameEqualTo("jdoe_1234").OrderBy("emp_id"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestEmployeeRepository_ListBy(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(selectEmpWithDept + " ORDER BY e.emp_id LIMIT 5 OFFSET 10").
		WillReturnRows(sqlmock.NewRows(empColumns).
			AddRow(11, "emp_00011", "M", "e11@example.com", 1, 1, "Development").
			AddRow(12, "emp_00012", "F", "e12@example.com", 2, 2, "Testing"))

	list, err := repo.ListBy(context.Background(), domain.NewEmployeeCriteria().OrderBy("emp_id"), 5, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 11, list[0].ID)
	assert.Equal(t, "Testing", list[1].Department.Name)
}

func TestEmployeeRepository_ListByError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(selectEmpWithDept).WillReturnError(errors.New("connection reset"))

	_, err := repo.ListBy(context.Background(), nil, 0, 0)
	assert.Error(t, err)
}

func TestDepartmentRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT dept_id, dept_name FROM tbl_dept ORDER BY dept_id").
		WillReturnRows(sqlmock.NewRows([]string{"dept_id", "dept_name"}).AddRow(1, "Development").AddRow(2, "Testing"))

	depts, err := NewDepartmentRepository(db).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Department{{ID: 1, Name: "Development"}, {ID: 2, Name: "Testing"}}, depts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
