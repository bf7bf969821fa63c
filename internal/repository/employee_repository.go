package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/locvowork/empcrud/internal/domain"
	"github.com/locvowork/empcrud/internal/repository/builder"
)

const (
	employeeTable   = "tbl_emp"
	departmentTable = "tbl_dept"
)

var employeeWithDeptColumns = []string{"e.emp_id", "e.emp_name", "e.gender", "e.email", "e.d_id", "d.dept_id", "d.dept_name"}

type employeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository creates a new instance of EmployeeRepository
func NewEmployeeRepository(db *sql.DB) domain.EmployeeRepository {
	return &employeeRepository{db: db}
}

// Insert writes only the columns that carry a value and assigns the generated id to e.
func (r *employeeRepository) Insert(ctx context.Context, e *domain.Employee) error {
	var cols []string
	var vals []interface{}
	add := func(col string, val interface{}) {
		cols = append(cols, col)
		vals = append(vals, val)
	}
	add("emp_name", e.Name)
	if e.Gender != "" {
		add("gender", e.Gender)
	}
	if e.Email != "" {
		add("email", e.Email)
	}
	if e.DeptID != nil {
		add("d_id", *e.DeptID)
	}

	query, args := builder.NewSQLBuilder().
		Insert(employeeTable, cols...).
		Values(vals...).
		Returning("emp_id").
		Build()

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&e.ID); err != nil {
		return fmt.Errorf("failed to insert employee: %w", err)
	}
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id int) (*domain.Employee, error) {
	query, args := selectWithDept().
		Where("e.emp_id = ?", id).
		Build()

	row := r.db.QueryRowContext(ctx, query, args...)
	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee %d: %w", id, err)
	}
	return e, nil
}

// UpdateSelective writes only the fields set on p. A patch without fields is a no-op.
func (r *employeeRepository) UpdateSelective(ctx context.Context, p domain.EmployeePatch) error {
	if !p.ID.Present() {
		return domain.ErrInvalidID
	}
	if p.Empty() {
		return nil
	}

	b := builder.NewSQLBuilder().Update(employeeTable)
	if p.Name.Set {
		b.Set("emp_name", nullable(p.Name))
	}
	if p.Gender.Set {
		b.Set("gender", nullable(p.Gender))
	}
	if p.Email.Set {
		b.Set("email", nullable(p.Email))
	}
	if p.DeptID.Set {
		b.Set("d_id", nullable(p.DeptID))
	}
	query, args := b.Where("emp_id = ?", p.ID.Value).Build()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update employee %d: %w", p.ID.Value, err)
	}
	return nil
}

func (r *employeeRepository) DeleteByID(ctx context.Context, id int) error {
	query, args := builder.NewSQLBuilder().
		Delete(employeeTable).
		Where("emp_id = ?", id).
		Build()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete employee %d: %w", id, err)
	}
	return nil
}

func (r *employeeRepository) DeleteBy(ctx context.Context, c *domain.EmployeeCriteria) error {
	if !c.HasPredicate() {
		return domain.ErrUnboundedDelete
	}
	b := builder.NewSQLBuilder().Delete(employeeTable)
	applyPredicates(b, c, "")
	query, args := b.Build()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete employees: %w", err)
	}
	return nil
}

func (r *employeeRepository) CountBy(ctx context.Context, c *domain.EmployeeCriteria) (int64, error) {
	b := builder.NewSQLBuilder().Count().From(employeeTable)
	applyPredicates(b, c, "")
	query, args := b.Build()

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return count, nil
}

func (r *employeeRepository) ListBy(ctx context.Context, c *domain.EmployeeCriteria, limit, offset int) ([]domain.Employee, error) {
	b := selectWithDept()
	applyPredicates(b, c, "e.")
	if order := c.Order(); order != "" {
		b.OrderBy("e." + order)
	}
	if limit > 0 {
		b.Limit(limit)
	}
	if offset > 0 {
		b.Offset(offset)
	}

	query, args := b.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]domain.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return employees, nil
}

func selectWithDept() *builder.SQLBuilder {
	return builder.NewSQLBuilder().
		Select(employeeWithDeptColumns...).
		From(employeeTable+" e").
		Join("LEFT", departmentTable+" d", "e.d_id = d.dept_id")
}

// applyPredicates translates the filters of c onto b. prefix qualifies columns when the statement is aliased.
func applyPredicates(b *builder.SQLBuilder, c *domain.EmployeeCriteria, prefix string) {
	if name, ok := c.Name(); ok {
		b.Where(prefix+"emp_name = ?", name)
	}
	if ids, ok := c.IDs(); ok {
		vals := make([]interface{}, len(ids))
		for i, id := range ids {
			vals[i] = id
		}
		b.WhereIn(prefix+"emp_id", vals...)
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(row rowScanner) (*domain.Employee, error) {
	var (
		e        domain.Employee
		gender   sql.NullString
		email    sql.NullString
		deptRef  sql.NullInt64
		deptID   sql.NullInt64
		deptName sql.NullString
	)
	if err := row.Scan(&e.ID, &e.Name, &gender, &email, &deptRef, &deptID, &deptName); err != nil {
		return nil, err
	}
	e.Gender = gender.String
	e.Email = email.String
	if deptRef.Valid {
		id := int(deptRef.Int64)
		e.DeptID = &id
	}
	if deptID.Valid {
		e.Department = &domain.Department{ID: int(deptID.Int64), Name: deptName.String}
	}
	return &e, nil
}

// nullable maps an explicit null to SQL NULL.
func nullable[T any](o domain.Optional[T]) interface{} {
	if o.Null {
		return nil
	}
	return o.Value
}
