package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/locvowork/empcrud/internal/domain"
	"github.com/locvowork/empcrud/internal/repository/builder"
)

type departmentRepository struct {
	db *sql.DB
}

// NewDepartmentRepository creates a new instance of DepartmentRepository
func NewDepartmentRepository(db *sql.DB) domain.DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	query, args := builder.NewSQLBuilder().
		Select("dept_id", "dept_name").
		From(departmentTable).
		OrderBy("dept_id").
		Build()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	depts := make([]domain.Department, 0)
	for rows.Next() {
		var d domain.Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		depts = append(depts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return depts, nil
}
