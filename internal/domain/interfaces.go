package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidID       = errors.New("invalid employee id")
	ErrIDMismatch      = errors.New("body empId does not match path id")
	ErrUnboundedDelete = errors.New("refusing to delete without a predicate")
	ErrSearchDisabled  = errors.New("search index is not configured")
)

// EmployeeRepository defines the interface for employee data access
type EmployeeRepository interface {
	Insert(ctx context.Context, e *Employee) error
	// GetByID returns nil, nil when no employee has the id.
	GetByID(ctx context.Context, id int) (*Employee, error)
	UpdateSelective(ctx context.Context, p EmployeePatch) error
	DeleteByID(ctx context.Context, id int) error
	DeleteBy(ctx context.Context, c *EmployeeCriteria) error
	CountBy(ctx context.Context, c *EmployeeCriteria) (int64, error)
	// ListBy returns the matching employees with their departments joined. A limit of 0 means no limit.
	ListBy(ctx context.Context, c *EmployeeCriteria, limit, offset int) ([]Employee, error)
}

// DepartmentRepository defines the interface for department data access
type DepartmentRepository interface {
	List(ctx context.Context) ([]Department, error)
}

// EmployeeIndexer mirrors employee writes into a search index.
type EmployeeIndexer interface {
	Index(ctx context.Context, e Employee) error
	Remove(ctx context.Context, ids ...int) error
	Search(ctx context.Context, query string, size int) ([]Employee, error)
}
