package service

import (
	"context"

	"github.com/locvowork/empcrud/internal/domain"
)

// DepartmentService lists the departments an employee can belong to.
type DepartmentService interface {
	List(ctx context.Context) ([]domain.Department, error)
}

type departmentService struct {
	repo domain.DepartmentRepository
}

func NewDepartmentService(repo domain.DepartmentRepository) DepartmentService {
	return &departmentService{repo: repo}
}

func (s *departmentService) List(ctx context.Context) ([]domain.Department, error) {
	return s.repo.List(ctx)
}
