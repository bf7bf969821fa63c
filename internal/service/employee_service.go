package service

import (
	"context"
	"fmt"

	"github.com/locvowork/empcrud/internal/domain"
	"github.com/locvowork/empcrud/internal/logger"
	"github.com/locvowork/empcrud/internal/pagination"
)

const orderByID = "emp_id"

// EmployeeService holds the employee use cases, one store round-trip each.
type EmployeeService interface {
	GetAll(ctx context.Context) ([]domain.Employee, error)
	ListPage(ctx context.Context, pageNum int) (*pagination.Page[domain.Employee], error)
	Save(ctx context.Context, e *domain.Employee) error
	Get(ctx context.Context, id int) (*domain.Employee, error)
	Update(ctx context.Context, p domain.EmployeePatch) error
	Delete(ctx context.Context, id int) error
	DeleteBatch(ctx context.Context, ids []int) error
	// CheckUser reports whether name is still available. The answer is advisory:
	// nothing stops a concurrent create from taking the name afterwards.
	CheckUser(ctx context.Context, name string) (bool, error)
	Search(ctx context.Context, query string) ([]domain.Employee, error)
}

// ListOptions sizes the pages of ListPage.
type ListOptions struct {
	PageSize      int
	NavigatePages int
}

type employeeService struct {
	repo    domain.EmployeeRepository
	indexer domain.EmployeeIndexer
	opts    ListOptions
}

// NewEmployeeService wires the service. A nil indexer disables the search mirror.
func NewEmployeeService(repo domain.EmployeeRepository, indexer domain.EmployeeIndexer, opts ListOptions) EmployeeService {
	if indexer == nil {
		indexer = NoopIndexer{}
	}
	if opts.PageSize <= 0 {
		opts.PageSize = pagination.DefaultPageSize
	}
	if opts.NavigatePages <= 0 {
		opts.NavigatePages = pagination.DefaultNavigatePages
	}
	return &employeeService{repo: repo, indexer: indexer, opts: opts}
}

func (s *employeeService) GetAll(ctx context.Context) ([]domain.Employee, error) {
	return s.repo.ListBy(ctx, domain.NewEmployeeCriteria().OrderBy(orderByID), 0, 0)
}

func (s *employeeService) ListPage(ctx context.Context, pageNum int) (*pagination.Page[domain.Employee], error) {
	req := pagination.Request{PageNum: pageNum, PageSize: s.opts.PageSize, NavigatePages: s.opts.NavigatePages}
	criteria := domain.NewEmployeeCriteria().OrderBy(orderByID)

	return pagination.Paginate(ctx, req,
		func(ctx context.Context) (int64, error) {
			return s.repo.CountBy(ctx, criteria)
		},
		func(ctx context.Context, limit, offset int) ([]domain.Employee, error) {
			return s.repo.ListBy(ctx, criteria, limit, offset)
		},
	)
}

func (s *employeeService) Save(ctx context.Context, e *domain.Employee) error {
	if err := s.repo.Insert(ctx, e); err != nil {
		return err
	}
	s.mirror(ctx, e.ID)
	return nil
}

func (s *employeeService) Get(ctx context.Context, id int) (*domain.Employee, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *employeeService) Update(ctx context.Context, p domain.EmployeePatch) error {
	if !p.ID.Present() {
		return domain.ErrInvalidID
	}
	if err := s.repo.UpdateSelective(ctx, p); err != nil {
		return err
	}
	if !p.Empty() {
		s.mirror(ctx, p.ID.Value)
	}
	return nil
}

func (s *employeeService) Delete(ctx context.Context, id int) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.unmirror(ctx, id)
	return nil
}

func (s *employeeService) DeleteBatch(ctx context.Context, ids []int) error {
	if err := s.repo.DeleteBy(ctx, domain.NewEmployeeCriteria().IDIn(ids...)); err != nil {
		return err
	}
	s.unmirror(ctx, ids...)
	return nil
}

func (s *employeeService) CheckUser(ctx context.Context, name string) (bool, error) {
	count, err := s.repo.CountBy(ctx, domain.NewEmployeeCriteria().NameEqualTo(name))
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (s *employeeService) Search(ctx context.Context, query string) ([]domain.Employee, error) {
	res, err := s.indexer.Search(ctx, query, 50)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return res, nil
}

// mirror re-reads the stored row so the index sees the joined department. Failures only log.
func (s *employeeService) mirror(ctx context.Context, id int) {
	if _, ok := s.indexer.(NoopIndexer); ok {
		return
	}
	e, err := s.repo.GetByID(ctx, id)
	if err != nil || e == nil {
		logger.WarnLog(ctx, "search mirror: reload employee %d: %v", id, err)
		return
	}
	if err := s.indexer.Index(ctx, *e); err != nil {
		logger.WarnLog(ctx, "search mirror: index employee %d: %v", id, err)
	}
}

func (s *employeeService) unmirror(ctx context.Context, ids ...int) {
	if err := s.indexer.Remove(ctx, ids...); err != nil {
		logger.WarnLog(ctx, "search mirror: remove employees %v: %v", ids, err)
	}
}

// NoopIndexer is used when no search index is configured.
type NoopIndexer struct{}

func (NoopIndexer) Index(context.Context, domain.Employee) error { return nil }

func (NoopIndexer) Remove(context.Context, ...int) error { return nil }

func (NoopIndexer) Search(context.Context, string, int) ([]domain.Employee, error) {
	return nil, domain.ErrSearchDisabled
}
