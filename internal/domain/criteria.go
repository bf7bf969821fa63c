package domain

// EmployeeCriteria describes which employees a query or delete targets and in which order.
// Predicates are ANDed together.
type EmployeeCriteria struct {
	name    *string
	ids     []int
	hasIDs  bool
	orderBy string
}

// NewEmployeeCriteria returns a criteria that matches every employee.
func NewEmployeeCriteria() *EmployeeCriteria {
	return &EmployeeCriteria{}
}

// NameEqualTo restricts matches to employees with exactly this name.
func (c *EmployeeCriteria) NameEqualTo(name string) *EmployeeCriteria {
	c.name = &name
	return c
}

// IDIn restricts matches to the given ids. An empty set matches nothing.
func (c *EmployeeCriteria) IDIn(ids ...int) *EmployeeCriteria {
	seen := make(map[int]struct{}, len(ids))
	c.ids = c.ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		c.ids = append(c.ids, id)
	}
	c.hasIDs = true
	return c
}

// OrderBy sets the ordering clause, e.g. "emp_id" or "emp_id DESC".
func (c *EmployeeCriteria) OrderBy(clause string) *EmployeeCriteria {
	c.orderBy = clause
	return c
}

// Name returns the name predicate, if any.
func (c *EmployeeCriteria) Name() (string, bool) {
	if c == nil || c.name == nil {
		return "", false
	}
	return *c.name, true
}

// IDs returns the id set predicate, if any.
func (c *EmployeeCriteria) IDs() ([]int, bool) {
	if c == nil || !c.hasIDs {
		return nil, false
	}
	return c.ids, true
}

// Order returns the ordering clause, empty when unordered.
func (c *EmployeeCriteria) Order() string {
	if c == nil {
		return ""
	}
	return c.orderBy
}

// HasPredicate reports whether the criteria narrows the match set at all.
func (c *EmployeeCriteria) HasPredicate() bool {
	if c == nil {
		return false
	}
	return c.name != nil || c.hasIDs
}
