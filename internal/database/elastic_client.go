package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/locvowork/empcrud/internal/domain"
	"github.com/olivere/elastic/v7"
)

const employeeMapping = `{
  "mappings": {
    "properties": {
      "empId":    {"type": "integer"},
      "empName":  {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "gender":   {"type": "keyword"},
      "email":    {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "dId":      {"type": "integer"},
      "deptName": {"type": "text"}
    }
  }
}`

// EmployeeDoc is the search-side copy of an employee, keyed by emp id.
type EmployeeDoc struct {
	EmpID    int    `json:"empId"`
	EmpName  string `json:"empName"`
	Gender   string `json:"gender,omitempty"`
	Email    string `json:"email"`
	DeptID   *int   `json:"dId,omitempty"`
	DeptName string `json:"deptName,omitempty"`
}

// NewEmployeeDoc flattens e and its joined department.
func NewEmployeeDoc(e domain.Employee) EmployeeDoc {
	doc := EmployeeDoc{
		EmpID:   e.ID,
		EmpName: e.Name,
		Gender:  e.Gender,
		Email:   e.Email,
		DeptID:  e.DeptID,
	}
	if e.Department != nil {
		doc.DeptName = e.Department.Name
	}
	return doc
}

// Employee rebuilds the domain value from the document.
func (d EmployeeDoc) Employee() domain.Employee {
	e := domain.Employee{
		ID:     d.EmpID,
		Name:   d.EmpName,
		Gender: d.Gender,
		Email:  d.Email,
		DeptID: d.DeptID,
	}
	if d.DeptID != nil {
		e.Department = &domain.Department{ID: *d.DeptID, Name: d.DeptName}
	}
	return e
}

// ElasticSearchClient mirrors employees into one Elasticsearch 7.x index.
// It satisfies domain.EmployeeIndexer.
type ElasticSearchClient struct {
	client *elastic.Client
	index  string
}

// NewElasticSearchClient connects to url without sniffing, which breaks behind Docker and proxies.
func NewElasticSearchClient(url, index string) (*ElasticSearchClient, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	return &ElasticSearchClient{client: client, index: index}, nil
}

// ResetIndex drops the index if present and recreates it with the employee mapping.
func (es *ElasticSearchClient) ResetIndex(ctx context.Context) error {
	exists, err := es.client.IndexExists(es.index).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", es.index, err)
	}
	if exists {
		if _, err := es.client.DeleteIndex(es.index).Do(ctx); err != nil {
			return fmt.Errorf("failed to delete index %s: %w", es.index, err)
		}
	}
	if _, err := es.client.CreateIndex(es.index).BodyString(employeeMapping).Do(ctx); err != nil {
		return fmt.Errorf("failed to create index %s: %w", es.index, err)
	}
	return nil
}

// Index upserts one employee and refreshes so the change is searchable at once.
func (es *ElasticSearchClient) Index(ctx context.Context, e domain.Employee) error {
	_, err := es.client.Index().
		Index(es.index).
		Id(strconv.Itoa(e.ID)).
		BodyJson(NewEmployeeDoc(e)).
		Refresh("true").
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to index employee %d: %w", e.ID, err)
	}
	return nil
}

// Remove deletes the documents of ids in one bulk call. Missing documents are not an error.
func (es *ElasticSearchClient) Remove(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	bulk := es.client.Bulk().Index(es.index)
	for _, id := range ids {
		bulk.Add(elastic.NewBulkDeleteRequest().Id(strconv.Itoa(id)))
	}
	res, err := bulk.Refresh("true").Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to remove employees %v: %w", ids, err)
	}
	return firstBulkError(res)
}

// Search runs a full-text match over name, email and department name.
func (es *ElasticSearchClient) Search(ctx context.Context, query string, size int) ([]domain.Employee, error) {
	res, err := es.client.Search().
		Index(es.index).
		Query(elastic.NewMultiMatchQuery(query, "empName", "email", "deptName")).
		Size(size).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	emps := make([]domain.Employee, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var doc EmployeeDoc
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode hit %s: %w", hit.Id, err)
		}
		emps = append(emps, doc.Employee())
	}
	return emps, nil
}

// BulkIndexEmployees indexes docs in one request.
func (es *ElasticSearchClient) BulkIndexEmployees(ctx context.Context, docs []EmployeeDoc) error {
	if len(docs) == 0 {
		return nil
	}
	bulk := es.client.Bulk().Index(es.index)
	for _, doc := range docs {
		bulk.Add(elastic.NewBulkIndexRequest().Id(strconv.Itoa(doc.EmpID)).Doc(doc))
	}
	res, err := bulk.Refresh("true").Do(ctx)
	if err != nil {
		return fmt.Errorf("bulk index failed: %w", err)
	}
	return firstBulkError(res)
}

func firstBulkError(res *elastic.BulkResponse) error {
	if res == nil || !res.Errors {
		return nil
	}
	for _, item := range res.Items {
		for _, op := range item {
			if op.Error != nil {
				return fmt.Errorf("bulk item %s failed: %s", op.Id, op.Error.Reason)
			}
		}
	}
	return nil
}
