package database

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/locvowork/empcrud/internal/logger"
)

const (
	selectDeptIDsSQL = `SELECT dept_id FROM tbl_dept ORDER BY dept_id`
	insertEmpSQL     = `INSERT INTO tbl_emp (emp_name, gender, email, d_id) VALUES ($1, $2, $3, $4)`
	deleteEmpsSQL    = `DELETE FROM tbl_emp`
	maxEmpIDSQL      = `SELECT COALESCE(MAX(emp_id), 0) FROM tbl_emp`
)

var firstNames = []string{"alice", "bob", "carol", "david", "erin", "frank", "grace", "henry", "ivy", "jack"}

type DataSeeder struct {
	db  *sql.DB
	rng *rand.Rand
}

func NewDataSeeder(db *sql.DB) *DataSeeder {
	return &DataSeeder{db: db, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// SeedData inserts count employees spread over the existing departments in one transaction.
// Every generated name and email passes the create-time validation rules. Name suffixes
// continue after the highest existing emp_id, so repeated runs do not reuse names.
func (ds *DataSeeder) SeedData(ctx context.Context, count int) error {
	if count <= 0 {
		return fmt.Errorf("seed count must be positive, got %d", count)
	}
	start := time.Now()

	deptIDs, err := ds.departmentIDs(ctx)
	if err != nil {
		return err
	}

	tx, err := ds.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var base int
	if err := tx.QueryRowContext(ctx, maxEmpIDSQL).Scan(&base); err != nil {
		return fmt.Errorf("failed to read max emp_id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertEmpSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := base + 1; i <= base+count; i++ {
		name := fmt.Sprintf("%s_%05d", firstNames[ds.rng.Intn(len(firstNames))], i)
		gender := "M"
		if ds.rng.Intn(2) == 0 {
			gender = "F"
		}
		var dept interface{}
		if len(deptIDs) > 0 {
			dept = deptIDs[ds.rng.Intn(len(deptIDs))]
		}
		if _, err := stmt.ExecContext(ctx, name, gender, name+"@example.com", dept); err != nil {
			return fmt.Errorf("failed to insert employee %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logger.InfoLog(ctx, "seeded %d employees in %v", count, time.Since(start))
	return nil
}

func (ds *DataSeeder) departmentIDs(ctx context.Context) ([]int, error) {
	rows, err := ds.db.QueryContext(ctx, selectDeptIDsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ClearData removes every employee. Departments are reference data and stay.
func (ds *DataSeeder) ClearData(ctx context.Context) error {
	res, err := ds.db.ExecContext(ctx, deleteEmpsSQL)
	if err != nil {
		return fmt.Errorf("failed to delete employees: %w", err)
	}
	n, _ := res.RowsAffected()
	logger.InfoLog(ctx, "cleared %d employees", n)
	return nil
}

type SeedPreset string

const (
	PresetSmall  SeedPreset = "small"
	PresetMedium SeedPreset = "medium"
	PresetLarge  SeedPreset = "large"
	PresetXLarge SeedPreset = "xlarge"
)

// GetPresetCount returns the number of employees a preset seeds.
func GetPresetCount(preset SeedPreset) int {
	switch preset {
	case PresetSmall:
		return 20
	case PresetMedium:
		return 200
	case PresetLarge:
		return 1000
	case PresetXLarge:
		return 10000
	default:
		return 200
	}
}
