package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	e.id, e.employee_code, e.full_name, e.role, e.pin_hash,
	e.shift_id, e.department_id, e.state, e.hire_date,
	e.probation_end_date, e.suspended_until, e.exit_date,
	e.last_working_day, e.eligible_for_rehire,
	e.created_at, e.updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FullName, &emp.Role, &emp.PINHash,
		&emp.ShiftID, &emp.DepartmentID, &emp.State, &emp.HireDate,
		&emp.ProbationEndDate, &emp.SuspendedUntil, &emp.ExitDate,
		&emp.LastWorkingDay, &emp.EligibleForRehire,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

func (r *employeeRepository) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			id, employee_code, full_name, role, pin_hash,
			shift_id, department_id, state, hire_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		emp.ID, emp.EmployeeCode, emp.FullName, emp.Role, emp.PINHash,
		nullable(emp.ShiftID), nullable(emp.DepartmentID), emp.State, emp.HireDate,
	).Scan(&emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return emp, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + employeeColumns + `, d.name, s.name
		FROM employees e
		LEFT JOIN departments d ON d.id = e.department_id
		LEFT JOIN shifts s ON s.id = e.shift_id
		WHERE e.id = $1
	`

	var emp employee.Employee
	err := q.QueryRow(ctx, query, id).Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FullName, &emp.Role, &emp.PINHash,
		&emp.ShiftID, &emp.DepartmentID, &emp.State, &emp.HireDate,
		&emp.ProbationEndDate, &emp.SuspendedUntil, &emp.ExitDate,
		&emp.LastWorkingDay, &emp.EligibleForRehire,
		&emp.CreatedAt, &emp.UpdatedAt,
		&emp.DepartmentName, &emp.ShiftName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

func (r *employeeRepository) GetByCode(ctx context.Context, employeeCode string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + employeeColumns + ` FROM employees e WHERE e.employee_code = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, employeeCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by code: %w", err)
	}
	return emp, nil
}

func (r *employeeRepository) UpdateState(ctx context.Context, emp employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET state = $2,
			probation_end_date = $3,
			suspended_until = $4,
			exit_date = $5,
			last_working_day = $6,
			eligible_for_rehire = $7,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		emp.ID, emp.State, emp.ProbationEndDate, emp.SuspendedUntil,
		emp.ExitDate, emp.LastWorkingDay, emp.EligibleForRehire,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + employeeColumns + `
		FROM employees e
		WHERE e.state IN ('probation', 'confirmed', 'extended')
		ORDER BY e.full_name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

func (r *employeeRepository) ListByDepartment(ctx context.Context, departmentID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + employeeColumns + `
		FROM employees e
		WHERE e.department_id = $1
		ORDER BY e.full_name
	`

	rows, err := q.Query(ctx, query, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list department employees: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	var out []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

// nullable maps an empty string to NULL for optional FK columns.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type departmentRepository struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) employee.DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Create(ctx context.Context, dept employee.Department) (employee.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `INSERT INTO departments (id, name) VALUES ($1, $2) RETURNING created_at, updated_at`

	if err := q.QueryRow(ctx, query, dept.ID, dept.Name).Scan(&dept.CreatedAt, &dept.UpdatedAt); err != nil {
		return employee.Department{}, fmt.Errorf("failed to create department: %w", err)
	}
	return dept, nil
}

func (r *departmentRepository) GetByID(ctx context.Context, id string) (employee.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, name, created_at, updated_at FROM departments WHERE id = $1`

	var dept employee.Department
	err := q.QueryRow(ctx, query, id).Scan(&dept.ID, &dept.Name, &dept.CreatedAt, &dept.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Department{}, employee.ErrDepartmentNotFound
		}
		return employee.Department{}, fmt.Errorf("failed to get department: %w", err)
	}
	return dept, nil
}

func (r *departmentRepository) List(ctx context.Context) ([]employee.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, name, created_at, updated_at FROM departments ORDER BY name`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var out []employee.Department
	for rows.Next() {
		var dept employee.Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.CreatedAt, &dept.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		out = append(out, dept)
	}
	return out, rows.Err()
}
