package employee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/shift"
)

// ServiceImpl implements employee.EmployeeService. New employees start
// in Onboarding; the lifecycle service moves them from there.
type ServiceImpl struct {
	employee.EmployeeRepository
	employee.DepartmentRepository
	shiftRepo shift.ShiftRepository
}

func NewService(
	employeeRepository employee.EmployeeRepository,
	departmentRepository employee.DepartmentRepository,
	shiftRepository shift.ShiftRepository,
) *ServiceImpl {
	return &ServiceImpl{
		EmployeeRepository:   employeeRepository,
		DepartmentRepository: departmentRepository,
		shiftRepo:            shiftRepository,
	}
}

func (s *ServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if _, err := s.EmployeeRepository.GetByCode(ctx, req.EmployeeCode); err == nil {
		return employee.EmployeeResponse{}, employee.ErrEmployeeCodeExists
	} else if !errors.Is(err, employee.ErrEmployeeNotFound) {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check employee code: %w", err)
	}

	if req.DepartmentID != "" {
		if _, err := s.DepartmentRepository.GetByID(ctx, req.DepartmentID); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}

	shiftID := req.ShiftID
	if shiftID == "" {
		def, err := s.shiftRepo.GetDefault(ctx)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to resolve default shift: %w", err)
		}
		shiftID = def.ID
	} else if _, err := s.shiftRepo.GetByID(ctx, shiftID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	pinHash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to hash PIN: %w", err)
	}

	hireDate, _ := time.Parse("2006-01-02", req.HireDate)
	created, err := s.EmployeeRepository.Create(ctx, employee.Employee{
		ID:           uuid.New().String(),
		EmployeeCode: req.EmployeeCode,
		FullName:     req.FullName,
		Role:         employee.Role(req.Role),
		PINHash:      string(pinHash),
		ShiftID:      shiftID,
		DepartmentID: req.DepartmentID,
		State:        employee.StateOnboarding,
		HireDate:     hireDate,
	})
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return employee.ToEmployeeResponse(created), nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToEmployeeResponse(emp), nil
}

func (s *ServiceImpl) List(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, employee.ToEmployeeResponse(emp))
	}
	return responses, nil
}

func (s *ServiceImpl) CreateDepartment(ctx context.Context, name string) (employee.Department, error) {
	if name == "" {
		return employee.Department{}, fmt.Errorf("department name is required")
	}
	dept, err := s.DepartmentRepository.Create(ctx, employee.Department{
		ID:   uuid.New().String(),
		Name: name,
	})
	if err != nil {
		return employee.Department{}, fmt.Errorf("failed to create department: %w", err)
	}
	return dept, nil
}

func (s *ServiceImpl) ListDepartments(ctx context.Context) ([]employee.Department, error) {
	departments, err := s.DepartmentRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}
