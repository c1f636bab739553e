package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/auth"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/jwt"
)

// ServiceImpl implements auth.AuthService with employee code + PIN
// credentials. Login failures are deliberately indistinguishable
// between unknown code and wrong PIN.
type ServiceImpl struct {
	employee.EmployeeRepository
	jwtService jwt.Service
}

func NewService(employeeRepository employee.EmployeeRepository, jwtService jwt.Service) *ServiceImpl {
	return &ServiceImpl{
		EmployeeRepository: employeeRepository,
		jwtService:         jwtService,
	}
}

func (s *ServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByCode(ctx, req.EmployeeCode)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PINHash), []byte(req.PIN)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	if !emp.State.IsActive() {
		return auth.TokenResponse{}, auth.ErrEmployeeNotActive
	}

	return s.issueTokens(emp)
}

func (s *ServiceImpl) Refresh(ctx context.Context, refreshToken string) (auth.TokenResponse, error) {
	if s.jwtService.IsTokenRevoked(refreshToken) {
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}

	employeeID, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}
	if !emp.State.IsActive() {
		return auth.TokenResponse{}, auth.ErrEmployeeNotActive
	}

	// Rotate: the old refresh token dies with the exchange.
	s.jwtService.RevokeToken(refreshToken)

	return s.issueTokens(emp)
}

func (s *ServiceImpl) Logout(_ context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	s.jwtService.RevokeToken(refreshToken)
	slog.Debug("refresh token revoked on logout")
	return nil
}

func (s *ServiceImpl) issueTokens(emp employee.Employee) (auth.TokenResponse, error) {
	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(emp.ID, emp.EmployeeCode, string(emp.Role))
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, refreshExp, err := s.jwtService.GenerateRefreshToken(emp.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:  accessToken,
		ExpiresAt:    expiresAt,
		RefreshToken: refreshToken,
		RefreshExp:   refreshExp,
		EmployeeID:   emp.ID,
		Role:         string(emp.Role),
	}, nil
}
