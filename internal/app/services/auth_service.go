package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/edunova/academia/internal/app/models"
	"github.com/edunova/academia/internal/app/models/dto"
	"github.com/edunova/academia/internal/pkg/apperrors"
	"github.com/edunova/academia/internal/pkg/auth"
	"github.com/edunova/academia/internal/pkg/logger"
	"github.com/edunova/academia/internal/pkg/validation"
)

// accountStore is the persistence surface for user accounts and the
// student and teacher profiles attached to them.
type accountStore interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateStudent(ctx context.Context, student *models.Student) (int64, error)
	CreateTeacher(ctx context.Context, teacher *models.Teacher) (int64, error)
}

// AuthService handles registration and credential authentication.
type AuthService struct {
	accounts accountStore
	jwt      *auth.JWTService
}

// NewAuthService creates a new auth service instance
func NewAuthService(accounts accountStore, jwt *auth.JWTService) *AuthService {
	return &AuthService{
		accounts: accounts,
		jwt:      jwt,
	}
}

// Login authenticates credentials and issues an access token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.accounts.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		logger.Warn().Str("email", user.Email).Msg("Failed login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	}, nil
}

// RegisterStudent creates a user account with an attached student profile.
func (s *AuthService) RegisterStudent(ctx context.Context, req *dto.RegisterStudentRequest) (*models.Student, error) {
	code := strings.TrimSpace(req.Code)
	if !validation.ValidStudentCode(code) {
		return nil, fmt.Errorf("%w: malformed student code %q", apperrors.ErrValidationFailed, code)
	}

	user, err := s.createUser(ctx, req.Email, req.Password, req.FirstName, req.LastName, models.RoleStudent)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		UserID: user.ID,
		Code:   code,
		Cycle:  req.Cycle,
	}

	id, err := s.accounts.CreateStudent(ctx, student)
	if err != nil {
		return nil, err
	}
	student.ID = id
	student.User = user

	logger.Info().Int64("studentID", id).Str("code", student.Code).Msg("Student registered")

	return student, nil
}

// RegisterTeacher creates a user account with an attached teacher profile.
func (s *AuthService) RegisterTeacher(ctx context.Context, req *dto.RegisterTeacherRequest) (*models.Teacher, error) {
	user, err := s.createUser(ctx, req.Email, req.Password, req.FirstName, req.LastName, models.RoleTeacher)
	if err != nil {
		return nil, err
	}

	teacher := &models.Teacher{
		UserID:    user.ID,
		Specialty: req.Specialty,
	}

	id, err := s.accounts.CreateTeacher(ctx, teacher)
	if err != nil {
		return nil, err
	}
	teacher.ID = id
	teacher.User = user

	logger.Info().Int64("teacherID", id).Msg("Teacher registered")

	return teacher, nil
}

func (s *AuthService) createUser(ctx context.Context, email, password, firstName, lastName string, role models.RoleType) (*models.User, error) {
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        normalizeEmail(email),
		PasswordHash: passwordHash,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		RoleType:     role,
		IsActive:     true,
	}

	id, err := s.accounts.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
