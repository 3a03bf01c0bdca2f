package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edunova/academia/internal/app/models"
	"github.com/edunova/academia/internal/app/models/dto"
	"github.com/edunova/academia/internal/pkg/apperrors"
	"github.com/edunova/academia/internal/pkg/auth"
)

type authFakeAccounts struct {
	usersByEmail map[string]*models.User
	students     []*models.Student
	teachers     []*models.Teacher
	nextID       int64
}

func newAuthFakeAccounts() *authFakeAccounts {
	return &authFakeAccounts{usersByEmail: make(map[string]*models.User)}
}

func (f *authFakeAccounts) CreateUser(_ context.Context, user *models.User) (int64, error) {
	if _, ok := f.usersByEmail[user.Email]; ok {
		return 0, apperrors.ErrEmailAlreadyExists
	}
	f.nextID++
	stored := *user
	stored.ID = f.nextID
	f.usersByEmail[user.Email] = &stored
	return f.nextID, nil
}

func (f *authFakeAccounts) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.usersByEmail[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *authFakeAccounts) CreateStudent(_ context.Context, student *models.Student) (int64, error) {
	f.nextID++
	f.students = append(f.students, student)
	return f.nextID, nil
}

func (f *authFakeAccounts) CreateTeacher(_ context.Context, teacher *models.Teacher) (int64, error) {
	f.nextID++
	f.teachers = append(f.teachers, teacher)
	return f.nextID, nil
}

func newAuthFixture() (*AuthService, *authFakeAccounts) {
	accounts := newAuthFakeAccounts()
	jwt := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "test",
	})
	return NewAuthService(accounts, jwt), accounts
}

func registerStudent(t *testing.T, service *AuthService, email, password string) *models.Student {
	t.Helper()
	student, err := service.RegisterStudent(context.Background(), &dto.RegisterStudentRequest{
		Email: email, Password: password,
		FirstName: "Ada", LastName: "Lovelace",
		Code: "20260001", Cycle: 1,
	})
	require.NoError(t, err)
	return student
}

func TestRegisterStudent_HashesPasswordAndNormalizesEmail(t *testing.T) {
	service, accounts := newAuthFixture()

	student := registerStudent(t, service, "  Ada@Example.COM ", "s3cretpass")

	user := accounts.usersByEmail["ada@example.com"]
	require.NotNil(t, user)
	assert.Equal(t, models.RoleStudent, user.RoleType)
	assert.NotEqual(t, "s3cretpass", user.PasswordHash)
	assert.True(t, auth.CheckPassword(user.PasswordHash, "s3cretpass"))
	assert.Equal(t, "20260001", student.Code)
}

func TestRegisterStudent_MalformedCode(t *testing.T) {
	service, _ := newAuthFixture()

	_, err := service.RegisterStudent(context.Background(), &dto.RegisterStudentRequest{
		Email: "ada@example.com", Password: "s3cretpass",
		FirstName: "Ada", LastName: "Lovelace",
		Code: "ABC123", Cycle: 1,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestRegisterStudent_DuplicateEmail(t *testing.T) {
	service, _ := newAuthFixture()
	registerStudent(t, service, "ada@example.com", "s3cretpass")

	_, err := service.RegisterStudent(context.Background(), &dto.RegisterStudentRequest{
		Email: "ada@example.com", Password: "otherpass1",
		FirstName: "Ada", LastName: "Lovelace",
		Code: "20260002", Cycle: 1,
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestLogin_IssuesBearerToken(t *testing.T) {
	service, _ := newAuthFixture()
	registerStudent(t, service, "ada@example.com", "s3cretpass")

	token, err := service.Login(context.Background(), &dto.LoginRequest{
		Email: "ada@example.com", Password: "s3cretpass",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)
	assert.Positive(t, token.ExpiresIn)
}

func TestLogin_WrongPasswordAndUnknownEmailIndistinguishable(t *testing.T) {
	service, _ := newAuthFixture()
	registerStudent(t, service, "ada@example.com", "s3cretpass")

	_, wrongPassword := service.Login(context.Background(), &dto.LoginRequest{
		Email: "ada@example.com", Password: "wrongpass1",
	})
	_, unknownEmail := service.Login(context.Background(), &dto.LoginRequest{
		Email: "nobody@example.com", Password: "s3cretpass",
	})

	assert.ErrorIs(t, wrongPassword, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, apperrors.ErrInvalidCredentials)
}

func TestLogin_DisabledAccount(t *testing.T) {
	service, accounts := newAuthFixture()
	registerStudent(t, service, "ada@example.com", "s3cretpass")
	accounts.usersByEmail["ada@example.com"].IsActive = false

	_, err := service.Login(context.Background(), &dto.LoginRequest{
		Email: "ada@example.com", Password: "s3cretpass",
	})
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestRegisterTeacher_CreatesTeacherRole(t *testing.T) {
	service, accounts := newAuthFixture()
	specialty := "Mathematics"

	teacher, err := service.RegisterTeacher(context.Background(), &dto.RegisterTeacherRequest{
		Email: "turing@example.com", Password: "s3cretpass",
		FirstName: "Alan", LastName: "Turing",
		Specialty: &specialty,
	})
	require.NoError(t, err)

	user := accounts.usersByEmail["turing@example.com"]
	require.NotNil(t, user)
	assert.Equal(t, models.RoleTeacher, user.RoleType)
	require.NotNil(t, teacher.Specialty)
	assert.Equal(t, "Mathematics", *teacher.Specialty)
}
