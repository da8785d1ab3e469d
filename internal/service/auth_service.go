package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/daehan-coding/grader-go-api/internal/dto"
	"github.com/daehan-coding/grader-go-api/internal/models"
	"github.com/daehan-coding/grader-go-api/internal/repository"
)

// ErrStudentNotRegistered indicates the 5-digit code matches no roster entry.
var ErrStudentNotRegistered = errors.New("student not registered")

// ErrStudentNameMismatch indicates the name does not match the roster record.
var ErrStudentNameMismatch = errors.New("student name mismatch")

// ErrNoEnrollments indicates the student is enrolled in no class group.
var ErrNoEnrollments = errors.New("student has no enrollments")

// ErrInvalidCredentials indicates an instructor login failure.
var ErrInvalidCredentials = errors.New("invalid credentials")

const tokenLifetime = 12 * time.Hour

// AuthService issues JWTs for students and instructors.
type AuthService interface {
	StudentLogin(ctx context.Context, payload dto.StudentLoginRequest) (dto.StudentLoginResponse, error)
	AdminLogin(ctx context.Context, payload dto.AdminLoginRequest) (dto.AdminLoginResponse, error)
	EnsureDefaultAdmin(ctx context.Context, username, password string) error
}

type authService struct {
	students    repository.StudentRepository
	classGroups repository.ClassGroupRepository
	admins      repository.AdminUserRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	secret      []byte
}

// NewAuthService constructs the auth service.
func NewAuthService(
	studentRepo repository.StudentRepository,
	classGroupRepo repository.ClassGroupRepository,
	adminRepo repository.AdminUserRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
	jwtSecret string,
) AuthService {
	return &authService{
		students:    studentRepo,
		classGroups: classGroupRepo,
		admins:      adminRepo,
		validator:   validate,
		logger:      logger.With().Str("component", "auth_service").Logger(),
		secret:      []byte(jwtSecret),
	}
}

// StudentLogin verifies the roster triple and name, then issues a student token.
// The name check mirrors the roster import: it exists to catch typos, not as a
// real secret.
func (s *authService) StudentLogin(ctx context.Context, payload dto.StudentLoginRequest) (dto.StudentLoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentLoginResponse{}, err
	}

	grade, classNo, studentNo, err := models.ParseStudentCode(strings.TrimSpace(payload.StudentCode))
	if err != nil {
		return dto.StudentLoginResponse{}, ErrStudentNotRegistered
	}

	student, err := s.students.GetByTriple(ctx, grade, classNo, studentNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentLoginResponse{}, ErrStudentNotRegistered
		}
		return dto.StudentLoginResponse{}, err
	}

	if student.Name != strings.TrimSpace(payload.Name) {
		return dto.StudentLoginResponse{}, ErrStudentNameMismatch
	}

	groups, err := s.classGroups.ListByStudent(ctx, student.ID)
	if err != nil {
		return dto.StudentLoginResponse{}, err
	}
	if len(groups) == 0 {
		return dto.StudentLoginResponse{}, ErrNoEnrollments
	}

	token, err := s.issueToken(student.ID, "student", student.Name)
	if err != nil {
		return dto.StudentLoginResponse{}, err
	}

	groupResponses := make([]dto.ClassGroupResponse, 0, len(groups))
	for _, group := range groups {
		groupResponses = append(groupResponses, dto.NewClassGroupResponse(group))
	}

	return dto.StudentLoginResponse{
		Token:       token,
		Student:     dto.NewStudentResponse(student),
		ClassGroups: groupResponses,
	}, nil
}

// AdminLogin verifies instructor credentials and issues an admin token.
func (s *authService) AdminLogin(ctx context.Context, payload dto.AdminLoginRequest) (dto.AdminLoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AdminLoginResponse{}, err
	}

	admin, err := s.admins.GetByUsername(ctx, strings.TrimSpace(payload.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AdminLoginResponse{}, ErrInvalidCredentials
		}
		return dto.AdminLoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.AdminLoginResponse{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(admin.ID, "admin", admin.Username)
	if err != nil {
		return dto.AdminLoginResponse{}, err
	}

	return dto.AdminLoginResponse{Token: token, Username: admin.Username}, nil
}

// EnsureDefaultAdmin creates the bootstrap instructor account when absent.
func (s *authService) EnsureDefaultAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil
	}

	_, err := s.admins.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.AdminUser{Username: username, PasswordHash: string(hash)}
	if err := s.admins.Create(ctx, &admin); err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}

	s.logger.Info().Str("username", username).Msg("default admin created")
	return nil
}

func (s *authService) issueToken(subject uint, role, name string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", subject),
		"role": role,
		"name": name,
		"iat":  now.Unix(),
		"exp":  now.Add(tokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}
