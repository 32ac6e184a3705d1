package service

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/Astemirdum/library-issue-service/library/internal/errs"
	"github.com/Astemirdum/library-issue-service/library/internal/model"
	"github.com/Astemirdum/library-issue-service/pkg/auth"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

func (s *Service) SignUp(ctx context.Context, req model.SignUpRequest) (model.User, error) {
	if req.Role == auth.RoleAdmin && !s.validAdminKey(req.AdminKey) {
		return model.User{}, errors.Wrap(errs.ErrInvalidArgument, "invalid admin key")
	}
	branch := req.Branch
	if req.Role == auth.RoleAdmin {
		branch = ""
	}
	return s.createUser(ctx, req.Name, req.Email, branch, req.Password, req.Role)
}

func (s *Service) validAdminKey(key string) bool {
	if s.adminKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(s.adminKey)) == 1
}

func (s *Service) createUser(ctx context.Context, name, email, branch, password string, role auth.Role) (model.User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return model.User{}, err
	}
	return s.repo.CreateUser(ctx, model.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        normalizeEmail(email),
		Branch:       branch,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	})
}

func (s *Service) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return model.LoginResponse{}, err
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.LoginResponse{}, errors.Wrap(errs.ErrInvalidArgument, "invalid credentials")
	}
	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return model.LoginResponse{}, err
	}
	return model.LoginResponse{
		Message: "Login successful",
		Token:   token,
		User:    model.UserBrief{ID: user.ID, Role: user.Role},
	}, nil
}

func (s *Service) Profile(ctx context.Context, id uuid.UUID) (model.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) ListStudents(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx, auth.RoleStudent)
}

func (s *Service) CreateStudent(ctx context.Context, in model.StudentInput) (model.User, error) {
	return s.createUser(ctx, in.Name, in.Email, in.Branch, in.Password, auth.RoleStudent)
}

func (s *Service) UpdateStudent(ctx context.Context, id uuid.UUID, in model.StudentUpdate) (model.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if user.Role != auth.RoleStudent {
		return model.User{}, errors.Wrap(errs.ErrNotFound, "student")
	}
	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Email != "" {
		user.Email = normalizeEmail(in.Email)
	}
	if in.Branch != "" {
		user.Branch = in.Branch
	}
	if in.Password != "" {
		if user.PasswordHash, err = hashPassword(in.Password); err != nil {
			return model.User{}, err
		}
	}
	return s.repo.UpdateUser(ctx, user)
}

func (s *Service) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteUser(ctx, id, auth.RoleStudent)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "bcrypt.GenerateFromPassword")
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
