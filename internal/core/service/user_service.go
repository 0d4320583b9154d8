package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rl1809/cims/internal/core/domain"
	"github.com/rl1809/cims/internal/core/dto"
	"github.com/rl1809/cims/internal/port"
)

const defaultUserRole = "USER"

type UserService struct {
	users port.UserRepository
	logs  port.ActivityLogRepository
	notifier
}

func NewUserService(users port.UserRepository, logs port.ActivityLogRepository, events port.EventPublisher) *UserService {
	return &UserService{users: users, logs: logs, notifier: newNotifier(events)}
}

// List returns every user with its activity logs.
func (s *UserService) List(ctx context.Context) ([]dto.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	logs, err := s.logs.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	byUser := make(map[string][]domain.ActivityLog)
	for _, l := range logs {
		byUser[l.UserID] = append(byUser[l.UserID], l)
	}

	out := make([]dto.User, 0, len(users))
	for _, u := range users {
		out = append(out, dto.ToUser(u, byUser[u.ID]))
	}
	return out, nil
}

// Create registers a user. passwordHash is the credential exactly as the
// caller's authentication layer produced it; it is stored, never projected.
func (s *UserService) Create(ctx context.Context, in dto.User, passwordHash string) (dto.User, error) {
	err := check(in,
		requiredString("username", in.Username),
		requiredString("name", in.Name),
		requiredString("email", in.Email),
		requiredString("password", &passwordHash),
		suppliedNonBlank("role", in.Role),
	)
	if err != nil {
		return dto.User{}, err
	}

	user := dto.UserFromDTO(in)
	user.ID = ""
	user.PasswordHash = passwordHash
	if strings.TrimSpace(user.Role) == "" {
		user.Role = defaultUserRole
	}
	user.CreatedAt = now()

	saved, err := s.users.Save(ctx, user)
	if err != nil {
		return dto.User{}, fmt.Errorf("create user: %w", err)
	}

	s.notify(ctx, entityUser, saved.ID, port.ChangeCreated)
	return dto.ToUser(*saved, nil), nil
}

// Update changes name, email, role and avatar only. Username and the
// password credential are not reachable from here.
func (s *UserService) Update(ctx context.Context, id string, in dto.User) (dto.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return dto.User{}, fmt.Errorf("update user: %w", err)
	}
	err = check(in,
		suppliedNonBlank("name", in.Name),
		suppliedNonBlank("email", in.Email),
		suppliedNonBlank("role", in.Role),
	)
	if err != nil {
		return dto.User{}, err
	}

	dto.ApplyUserUpdate(user, in)

	saved, err := s.users.Save(ctx, *user)
	if err != nil {
		return dto.User{}, fmt.Errorf("update user: %w", err)
	}
	logs, err := s.logs.FindByUserID(ctx, saved.ID)
	if err != nil {
		return dto.User{}, fmt.Errorf("update user: %w", err)
	}

	s.notify(ctx, entityUser, saved.ID, port.ChangeUpdated)
	return dto.ToUser(*saved, logs), nil
}

// Delete removes the user and its activity logs.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.notify(ctx, entityUser, id, port.ChangeDeleted)
	return nil
}
