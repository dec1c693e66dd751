package customer

import (
	"context"
	"fmt"
	"log/slog"

	dom "example.com/shoppingcart/internal/domain/customer"
)

type PasswordEncoder interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

type Service struct {
	repo    dom.Repository
	encoder PasswordEncoder
	logger  *slog.Logger
}

func NewService(repo dom.Repository, encoder PasswordEncoder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, encoder: encoder, logger: logger}
}

type RegisterInput struct {
	Username string
	Password string
	Nickname string
	Age      int
}

type UpdateInfoInput struct {
	Username string
	Nickname string
	Age      int
}

type UpdatePasswordInput struct {
	Username    string
	OldPassword string
	NewPassword string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*dom.Customer, error) {
	username := dom.NormalizeUsername(in.Username)
	if err := dom.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := dom.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	if err := dom.ValidateProfile(in.Nickname, in.Age); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, dom.ErrDuplicateUsername
	}

	hash, err := s.encoder.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("encode password: %w", err)
	}

	c := &dom.Customer{
		Username:     username,
		PasswordHash: hash,
		Nickname:     in.Nickname,
		Age:          in.Age,
	}
	id, err := s.repo.Save(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id

	s.logger.InfoContext(ctx, "customer registered", slog.Int64("customer_id", id))
	return c, nil
}

// CheckDuplication reports whether the username is still free.
func (s *Service) CheckDuplication(ctx context.Context, username string) (bool, error) {
	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*dom.Customer, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *Service) UpdateInfo(ctx context.Context, in UpdateInfoInput) (*dom.Customer, error) {
	if err := dom.ValidateProfile(in.Nickname, in.Age); err != nil {
		return nil, err
	}
	c, err := s.repo.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	c.Nickname = in.Nickname
	c.Age = in.Age
	if err := s.repo.UpdateInfo(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) UpdatePassword(ctx context.Context, in UpdatePasswordInput) error {
	c, err := s.repo.FindByUsername(ctx, in.Username)
	if err != nil {
		return err
	}
	if err := s.verifyPassword(c, in.OldPassword); err != nil {
		return err
	}
	if err := dom.ValidatePassword(in.NewPassword); err != nil {
		return err
	}

	hash, err := s.encoder.Hash(in.NewPassword)
	if err != nil {
		return fmt.Errorf("encode password: %w", err)
	}
	c.PasswordHash = hash
	return s.repo.UpdatePassword(ctx, c)
}

// Delete removes the customer after re-checking the password.
func (s *Service) Delete(ctx context.Context, username, password string) error {
	c, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.verifyPassword(c, password); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, c.ID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "customer deleted", slog.Int64("customer_id", c.ID))
	return nil
}

func (s *Service) verifyPassword(c *dom.Customer, password string) error {
	if err := s.encoder.Compare(c.PasswordHash, password); err != nil {
		return dom.ErrPasswordMismatch
	}
	return nil
}
