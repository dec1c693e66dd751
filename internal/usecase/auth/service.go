package auth

import (
	"context"
	"errors"
	"fmt"

	domcustomer "example.com/shoppingcart/internal/domain/customer"
)

type PasswordComparer interface {
	Compare(hash string, password string) error
}

type CustomerReader interface {
	FindByUsername(ctx context.Context, username string) (*domcustomer.Customer, error)
}

type Claims struct {
	CustomerID int64
	Username   string
	Nickname   string
	TokenID    string
}

type TokenService interface {
	GenerateToken(c *domcustomer.Customer) (string, error)
	ParseToken(token string) (*Claims, error)
}

type Service struct {
	customerRepo CustomerReader
	checker      PasswordComparer
	tokens       TokenService
}

func NewService(
	customerRepo CustomerReader,
	checker PasswordComparer,
	tokens TokenService,
) *Service {
	return &Service{
		customerRepo: customerRepo,
		checker:      checker,
		tokens:       tokens,
	}
}

type LoginInput struct {
	Username string
	Password string
}

type LoginResult struct {
	Token    string
	Customer *domcustomer.Customer
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	username := domcustomer.NormalizeUsername(in.Username)
	if username == "" || in.Password == "" {
		return nil, domcustomer.ErrUnauthorized
	}

	c, err := s.customerRepo.FindByUsername(ctx, username)
	if errors.Is(err, domcustomer.ErrInvalidCustomer) {
		return nil, domcustomer.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}

	if err := s.checker.Compare(c.PasswordHash, in.Password); err != nil {
		return nil, domcustomer.ErrUnauthorized
	}

	token, err := s.tokens.GenerateToken(c)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:    token,
		Customer: c,
	}, nil
}
