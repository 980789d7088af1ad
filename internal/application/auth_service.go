package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Wayfarer-Travel/service-itinerary/internal/domain"
	customerDomain "github.com/Wayfarer-Travel/service-itinerary/internal/domain/customer"
)

// ProfileDTO is the display view of a customer account.
type ProfileDTO struct {
	CustomerID     string   `json:"customer_id"`
	Username       string   `json:"username"`
	PaymentMethods []string `json:"payment_methods"`
	Itineraries    int      `json:"itineraries"`
}

// AuthService handles customer login and sign up.
type AuthService struct {
	repo   customerDomain.CustomerRepository
	logger *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo customerDomain.CustomerRepository, logger *zap.Logger) *AuthService {
	return &AuthService{repo: repo, logger: logger}
}

// Login verifies the credentials and returns the matching customer.
func (s *AuthService) Login(ctx context.Context, username, password string) (*customerDomain.Customer, error) {
	c, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			s.logger.Info("login rejected", zap.String("username", username))
			return nil, domain.NewUnauthorizedError(domain.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}
	if !c.CheckPassword(password) {
		s.logger.Info("login rejected", zap.String("customer_id", c.ID()))
		return nil, domain.NewUnauthorizedError(domain.ErrInvalidCredentials)
	}

	s.logger.Info("customer logged in", zap.String("customer_id", c.ID()))
	return c, nil
}

// Register creates a new customer account with a generated id.
func (s *AuthService) Register(ctx context.Context, username, password string) (*customerDomain.Customer, error) {
	username = strings.TrimSpace(username)
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, domain.NewValidationError("username is already taken")
	}

	c, err := customerDomain.NewCustomer(uuid.NewString(), username, password)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	s.logger.Info("customer registered", zap.String("customer_id", c.ID()))
	return c, nil
}

// Profile returns the display view of a customer.
func (s *AuthService) Profile(c *customerDomain.Customer) ProfileDTO {
	methods := c.PaymentMethods()
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.String()
	}
	return ProfileDTO{
		CustomerID:     c.ID(),
		Username:       c.Username(),
		PaymentMethods: names,
		Itineraries:    len(c.Itineraries()),
	}
}
