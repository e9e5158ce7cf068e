package service

import (
	"strings"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/models"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/repository"
)

// CustomerService resolves customers out of the mirrored directory.
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a customer service.
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// ResolveByUsername maps a login name to a customer id.
func (s *CustomerService) ResolveByUsername(username string) (uint, error) {
	if strings.TrimSpace(username) == "" {
		return 0, ErrCustomerNotFound
	}
	customer, err := s.customerRepo.GetByUsername(username)
	if err != nil {
		return 0, err
	}
	if customer == nil {
		return 0, ErrCustomerNotFound
	}
	return customer.ID, nil
}

// EnsureMirrored makes sure the local customer mirror carries a row for
// the token's customer, creating one on first sight. The account service
// owns the directory; this mirror only needs enough to attach carts and
// orders.
func (s *CustomerService) EnsureMirrored(claims *CustomerJWTClaims) (*models.Customer, error) {
	if claims == nil || claims.CustomerID == 0 {
		return nil, ErrCustomerNotFound
	}
	customer, err := s.customerRepo.GetByID(claims.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer != nil {
		return customer, nil
	}

	username := strings.TrimSpace(claims.Username)
	if username == "" {
		return nil, ErrCustomerNotFound
	}
	customer = &models.Customer{
		ID:       claims.CustomerID,
		Username: username,
		Email:    strings.ToLower(strings.TrimSpace(claims.Email)),
	}
	if err := s.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetByID fetches a customer row.
func (s *CustomerService) GetByID(id uint) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}
