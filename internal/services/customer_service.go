package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"shopapi/internal/apperrors"
	"shopapi/internal/cache"
	"shopapi/internal/models"
	"shopapi/internal/repositories"
)

// CustomerUpdate carries a partial customer update. Nil fields keep their
// prior value.
type CustomerUpdate struct {
	Name  *string
	Email *string
	Phone *string
}

// CustomerService handles the admin-side customer and account lifecycle.
type CustomerService struct {
	repo  repositories.CustomerRepository
	cache *cache.Cache
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(repo repositories.CustomerRepository, c *cache.Cache) *CustomerService {
	return &CustomerService{
		repo:  repo,
		cache: c,
	}
}

// Create registers a customer together with its account. The plaintext
// password is hashed before anything is stored and is never logged.
func (s *CustomerService) Create(customer *models.Customer, username, password string) error {
	if existing, err := s.repo.GetAccountByUsername(username); err == nil && existing != nil {
		return apperrors.ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	customer.Account = &models.Account{
		Username: username,
		Password: string(hashedPassword),
	}

	if err := s.repo.Create(customer); err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// Get retrieves a customer, serving repeated reads from the cache.
func (s *CustomerService) Get(id string) (*models.Customer, error) {
	if cached, ok := s.cache.Get(cache.CustomerKey(id)); ok {
		if customer, ok := cached.(*models.Customer); ok {
			return customer, nil
		}
	}
	customer, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cache.CustomerKey(id), customer)
	return customer, nil
}

// Update applies the provided fields to an existing customer; absent fields
// retain their prior value. The cached read entry is dropped before returning.
func (s *CustomerService) Update(id string, upd CustomerUpdate) (*models.Customer, error) {
	customer, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		customer.Name = *upd.Name
	}
	if upd.Email != nil {
		customer.Email = *upd.Email
	}
	if upd.Phone != nil {
		customer.Phone = *upd.Phone
	}
	if err := s.repo.Update(customer); err != nil {
		return nil, err
	}
	s.cache.Delete(cache.CustomerKey(id))
	return customer, nil
}

// Delete removes a customer and its account and drops the cached read entry.
func (s *CustomerService) Delete(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.cache.Delete(cache.CustomerKey(id))
	return nil
}

// VerifyCredentials returns the account iff the password matches the stored
// hash. It exists for callers outside the HTTP login flow; Login wraps it with
// token issuance.
func (s *CustomerService) VerifyCredentials(username, password string) (*models.Account, error) {
	account, err := s.repo.GetAccountByUsername(username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return account, nil
}
