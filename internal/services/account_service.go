package services

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/apperr"
	"storefront/internal/domain"
	"storefront/internal/repos"
)

type AccountService struct {
	Accounts  *repos.AccountRepo
	Customers *repos.CustomerRepo
}

func NewAccountService(accounts *repos.AccountRepo, customers *repos.CustomerRepo) *AccountService {
	return &AccountService{Accounts: accounts, Customers: customers}
}

type AccountUpdate struct {
	Username *string
	Password *string
	Active   *bool
}

// Create provisions the single account a customer may hold. The raw
// password is hashed here and discarded; new accounts are plain USERs.
func (s *AccountService) Create(customerID, username, password string) (domain.Account, error) {
	ok, err := s.Customers.Exists(customerID)
	if err != nil {
		return domain.Account{}, err
	}
	if !ok {
		return domain.Account{}, apperr.NotFound("customer")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return domain.Account{}, apperr.Internal("could not hash password", err)
	}

	a := domain.Account{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Username:   username,
		Hash:       string(hash),
		Role:       domain.RoleUser,
		Active:     true,
	}
	if err := s.Accounts.Insert(a); err != nil {
		return domain.Account{}, err
	}
	return s.Accounts.Get(a.ID)
}

func (s *AccountService) Get(id string) (domain.Account, error) {
	return s.Accounts.Get(id)
}

func (s *AccountService) Update(id string, upd AccountUpdate) (domain.Account, error) {
	a, err := s.Accounts.Get(id)
	if err != nil {
		return domain.Account{}, err
	}
	if upd.Username != nil {
		a.Username = *upd.Username
	}
	if upd.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), 12)
		if err != nil {
			return domain.Account{}, apperr.Internal("could not hash password", err)
		}
		a.Hash = string(hash)
	}
	if upd.Active != nil {
		a.Active = *upd.Active
	}
	if err := s.Accounts.Update(a); err != nil {
		return domain.Account{}, err
	}
	return s.Accounts.Get(id)
}

func (s *AccountService) Delete(id string) error {
	return s.Accounts.Delete(id)
}
