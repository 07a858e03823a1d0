package services

import (
	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/repos"
)

type CustomerService struct {
	Customers *repos.CustomerRepo
}

func NewCustomerService(customers *repos.CustomerRepo) *CustomerService {
	return &CustomerService{Customers: customers}
}

// CustomerUpdate carries a partial update; nil fields are left alone.
type CustomerUpdate struct {
	Name  *string
	Email *string
	Phone *string
}

func (s *CustomerService) Create(name, email, phone string) (domain.Customer, error) {
	c := domain.Customer{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
		Phone: phone,
	}
	if err := s.Customers.Insert(c); err != nil {
		return domain.Customer{}, err
	}
	return s.Customers.Get(c.ID)
}

func (s *CustomerService) Get(id string) (domain.Customer, error) {
	return s.Customers.Get(id)
}

func (s *CustomerService) Update(id string, upd CustomerUpdate) (domain.Customer, error) {
	c, err := s.Customers.Get(id)
	if err != nil {
		return domain.Customer{}, err
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Email != nil {
		c.Email = *upd.Email
	}
	if upd.Phone != nil {
		c.Phone = *upd.Phone
	}
	if err := s.Customers.Update(c); err != nil {
		return domain.Customer{}, err
	}
	return s.Customers.Get(id)
}

func (s *CustomerService) Delete(id string) error {
	return s.Customers.Delete(id)
}
