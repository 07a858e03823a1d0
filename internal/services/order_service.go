package services

import (
	"github.com/google/uuid"

	"storefront/internal/apperr"
	"storefront/internal/cache"
	"storefront/internal/domain"
	"storefront/internal/repos"
)

type OrderService struct {
	Customers *repos.CustomerRepo
	Orders    *repos.OrderRepo
	Cache     cache.Store
}

func NewOrderService(customers *repos.CustomerRepo, orders *repos.OrderRepo, store cache.Store) *OrderService {
	return &OrderService{Customers: customers, Orders: orders, Cache: store}
}

func (s *OrderService) Place(customerID string, reqs []repos.ItemReq) (domain.Order, error) {
	if len(reqs) == 0 {
		return domain.Order{}, apperr.Validation("order needs at least one line item")
	}
	for _, r := range reqs {
		if r.ProductID == "" {
			return domain.Order{}, apperr.Validation("line item missing product_id")
		}
		if r.Qty < 1 {
			return domain.Order{}, apperr.Validation("line item quantity must be at least 1")
		}
	}

	ok, err := s.Customers.Exists(customerID)
	if err != nil {
		return domain.Order{}, err
	}
	if !ok {
		return domain.Order{}, apperr.NotFound("customer")
	}

	o, err := s.Orders.Place(uuid.NewString(), customerID, reqs)
	if err != nil {
		return domain.Order{}, err
	}
	// placement decremented stock, so cached listing pages are stale
	invalidateListings(s.Cache)
	return o, nil
}

func (s *OrderService) Get(orderID string) (domain.Order, error) {
	return s.Orders.Get(orderID)
}

func (s *OrderService) ListForCustomer(customerID string) ([]domain.Order, error) {
	ok, err := s.Customers.Exists(customerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("customer")
	}
	return s.Orders.ListByCustomer(customerID)
}

func (s *OrderService) UpdateStatus(orderID, status string) (domain.Order, error) {
	if status != domain.StatusFulfilled && status != domain.StatusCanceled {
		return domain.Order{}, apperr.Validation("status must be FULFILLED or CANCELED")
	}
	o, err := s.Orders.UpdateStatus(orderID, status)
	if err != nil {
		return domain.Order{}, err
	}
	if status == domain.StatusCanceled {
		// cancellation restored stock
		invalidateListings(s.Cache)
	}
	return o, nil
}
