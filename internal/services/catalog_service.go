package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"storefront/internal/cache"
	"storefront/internal/domain"
	"storefront/internal/repos"
)

// listKeyPrefix scopes every cached listing page so one invalidation
// call clears them all.
const listKeyPrefix = "products:list:"

type CatalogService struct {
	Prods *repos.ProductRepo
	Cache cache.Store
	TTL   time.Duration

	group singleflight.Group
}

func NewCatalogService(prods *repos.ProductRepo, store cache.Store, ttl time.Duration) *CatalogService {
	return &CatalogService{Prods: prods, Cache: store, TTL: ttl}
}

type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
}

func (s *CatalogService) Create(name, description string, price float64, stock int) (domain.Product, error) {
	p := domain.Product{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
	}
	if err := s.Prods.Insert(p); err != nil {
		return domain.Product{}, err
	}
	s.invalidate()
	return s.Prods.Get(p.ID)
}

func (s *CatalogService) Get(id string) (domain.Product, error) {
	return s.Prods.Get(id)
}

func (s *CatalogService) Update(id string, upd ProductUpdate) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if err != nil {
		return domain.Product{}, err
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.Stock != nil {
		p.Stock = *upd.Stock
	}
	if err := s.Prods.Update(p); err != nil {
		return domain.Product{}, err
	}
	s.invalidate()
	return s.Prods.Get(id)
}

func (s *CatalogService) Delete(id string) error {
	if err := s.Prods.Delete(id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// List serves a catalog page, preferring the cache. Concurrent misses
// for the same page collapse into a single database read.
func (s *CatalogService) List(ctx context.Context, page, pageSize int, f repos.ListFilter) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	key := fmt.Sprintf("%s%d:%d:%s:%g:%g", listKeyPrefix, page, pageSize, f.Name, f.MinPrice, f.MaxPrice)

	if s.Cache != nil {
		if b, ok, err := s.Cache.Get(ctx, key); err == nil && ok {
			var out []domain.Product
			if json.Unmarshal(b, &out) == nil {
				return out, nil
			}
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		out, err := s.Prods.List(f, pageSize, (page-1)*pageSize)
		if err != nil {
			return nil, err
		}
		if s.Cache != nil {
			if b, err := json.Marshal(out); err == nil {
				_ = s.Cache.Set(ctx, key, b, s.TTL)
			}
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

func (s *CatalogService) invalidate() { invalidateListings(s.Cache) }

// invalidateListings drops every cached listing page. Any writer that
// touches a product row (including order placement and cancellation,
// which move stock) must call it.
func invalidateListings(store cache.Store) {
	if store != nil {
		_ = store.Invalidate(context.Background(), listKeyPrefix)
	}
}
