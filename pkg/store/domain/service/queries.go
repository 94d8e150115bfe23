package service

import (
	"strings"

	"storefront/pkg/store/domain/model"
)

// AllCategories disables the category filter.
const AllCategories = "All"

type ProductFilter struct {
	Term     string
	Category model.Category
}

type OrderFilter struct {
	Term   string
	Status model.OrderStatus
}

type DashboardStats struct {
	NetRevenueCents int64 `json:"netRevenueCents"`
	ActiveOrders    int   `json:"activeOrders"`
	PendingOrders   int   `json:"pendingOrders"`
	CatalogItems    int   `json:"catalogItems"`
	LowStockItems   int   `json:"lowStockItems"`
}

// LowStockThreshold is the stock level under which the dashboard flags a product.
const LowStockThreshold = 10

func containsFold(value, term string) bool {
	return strings.Contains(strings.ToLower(value), term)
}

// SearchProducts matches the term against product names only. Category is
// filtered separately.
func (s *storeService) SearchProducts(filter ProductFilter) []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term := strings.ToLower(strings.TrimSpace(filter.Term))
	anyCategory := filter.Category == "" || filter.Category == AllCategories

	result := []model.Product{}
	for _, p := range s.products {
		if !anyCategory && p.Category != filter.Category {
			continue
		}
		if term != "" && !containsFold(p.Name, term) {
			continue
		}
		result = append(result, p)
	}
	return result
}

func (s *storeService) FeaturedProducts() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []model.Product{}
	for _, p := range s.products {
		if p.Featured {
			result = append(result, p)
		}
	}
	return result
}

// RelatedProducts returns up to limit other products from the same category.
func (s *storeService) RelatedProducts(id, limit int) []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []model.Product{}
	index := s.productIndex(id)
	if index == -1 {
		return result
	}

	category := s.products[index].Category
	for _, p := range s.products {
		if len(result) >= limit {
			break
		}
		if p.ID != id && p.Category == category {
			result = append(result, p)
		}
	}
	return result
}

func (s *storeService) LowStockProducts(threshold int) []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lowStock(s.products, threshold)
}

func lowStock(products []model.Product, threshold int) []model.Product {
	result := []model.Product{}
	for _, p := range products {
		if p.Stock < threshold {
			result = append(result, p)
		}
	}
	return result
}

// FindOrder looks an order up by id, ignoring surrounding whitespace.
func (s *storeService) FindOrder(id string) (model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index := s.orderIndex(strings.TrimSpace(id))
	if index == -1 {
		return model.Order{}, model.ErrOrderNotFound
	}
	return cloneOrders(s.orders[index : index+1])[0], nil
}

func (s *storeService) SearchOrders(filter OrderFilter) []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term := strings.ToLower(strings.TrimSpace(filter.Term))
	result := []model.Order{}
	for _, o := range s.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if term != "" && !containsFold(o.ID, term) && !containsFold(o.CustomerName, term) && !containsFold(o.CustomerEmail, term) {
			continue
		}
		result = append(result, o)
	}
	return cloneOrders(result)
}

func (s *storeService) SearchCustomers(term string) []model.Customer {
	term = strings.ToLower(strings.TrimSpace(term))
	result := []model.Customer{}
	for _, c := range model.SeedCustomers() {
		if term == "" || containsFold(c.Name, term) || containsFold(c.Email, term) || containsFold(c.Location, term) {
			result = append(result, c)
		}
	}
	return result
}

func (s *storeService) DashboardStats() DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := DashboardStats{
		CatalogItems:  len(s.products),
		LowStockItems: len(lowStock(s.products, LowStockThreshold)),
	}
	for _, o := range s.orders {
		if o.Status != model.Cancelled {
			stats.NetRevenueCents += o.TotalCents
		}
		if !o.Status.Terminal() {
			stats.ActiveOrders++
		}
		if o.Status == model.Pending {
			stats.PendingOrders++
		}
	}
	return stats
}
