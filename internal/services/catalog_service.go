package services

import (
	"paddyseed/internal/domain"
	"paddyseed/internal/repos"
)

type CatalogService struct {
	Products *repos.ProductRepo
}

func NewCatalogService(products *repos.ProductRepo) *CatalogService {
	return &CatalogService{Products: products}
}

// ProductView decorates a product with its derived availability label.
type ProductView struct {
	domain.Product
	StockStatus string `json:"stockStatus"`
}

func view(p domain.Product) ProductView {
	return ProductView{Product: p, StockStatus: p.StockStatus()}
}

func (s *CatalogService) Get(id string) (*ProductView, error) {
	p, err := s.Products.Get(id)
	if err != nil {
		return nil, err
	}
	v := view(*p)
	return &v, nil
}

func (s *CatalogService) List(category string, limit, offset int) ([]ProductView, error) {
	if category != "" && !domain.ProductCategory(category).Valid() {
		return nil, domain.Invalid("category", "unknown category")
	}
	ps, err := s.Products.List(category, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]ProductView, 0, len(ps))
	for _, p := range ps {
		out = append(out, view(p))
	}
	return out, nil
}

// LowStock lists products at or below their reorder threshold for the admin
// inventory screen.
func (s *CatalogService) LowStock() ([]ProductView, error) {
	ps, err := s.Products.ListLowStock()
	if err != nil {
		return nil, err
	}
	out := make([]ProductView, 0, len(ps))
	for _, p := range ps {
		out = append(out, view(p))
	}
	return out, nil
}

// SetStock is the catalog-management override of a product's stock level.
func (s *CatalogService) SetStock(productID string, stock int) error {
	if stock < 0 {
		return domain.Invalid("stock", "stock cannot be negative")
	}
	return s.Products.UpsertStock(productID, stock)
}
