package domain

type ProductCategory string

const (
	CategoryHoney       ProductCategory = "honey"
	CategorySherry      ProductCategory = "sherry"
	CategoryOrganic     ProductCategory = "organic"
	CategoryPremium     ProductCategory = "premium"
	CategoryGiftSet     ProductCategory = "gift-set"
	CategoryAccessories ProductCategory = "accessories"
)

func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryHoney, CategorySherry, CategoryOrganic, CategoryPremium, CategoryGiftSet, CategoryAccessories:
		return true
	}
	return false
}

type Product struct {
	ID          string          `db:"id" json:"id"`
	SKU         string          `db:"sku" json:"sku"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Category    ProductCategory `db:"category" json:"category"`
	Price       float64         `db:"price" json:"price"`
	Currency    string          `db:"currency" json:"currency"`
	Unit        string          `db:"unit" json:"unit"`
	Weight      float64         `db:"weight" json:"weight"`
	Stock       int             `db:"stock" json:"stock"`
	MinStock    int             `db:"min_stock" json:"minStock"`
	Rating      float64         `db:"rating" json:"rating"`
	NumReviews  int             `db:"num_reviews" json:"numReviews"`
	Active      bool            `db:"active" json:"isActive"`
	VendorID    string          `db:"vendor_id" json:"vendor"`
	CreatedAt   string          `db:"created_at" json:"createdAt"`
	UpdatedAt   string          `db:"updated_at" json:"updatedAt"`
}

// StockStatus derives the availability label shown on product pages.
func (p *Product) StockStatus() string {
	switch {
	case p.Stock == 0:
		return "out-of-stock"
	case p.Stock <= p.MinStock:
		return "low-stock"
	default:
		return "in-stock"
	}
}
