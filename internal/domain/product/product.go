package product

import "strings"

// Product is a catalog entry. Price is stored in the smallest currency unit.
type Product struct {
	ID           int64
	Name         string
	Price        int64
	ThumbnailURL string
}

func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" || p.Price < 0 {
		return ErrInvalidProduct
	}
	return nil
}
