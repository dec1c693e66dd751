package cart

import (
	"context"
	"fmt"
	"log/slog"

	domcart "example.com/shoppingcart/internal/domain/cart"
	domproduct "example.com/shoppingcart/internal/domain/product"
)

type CartRepository interface {
	domcart.Repository
}

type CustomerFinder interface {
	FindIDByUsername(ctx context.Context, username string) (int64, error)
}

type ProductReader interface {
	GetByID(ctx context.Context, id int64) (*domproduct.Product, error)
}

// Service runs every cart operation as load, validate in memory, then one
// matching write. Nothing is kept between calls.
type Service struct {
	cartRepo     CartRepository
	customerRepo CustomerFinder
	productRepo  ProductReader
	logger       *slog.Logger
}

func NewService(cartRepo CartRepository, customerRepo CustomerFinder, productRepo ProductReader, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cartRepo:     cartRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

func (s *Service) GetCart(ctx context.Context, username string) ([]domcart.Item, error) {
	_, cart, err := s.load(ctx, username)
	if err != nil {
		return nil, err
	}
	return cart.Items(), nil
}

func (s *Service) HasProduct(ctx context.Context, username string, productID int64) (bool, error) {
	_, cart, err := s.load(ctx, username)
	if err != nil {
		return false, err
	}
	return cart.Contains(productID), nil
}

func (s *Service) AddToCart(ctx context.Context, username string, productID int64) error {
	customerID, cart, err := s.load(ctx, username)
	if err != nil {
		return err
	}

	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	if err := cart.Add(domcart.NewItem(*p, domcart.DefaultQuantity)); err != nil {
		return err
	}

	rowID, err := s.cartRepo.AddItem(ctx, customerID, productID)
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	s.logger.DebugContext(ctx, "cart item added",
		slog.Int64("customer_id", customerID),
		slog.Int64("product_id", productID),
		slog.Int64("row_id", rowID),
	)
	return nil
}

func (s *Service) UpdateQuantity(ctx context.Context, username string, productID int64, quantity int) error {
	customerID, cart, err := s.load(ctx, username)
	if err != nil {
		return err
	}

	if err := cart.UpdateQuantity(productID, quantity); err != nil {
		return err
	}

	if err := s.cartRepo.UpdateQuantity(ctx, customerID, productID, quantity); err != nil {
		return fmt.Errorf("update cart item quantity: %w", err)
	}
	return nil
}

func (s *Service) RemoveItem(ctx context.Context, username string, productID int64) error {
	customerID, cart, err := s.load(ctx, username)
	if err != nil {
		return err
	}

	if err := cart.Delete(productID); err != nil {
		return err
	}

	if err := s.cartRepo.DeleteItem(ctx, customerID, productID); err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return nil
}

// RemoveItems deletes all listed products or none of them. Membership is
// checked against the whole set before the single delete is issued.
func (s *Service) RemoveItems(ctx context.Context, username string, productIDs []int64) error {
	customerID, cart, err := s.load(ctx, username)
	if err != nil {
		return err
	}

	productIDs = uniqueIDs(productIDs)
	for _, id := range productIDs {
		if err := cart.Delete(id); err != nil {
			return domcart.ErrNotInCustomerCart
		}
	}
	if len(productIDs) == 0 {
		return nil
	}

	if err := s.cartRepo.DeleteItems(ctx, customerID, productIDs); err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}
	s.logger.DebugContext(ctx, "cart items removed",
		slog.Int64("customer_id", customerID),
		slog.Int("count", len(productIDs)),
	)
	return nil
}

func (s *Service) ClearCart(ctx context.Context, username string) error {
	customerID, err := s.customerRepo.FindIDByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.cartRepo.DeleteAllItems(ctx, customerID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, username string) (int64, *domcart.Cart, error) {
	customerID, err := s.customerRepo.FindIDByUsername(ctx, username)
	if err != nil {
		return 0, nil, err
	}
	items, err := s.cartRepo.LoadItems(ctx, customerID)
	if err != nil {
		return 0, nil, fmt.Errorf("load cart items: %w", err)
	}
	return customerID, domcart.New(items), nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
