package order

import (
	"context"
	"fmt"
	"log/slog"

	domcart "example.com/shoppingcart/internal/domain/cart"
	domorder "example.com/shoppingcart/internal/domain/order"
)

type CustomerFinder interface {
	FindIDByUsername(ctx context.Context, username string) (int64, error)
}

type CartReader interface {
	LoadItems(ctx context.Context, customerID int64) ([]domcart.Item, error)
}

type Service struct {
	orderRepo    domorder.Repository
	cartRepo     CartReader
	customerRepo CustomerFinder
	logger       *slog.Logger
}

func NewService(orderRepo domorder.Repository, cartRepo CartReader, customerRepo CustomerFinder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		orderRepo:    orderRepo,
		cartRepo:     cartRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// PlaceOrder orders the listed cart products. Every id must be in the cart;
// the ordered lines follow cart order, not request order.
func (s *Service) PlaceOrder(ctx context.Context, username string, productIDs []int64) (*domorder.Order, error) {
	if len(productIDs) == 0 {
		return nil, domorder.ErrEmptyOrderItems
	}

	customerID, err := s.customerRepo.FindIDByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	items, err := s.cartRepo.LoadItems(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}
	cart := domcart.New(items)
	if !cart.ContainsAll(productIDs) {
		return nil, domcart.ErrNotInCustomerCart
	}

	wanted := make(map[int64]struct{}, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = struct{}{}
	}
	selected := make([]domcart.Item, 0, len(wanted))
	for _, item := range cart.Items() {
		if _, ok := wanted[item.ProductID()]; !ok {
			continue
		}
		if item.Quantity <= 0 {
			return nil, domorder.ErrInvalidQuantity
		}
		selected = append(selected, item)
	}

	o, err := s.orderRepo.Create(ctx, customerID, domorder.ItemsFromCart(selected))
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.logger.InfoContext(ctx, "order placed",
		slog.Int64("customer_id", customerID),
		slog.Int64("order_id", o.ID),
		slog.Int64("total_amount", o.TotalAmount),
	)
	return o, nil
}

func (s *Service) ListOrders(ctx context.Context, username string) ([]*domorder.Order, error) {
	customerID, err := s.customerRepo.FindIDByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.orderRepo.ListByCustomer(ctx, customerID)
}

// GetOrder hides other customers' orders behind ErrOrderNotFound.
func (s *Service) GetOrder(ctx context.Context, username string, orderID int64) (*domorder.Order, error) {
	customerID, err := s.customerRepo.FindIDByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	o, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != customerID {
		return nil, domorder.ErrOrderNotFound
	}
	return o, nil
}
