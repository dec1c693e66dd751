package customer

import "context"

// Repository normalizes usernames with NormalizeUsername before every lookup.
type Repository interface {
	Save(ctx context.Context, c *Customer) (int64, error)
	FindIDByUsername(ctx context.Context, username string) (int64, error)
	FindByUsername(ctx context.Context, username string) (*Customer, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdatePassword(ctx context.Context, c *Customer) error
	UpdateInfo(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id int64) error
}
