package client

import (
	"context"

	"github.com/dmitrijs2005/userdir/internal/client/models"
)

// Client is the user API as seen from the directory.
type Client interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int64) (models.User, error)
	Create(ctx context.Context, in models.UserInput) (models.User, error)
	Update(ctx context.Context, id int64, in models.UserInput) (models.User, error)
	Delete(ctx context.Context, id int64) error
}
