package repositories

import (
	"context"

	"github.com/google/uuid"

	"taskboard/domain/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.User, error)
	Search(ctx context.Context, query string, offset, limit int) ([]*models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
}
