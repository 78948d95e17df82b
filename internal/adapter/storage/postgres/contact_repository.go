package postgres

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/retention-center/internal/domain"
	"github.com/seu-repo/retention-center/internal/ports"
)

type ContactEventRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewContactEventRepository(db *gorm.DB, log *zap.Logger) ports.ContactEventRepository {
	return &ContactEventRepository{
		db:  db,
		log: log,
	}
}

// Append inserts the event. Create, never Save: the log is append-only and
// an ID collision must fail loudly instead of rewriting history.
func (r *ContactEventRepository) Append(ctx context.Context, event *domain.ContactEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *ContactEventRepository) FindByCustomer(ctx context.Context, customerID string, limit int) ([]domain.ContactEvent, error) {
	var events []domain.ContactEvent
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("contacted_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
