package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aniladanir/waitlist-sms-service/internal/cache"
	"github.com/aniladanir/waitlist-sms-service/internal/domain"
	"gorm.io/gorm"
)

const deliveryCacheTTL = 24 * time.Hour

type Repository interface {
	Insert(ctx context.Context, signup *domain.Signup) error
	Count(ctx context.Context) (int64, error)
	RecordDeliveries(ctx context.Context, deliveries []domain.Delivery) error
	SentDeliveries(ctx context.Context) ([]domain.Delivery, error)
	CacheDelivery(ctx context.Context, sid string, sentAt time.Time) error
}

type repo struct {
	db    *gorm.DB
	cache cache.Cache
}

// NewSignupRepository creates a repository on db. cache may be nil.
func NewSignupRepository(db *gorm.DB, cache cache.Cache) Repository {
	return &repo{db: db, cache: cache}
}

// Insert creates the signup row and fills its ID
func (r *repo) Insert(ctx context.Context, signup *domain.Signup) error {
	return r.db.WithContext(ctx).Create(signup).Error
}

// Count returns the total number of signups
func (r *repo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Signup{}).Count(&count).Error
	return count, err
}

// RecordDeliveries stores the outcome of each attempted message in one transaction
func (r *repo) RecordDeliveries(ctx context.Context, deliveries []domain.Delivery) error {
	if len(deliveries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&deliveries).Error
	})
}

// SentDeliveries returns deliveries with status 'sent', newest first
func (r *repo) SentDeliveries(ctx context.Context) ([]domain.Delivery, error) {
	var deliveries []domain.Delivery
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.DeliverySent).
		Order("created_at DESC").
		Find(&deliveries).Error
	return deliveries, err
}

// CacheDelivery writes the provider message id to cache
func (r *repo) CacheDelivery(ctx context.Context, sid string, sentAt time.Time) error {
	if r.cache == nil {
		return nil
	}

	key := fmt.Sprintf("sent_sms:%s", sid)

	value := map[string]any{
		"sid":    sid,
		"sentAt": sentAt,
	}

	jsonVal, _ := json.Marshal(value)
	// Expire after 24 hours to keep memory clean
	return r.cache.Set(ctx, key, string(jsonVal), deliveryCacheTTL)
}
