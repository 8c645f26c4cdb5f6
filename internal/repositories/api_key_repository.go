package repositories

import (
	"context"

	"gorm.io/gorm"

	"ledger/internal/models"
)

type apiKeyRepository struct {
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) APIKeyRepository {
	return &apiKeyRepository{db: db}
}

func (r *apiKeyRepository) GetAPIKeyByHash(ctx context.Context, keyHash string) (*models.APIKey, error) {
	var key models.APIKey
	if err := r.db.WithContext(ctx).Where("key_hash = ?", keyHash).First(&key).Error; err != nil {
		return nil, translate("get api key", err)
	}
	return &key, nil
}
