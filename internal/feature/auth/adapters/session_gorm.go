package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/guilletomac/CS50-finance/internal/feature/auth/domain/entity"
	"github.com/guilletomac/CS50-finance/internal/feature/auth/usecase"
)

// sessionGorm はセッションをRDBに保存するSessionRepository実装です。
// Redisが設定されていない場合に使われます。
type sessionGorm struct {
	db  *gorm.DB
	now func() time.Time
}

// sessionGormがSessionRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.SessionRepository = (*sessionGorm)(nil)

// NewSessionGorm はsessionGormの新しいインスタンスを生成します。
func NewSessionGorm(db *gorm.DB) *sessionGorm {
	return &sessionGorm{db: db, now: time.Now}
}

// active は失効も期限切れもしていないユーザーのセッションに絞り込みます。
func (r *sessionGorm) active(userID uint) func(*gorm.DB) *gorm.DB {
	now := r.now()
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, now)
	}
}

// Create はセッションを保存します。
func (r *sessionGorm) Create(ctx context.Context, session *entity.Session) error {
	return r.db.WithContext(ctx).Create(SessionModelFromEntity(session)).Error
}

// FindByID はIDでセッションを取得します。失効済み・期限切れでも返します。
func (r *sessionGorm) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	var model SessionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// FindByUserID はユーザーの有効なセッションを古い順に返します。
func (r *sessionGorm) FindByUserID(ctx context.Context, userID uint) ([]*entity.Session, error) {
	var models []SessionModel
	if err := r.db.WithContext(ctx).Scopes(r.active(userID)).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	sessions := make([]*entity.Session, len(models))
	for i := range models {
		sessions[i] = models[i].ToEntity()
	}
	return sessions, nil
}

// Revoke はセッションを失効させます。
func (r *sessionGorm) Revoke(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("id = ?", id).
		Update("revoked_at", r.now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrSessionNotFound
	}
	return nil
}

// DeleteExpired は期限切れのセッションを削除し、削除件数を返します。
func (r *sessionGorm) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at < ?", r.now()).Delete(&SessionModel{})
	return result.RowsAffected, result.Error
}

// CountByUserID はユーザーの有効なセッション数を返します。
func (r *sessionGorm) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&SessionModel{}).Scopes(r.active(userID)).Count(&count).Error
	return count, err
}

// DeleteOldestByUserID はユーザーの最も古い有効なセッションを削除します。無ければ何もしません。
func (r *sessionGorm) DeleteOldestByUserID(ctx context.Context, userID uint) error {
	oldest := r.db.Model(&SessionModel{}).
		Select("id").
		Scopes(r.active(userID)).
		Order("created_at ASC").
		Limit(1)
	return r.db.WithContext(ctx).Where("id IN (?)", oldest).Delete(&SessionModel{}).Error
}
