package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/NecoOcean/we-chat-check-in/internal/model"
)

// QrCodeFilter 二维码列表过滤条件
type QrCodeFilter struct {
	ActivityID int64
	Kind       string
	Status     string
	Page       int
	Size       int
}

// QrCodeRepository 二维码数据访问接口
type QrCodeRepository interface {
	Create(ctx context.Context, qrcode *model.QrCode) error
	GetByID(ctx context.Context, id int64) (*model.QrCode, error)
	// UpdateToken 两阶段签发的第二步：拿到数据库分配的主键后回写最终令牌
	UpdateToken(ctx context.Context, id int64, token string) error
	List(ctx context.Context, filter QrCodeFilter) ([]model.QrCode, int64, error)
	ListByActivity(ctx context.Context, activityID int64) ([]model.QrCode, error)
	// Disable 将二维码置为 disabled；已禁用的记录不受影响（幂等）
	Disable(ctx context.Context, id int64, disabledTime time.Time) error
	// DisableAllExcept 禁用活动下除 keepKind 外的所有启用二维码
	DisableAllExcept(ctx context.Context, activityID int64, keepKind string, disabledTime time.Time) error
}

type qrCodeRepo struct {
	db *gorm.DB
}

// NewQrCodeRepo 创建 QrCodeRepository 实例
func NewQrCodeRepo(db *gorm.DB) QrCodeRepository {
	return &qrCodeRepo{db: db}
}

func (r *qrCodeRepo) Create(ctx context.Context, qrcode *model.QrCode) error {
	return r.db.WithContext(ctx).Create(qrcode).Error
}

func (r *qrCodeRepo) GetByID(ctx context.Context, id int64) (*model.QrCode, error) {
	var qrcode model.QrCode
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&qrcode).Error
	if err != nil {
		return nil, err
	}
	return &qrcode, nil
}

func (r *qrCodeRepo) UpdateToken(ctx context.Context, id int64, token string) error {
	return r.db.WithContext(ctx).
		Model(&model.QrCode{}).
		Where("id = ?", id).
		Update("token", token).Error
}

func (r *qrCodeRepo) List(ctx context.Context, filter QrCodeFilter) ([]model.QrCode, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.QrCode{})

	if filter.ActivityID > 0 {
		query = query.Where("activity_id = ?", filter.ActivityID)
	}
	if filter.Kind != "" {
		query = query.Where("type = ?", filter.Kind)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var qrcodes []model.QrCode
	err := query.
		Order("created_time DESC").
		Offset((filter.Page - 1) * filter.Size).
		Limit(filter.Size).
		Find(&qrcodes).Error
	if err != nil {
		return nil, 0, err
	}

	return qrcodes, total, nil
}

func (r *qrCodeRepo) ListByActivity(ctx context.Context, activityID int64) ([]model.QrCode, error) {
	var qrcodes []model.QrCode
	err := r.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("id").
		Find(&qrcodes).Error
	if err != nil {
		return nil, err
	}
	return qrcodes, nil
}

func (r *qrCodeRepo) Disable(ctx context.Context, id int64, disabledTime time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.QrCode{}).
		Where("id = ? AND status = ?", id, model.QrCodeStatusEnabled).
		Updates(map[string]interface{}{
			"status":        model.QrCodeStatusDisabled,
			"disabled_time": disabledTime,
		}).Error
}

func (r *qrCodeRepo) DisableAllExcept(ctx context.Context, activityID int64, keepKind string, disabledTime time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.QrCode{}).
		Where("activity_id = ? AND type <> ? AND status = ?", activityID, keepKind, model.QrCodeStatusEnabled).
		Updates(map[string]interface{}{
			"status":        model.QrCodeStatusDisabled,
			"disabled_time": disabledTime,
		}).Error
}
