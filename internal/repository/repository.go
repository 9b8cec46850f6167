package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Admin         AdminRepository
	County        CountyRepository
	TeachingPoint TeachingPointRepository
	Activity      ActivityRepository
	QrCode        QrCodeRepository
	Checkin       CheckinRepository
	Evaluation    EvaluationRepository

	db *gorm.DB
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Admin:         NewAdminRepo(db),
		County:        NewCountyRepo(db),
		TeachingPoint: NewTeachingPointRepo(db),
		Activity:      NewActivityRepo(db),
		QrCode:        NewQrCodeRepo(db),
		Checkin:       NewCheckinRepo(db),
		Evaluation:    NewEvaluationRepo(db),
		db:            db,
	}
}

// BeginTx 开启事务，返回事务连接
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 返回绑定到事务连接的 Repository 副本
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// uniqueViolationCode PostgreSQL 唯一约束冲突错误码
const uniqueViolationCode = "23505"

// IsUniqueViolation 判断错误是否为唯一约束冲突
// 打卡/评价的幂等性依赖该判断：并发插入时落败的一方据此
// 被归一为"已提交"的业务结果，而不是裸的存储错误
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
