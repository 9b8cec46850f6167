package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/NecoOcean/we-chat-check-in/internal/model"
	"github.com/NecoOcean/we-chat-check-in/internal/repository"
)

// 默认市级管理员，仅在管理员表为空时创建
const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

// EnsureDefaultAdmin 空库启动时初始化默认市级管理员账号。
// 已存在任何管理员时不做任何事；重复启动安全
func EnsureDefaultAdmin(ctx context.Context, repo *repository.Repository, logger *zap.Logger) error {
	count, err := repo.Admin.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.Admin{
		Username:     defaultAdminUsername,
		PasswordHash: string(hash),
		Role:         model.RoleCity,
		Status:       model.StatusEnabled,
	}
	if err := repo.Admin.Create(ctx, admin); err != nil {
		// 多实例并发启动时另一实例已创建
		if repository.IsUniqueViolation(err) {
			return nil
		}
		return err
	}

	logger.Warn("已创建默认管理员账号，请立即修改密码",
		zap.String("username", defaultAdminUsername))
	return nil
}
