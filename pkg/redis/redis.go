package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/NecoOcean/we-chat-check-in/config"
)

const (
	pingTimeout = 5 * time.Second

	// 注销黑名单键前缀，值为占位 "1"，TTL 随 Token 剩余有效期
	blacklistPrefix = "admin:token:blacklist:"
)

// Client Redis 客户端封装，目前只承载管理员注销黑名单。
// 整个 Redis 是可选依赖：连接失败时上层以 nil Client 继续运行
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 建立 Redis 连接，Ping 失败即返回错误由调用方决定降级
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("连接 Redis 失败: %w", err)
	}

	logger.Info("Redis 连接就绪", zap.String("addr", cfg.Addr))
	return &Client{rdb: rdb, logger: logger}, nil
}

// BlacklistToken 注销时将 JWT ID 拉黑，到 Token 自然过期为止
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token 已自然过期，无需占用黑名单
		return nil
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted 检查 JWT ID 是否已被注销
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close 释放连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
