// Package qrtoken 签发并验证参与令牌。
//
// 参与令牌是教学点参与活动的唯一凭证：一个内嵌二维码ID、所属活动ID与
// 用途（打卡/评价）的 HMAC 签名令牌。签发与验证均为纯计算，不触碰存储；
// 二维码的启用状态与库侧过期时间由上层 QrCodeService 另行校验。
package qrtoken

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/NecoOcean/we-chat-check-in/config"
)

var (
	// ErrTokenExpired 签名有效但已过期，与 ErrTokenInvalid 区分，
	// 便于调用方给出更明确的提示
	ErrTokenExpired = errors.New("二维码令牌已过期")
	// ErrTokenInvalid 格式错误或签名验证失败，终态，不可重试
	ErrTokenInvalid = errors.New("二维码令牌无效")
)

// Claims 参与令牌声明
type Claims struct {
	QrCodeID   int64  `json:"qrcode_id"`
	ActivityID int64  `json:"activity_id"`
	Kind       string `json:"kind"` // checkin | evaluation
	jwtv5.RegisteredClaims
}

// Manager 参与令牌签发/验证器
// 密钥在启动时从配置注入，进程生命周期内不变
type Manager struct {
	secret []byte
	issuer string
}

// NewManager 创建参与令牌管理器
func NewManager(cfg *config.QrCodeConfig) *Manager {
	return &Manager{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
	}
}

// Generate 为指定二维码签发令牌
// 过期时间由调用方给定（与二维码记录的 expire_time 一致）
func (m *Manager) Generate(qrcodeID, activityID int64, kind string, expireAt time.Time) (string, error) {
	now := time.Now()
	claims := Claims{
		QrCodeID:   qrcodeID,
		ActivityID: activityID,
		Kind:       kind,
		RegisteredClaims: jwtv5.RegisteredClaims{
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(expireAt),
			Issuer:    m.issuer,
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse 验证令牌并返回声明
// 签名无效或格式错误返回 ErrTokenInvalid；签名有效但已过期返回 ErrTokenExpired
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
