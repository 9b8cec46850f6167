package dto

// GenerateQrCodeRequest 生成二维码请求（管理端）
// ExpireTime 可选，RFC3339；留空则默认活动结束时间 + 默认有效天数
type GenerateQrCodeRequest struct {
	Kind       string `json:"type" binding:"required,oneof=checkin evaluation"`
	ExpireTime string `json:"expire_time" binding:"omitempty"`
}

// QrCodeResponse 二维码信息
type QrCodeResponse struct {
	ID           int64  `json:"id"`
	ActivityID   int64  `json:"activity_id"`
	Kind         string `json:"type"`
	Token        string `json:"token"`
	URL          string `json:"url"` // 扫码后访问的验证地址
	ExpireTime   string `json:"expire_time"`
	DisabledTime string `json:"disabled_time,omitempty"`
	Status       string `json:"status"`
	CreatedTime  string `json:"created_time"`
}

// QrCodeQueryRequest 二维码列表查询（管理端，按活动维度）
type QrCodeQueryRequest struct {
	ActivityID int64  `form:"activity_id" binding:"required,gt=0"`
	Kind       string `form:"type" binding:"omitempty,oneof=checkin evaluation"`
	Status     string `form:"status" binding:"omitempty,oneof=enabled disabled"`
	Page       int    `form:"page,default=1" binding:"min=1"`
	Size       int    `form:"size,default=10" binding:"min=1,max=100"`
}

// VerifyQrCodeRequest 参与端二维码验证请求
type VerifyQrCodeRequest struct {
	Token string `json:"token" binding:"required"`
}

// QrCodeVerifyResult 参与端二维码验证结果
// 无效时以 Valid=false + Reason 返回，不作为 HTTP 错误
type QrCodeVerifyResult struct {
	Valid      bool   `json:"valid"`
	QrCodeID   int64  `json:"qrcode_id,omitempty"`
	ActivityID int64  `json:"activity_id,omitempty"`
	Kind       string `json:"type,omitempty"`
	Reason     string `json:"reason,omitempty"`
}
