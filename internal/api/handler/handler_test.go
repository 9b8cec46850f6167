package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/NecoOcean/we-chat-check-in/internal/dto"
	"github.com/NecoOcean/we-chat-check-in/internal/model"
	"github.com/NecoOcean/we-chat-check-in/internal/service"
	"github.com/NecoOcean/we-chat-check-in/pkg/jwt"
	"github.com/NecoOcean/we-chat-check-in/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	logoutErr     error
	changePassErr error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, _ *jwt.Claims) error {
	return m.logoutErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ int64, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock QrCodeService ──

type mockQrCodeService struct {
	generateResult *dto.QrCodeResponse
	generateErr    error
	listResult     []dto.QrCodeResponse
	listTotal      int64
	listErr        error
	verifyResult   *dto.QrCodeVerifyResult
	verifyErr      error
	verifyOfKind   *model.QrCode
	verifyKindErr  error
	disableErr     error
}

func (m *mockQrCodeService) Generate(_ context.Context, _ service.Operator, _ int64, _ *dto.GenerateQrCodeRequest) (*dto.QrCodeResponse, error) {
	return m.generateResult, m.generateErr
}
func (m *mockQrCodeService) List(_ context.Context, _ service.Operator, _ *dto.QrCodeQueryRequest) ([]dto.QrCodeResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockQrCodeService) Verify(_ context.Context, _ string) (*dto.QrCodeVerifyResult, error) {
	return m.verifyResult, m.verifyErr
}
func (m *mockQrCodeService) VerifyOfKind(_ context.Context, _, _ string) (*model.QrCode, error) {
	return m.verifyOfKind, m.verifyKindErr
}
func (m *mockQrCodeService) Disable(_ context.Context, _ service.Operator, _ int64) error {
	return m.disableErr
}
func (m *mockQrCodeService) ToResponse(_ *model.QrCode) dto.QrCodeResponse {
	return dto.QrCodeResponse{}
}

// ── Mock CheckinService ──

type mockCheckinService struct {
	submitResult *dto.CheckinSubmitResponse
	submitErr    error
	listResult   []dto.CheckinResponse
	listTotal    int64
	listErr      error
	statsResult  *dto.CheckinStatisticsResponse
	statsErr     error
}

func (m *mockCheckinService) Submit(_ context.Context, _ *dto.CheckinSubmitRequest) (*dto.CheckinSubmitResponse, error) {
	return m.submitResult, m.submitErr
}
func (m *mockCheckinService) List(_ context.Context, _ service.Operator, _ *dto.CheckinQueryRequest) ([]dto.CheckinResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockCheckinService) Statistics(_ context.Context, _ service.Operator, _ int64) (*dto.CheckinStatisticsResponse, error) {
	return m.statsResult, m.statsErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportCheckins(_ context.Context, _ service.Operator, _ int64) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupGin() (*gin.Engine, *gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, r := gin.CreateTestContext(w)
	return r, c, w
}

func setAuth(c *gin.Context) {
	c.Set("claims", &jwt.Claims{
		AdminID: 1,
		Role:    model.RoleCity,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        "test-jti",
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(15 * time.Minute)),
		},
	})
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken: "test-access-token",
			ExpiresIn:   900,
		},
	}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Username: "admin",
		Password: "admin123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrInvalidCredentials}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Username: "admin",
		Password: "wrongpass",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", func(c *gin.Context) {
		setAuth(c)
		h.Logout(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_Logout_Unauthenticated(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", h.Logout)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// CheckinHandler Tests
// ═══════════════════════════════════════════════════════════

func TestCheckinHandler_Submit_Success(t *testing.T) {
	mock := &mockCheckinService{
		submitResult: &dto.CheckinSubmitResponse{
			CheckinID:     1,
			SubmittedTime: "2025-10-01T10:00:00+08:00",
		},
	}
	h := NewCheckinHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/checkins", jsonBody(dto.CheckinSubmitRequest{
		Token:           "some-token",
		TeachingPointID: 3,
		AttendeeCount:   20,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/checkins", h.Submit)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestCheckinHandler_Submit_MissingAttendeeCount(t *testing.T) {
	mock := &mockCheckinService{}
	h := NewCheckinHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/checkins", jsonBody(map[string]interface{}{
		"token":             "some-token",
		"teaching_point_id": 3,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/checkins", h.Submit)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCheckinHandler_Submit_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"AlreadyCheckedIn", service.ErrAlreadyCheckedIn, 409, 14001},
		{"ActivityNotOngoing", service.ErrActivityNotOngoing, 400, 13003},
		{"ActivityNotStarted", service.ErrActivityNotStarted, 400, 13004},
		{"ActivityTimeEnded", service.ErrActivityTimeEnded, 400, 13005},
		{"QrCodeDisabled", service.ErrQrCodeDisabled, 400, 15002},
		{"KindMismatch", service.ErrQrCodeKindMismatch, 400, 15004},
		{"TeachingPointNotFound", service.ErrTeachingPointNotFound, 404, 18001},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockCheckinService{submitErr: tt.err}
			h := NewCheckinHandler(mock)

			_, _, w := setupGin()
			req := httptest.NewRequest("POST", "/checkins", jsonBody(dto.CheckinSubmitRequest{
				Token:           "some-token",
				TeachingPointID: 3,
				AttendeeCount:   20,
			}))
			req.Header.Set("Content-Type", "application/json")

			r := gin.New()
			r.POST("/checkins", h.Submit)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestCheckinHandler_List_Unauthenticated(t *testing.T) {
	mock := &mockCheckinService{}
	h := NewCheckinHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/checkins?activity_id=1", nil)

	r := gin.New()
	r.GET("/checkins", h.List)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// QrCodeHandler Tests
// ═══════════════════════════════════════════════════════════

func TestQrCodeHandler_Verify_Valid(t *testing.T) {
	mock := &mockQrCodeService{
		verifyResult: &dto.QrCodeVerifyResult{
			Valid:      true,
			QrCodeID:   1,
			ActivityID: 2,
			Kind:       model.QrCodeKindCheckin,
		},
	}
	h := NewQrCodeHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/qrcodes/verify", jsonBody(dto.VerifyQrCodeRequest{
		Token: "some-token",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/qrcodes/verify", h.Verify)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// 无效令牌不是 HTTP 错误：验证接口始终以 200 + valid=false 返回
func TestQrCodeHandler_Verify_InvalidTokenStill200(t *testing.T) {
	mock := &mockQrCodeService{
		verifyResult: &dto.QrCodeVerifyResult{
			Valid:  false,
			Reason: "令牌无效",
		},
	}
	h := NewQrCodeHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/qrcodes/verify", jsonBody(dto.VerifyQrCodeRequest{
		Token: "garbage",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/qrcodes/verify", h.Verify)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestQrCodeHandler_Generate_Success(t *testing.T) {
	mock := &mockQrCodeService{
		generateResult: &dto.QrCodeResponse{
			ID:    1,
			Kind:  model.QrCodeKindCheckin,
			Token: "new-token",
		},
	}
	h := NewQrCodeHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/activities/1/qrcodes", jsonBody(dto.GenerateQrCodeRequest{
		Kind: model.QrCodeKindCheckin,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/activities/:id/qrcodes", func(c *gin.Context) {
		setAuth(c)
		h.Generate(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestQrCodeHandler_Generate_BadActivityID(t *testing.T) {
	mock := &mockQrCodeService{}
	h := NewQrCodeHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/activities/abc/qrcodes", jsonBody(dto.GenerateQrCodeRequest{
		Kind: model.QrCodeKindCheckin,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/activities/:id/qrcodes", func(c *gin.Context) {
		setAuth(c)
		h.Generate(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestQrCodeHandler_Disable_NotFound(t *testing.T) {
	mock := &mockQrCodeService{disableErr: service.ErrQrCodeNotFound}
	h := NewQrCodeHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/qrcodes/99/disable", nil)

	r := gin.New()
	r.POST("/qrcodes/:id/disable", func(c *gin.Context) {
		setAuth(c)
		h.Disable(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15001 {
		t.Errorf("expected code 15001, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_Success(t *testing.T) {
	buf := bytes.NewBufferString("excel content")
	mock := &mockExportService{
		buf:      buf,
		filename: "春季教研活动-打卡记录.xlsx",
	}
	h := NewExportHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/activities/1/checkins/export", nil)

	r := gin.New()
	r.GET("/activities/:id/checkins/export", func(c *gin.Context) {
		setAuth(c)
		h.ExportCheckins(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	ct := w.Header().Get("Content-Type")
	if ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type: %s", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if cd == "" {
		t.Error("expected Content-Disposition header")
	}
}

func TestExportHandler_NoCheckins(t *testing.T) {
	mock := &mockExportService{err: service.ErrExportNoCheckins}
	h := NewExportHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/activities/1/checkins/export", nil)

	r := gin.New()
	r.GET("/activities/:id/checkins/export", func(c *gin.Context) {
		setAuth(c)
		h.ExportCheckins(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 19001 {
		t.Errorf("expected code 19001, got %d", resp.Code)
	}
}
