package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/NecoOcean/we-chat-check-in/config"
	"github.com/NecoOcean/we-chat-check-in/internal/model"
	"github.com/NecoOcean/we-chat-check-in/internal/repository"
	"github.com/NecoOcean/we-chat-check-in/pkg/qrtoken"
)

// uniqueViolation 模拟 PostgreSQL 唯一约束冲突
func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505"}
}

// ── Mock AdminRepository ──

type mockAdminRepo struct {
	mu     sync.Mutex
	admins map[int64]*model.Admin
	nextID int64
}

func newMockAdminRepo() *mockAdminRepo {
	return &mockAdminRepo{admins: make(map[int64]*model.Admin)}
}

func (m *mockAdminRepo) Create(_ context.Context, admin *model.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if !a.Deleted && a.Username == admin.Username {
			return uniqueViolation()
		}
	}
	m.nextID++
	admin.ID = m.nextID
	admin.CreatedTime = time.Now()
	cp := *admin
	m.admins[admin.ID] = &cp
	return nil
}

func (m *mockAdminRepo) GetByID(_ context.Context, id int64) (*model.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.admins[id]; ok && !a.Deleted {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdminRepo) GetByUsername(_ context.Context, username string) (*model.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if !a.Deleted && a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdminRepo) Update(_ context.Context, admin *model.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *admin
	m.admins[admin.ID] = &cp
	return nil
}

func (m *mockAdminRepo) UpdateLastLogin(_ context.Context, id int64, loginTime time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.admins[id]; ok {
		a.LastLoginTime = &loginTime
	}
	return nil
}

func (m *mockAdminRepo) SoftDelete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.admins[id]; ok {
		a.Deleted = true
	}
	return nil
}

func (m *mockAdminRepo) List(_ context.Context, filter repository.AdminFilter) ([]model.Admin, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Admin
	for _, a := range m.admins {
		if a.Deleted {
			continue
		}
		if filter.Role != "" && a.Role != filter.Role {
			continue
		}
		if filter.CountyCode != "" && (a.CountyCode == nil || *a.CountyCode != filter.CountyCode) {
			continue
		}
		result = append(result, *a)
	}
	return result, int64(len(result)), nil
}

func (m *mockAdminRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, a := range m.admins {
		if !a.Deleted {
			count++
		}
	}
	return count, nil
}

// ── Mock CountyRepository ──

type mockCountyRepo struct {
	counties map[string]*model.County
}

func newMockCountyRepo() *mockCountyRepo {
	return &mockCountyRepo{counties: make(map[string]*model.County)}
}

func (m *mockCountyRepo) Create(_ context.Context, county *model.County) error {
	if _, ok := m.counties[county.Code]; ok {
		return uniqueViolation()
	}
	county.CreatedTime = time.Now()
	cp := *county
	m.counties[county.Code] = &cp
	return nil
}

func (m *mockCountyRepo) GetByCode(_ context.Context, code string) (*model.County, error) {
	if c, ok := m.counties[code]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCountyRepo) Update(_ context.Context, county *model.County) error {
	cp := *county
	m.counties[county.Code] = &cp
	return nil
}

func (m *mockCountyRepo) List(_ context.Context) ([]model.County, error) {
	var result []model.County
	for _, c := range m.counties {
		result = append(result, *c)
	}
	return result, nil
}

// ── Mock TeachingPointRepository ──

type mockTeachingPointRepo struct {
	points map[int64]*model.TeachingPoint
	nextID int64
}

func newMockTeachingPointRepo() *mockTeachingPointRepo {
	return &mockTeachingPointRepo{points: make(map[int64]*model.TeachingPoint)}
}

func (m *mockTeachingPointRepo) Create(_ context.Context, point *model.TeachingPoint) error {
	m.nextID++
	point.ID = m.nextID
	point.CreatedTime = time.Now()
	cp := *point
	m.points[point.ID] = &cp
	return nil
}

func (m *mockTeachingPointRepo) GetByID(_ context.Context, id int64) (*model.TeachingPoint, error) {
	if p, ok := m.points[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeachingPointRepo) Update(_ context.Context, point *model.TeachingPoint) error {
	cp := *point
	m.points[point.ID] = &cp
	return nil
}

func (m *mockTeachingPointRepo) List(_ context.Context, filter repository.TeachingPointFilter) ([]model.TeachingPoint, int64, error) {
	var result []model.TeachingPoint
	for _, p := range m.points {
		if filter.CountyCode != "" && p.CountyCode != filter.CountyCode {
			continue
		}
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

// ── Mock ActivityRepository ──

type mockActivityRepo struct {
	mu         sync.Mutex
	activities map[int64]*model.Activity
	nextID     int64
}

func newMockActivityRepo() *mockActivityRepo {
	return &mockActivityRepo{activities: make(map[int64]*model.Activity)}
}

func (m *mockActivityRepo) Create(_ context.Context, activity *model.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	activity.ID = m.nextID
	activity.CreatedTime = time.Now()
	cp := *activity
	m.activities[activity.ID] = &cp
	return nil
}

func (m *mockActivityRepo) GetByID(_ context.Context, id int64) (*model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.activities[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockActivityRepo) List(_ context.Context, filter repository.ActivityFilter) ([]model.Activity, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Activity
	for _, a := range m.activities {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.CountyCode != "" && a.ScopeCountyCode != nil && *a.ScopeCountyCode != filter.CountyCode {
			continue
		}
		result = append(result, *a)
	}
	return result, int64(len(result)), nil
}

func (m *mockActivityRepo) MarkEnded(_ context.Context, id int64, endedTime time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.activities[id]
	if !ok || a.Status == model.ActivityStatusEnded {
		return false, nil
	}
	a.Status = model.ActivityStatusEnded
	a.EndedTime = &endedTime
	return true, nil
}

// ── Mock QrCodeRepository ──

type mockQrCodeRepo struct {
	mu      sync.Mutex
	qrcodes map[int64]*model.QrCode
	nextID  int64
}

func newMockQrCodeRepo() *mockQrCodeRepo {
	return &mockQrCodeRepo{qrcodes: make(map[int64]*model.QrCode)}
}

func (m *mockQrCodeRepo) Create(_ context.Context, qrcode *model.QrCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	qrcode.ID = m.nextID
	qrcode.CreatedTime = time.Now()
	cp := *qrcode
	m.qrcodes[qrcode.ID] = &cp
	return nil
}

func (m *mockQrCodeRepo) GetByID(_ context.Context, id int64) (*model.QrCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q, ok := m.qrcodes[id]; ok {
		cp := *q
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQrCodeRepo) UpdateToken(_ context.Context, id int64, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q, ok := m.qrcodes[id]; ok {
		q.Token = token
	}
	return nil
}

func (m *mockQrCodeRepo) List(_ context.Context, filter repository.QrCodeFilter) ([]model.QrCode, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.QrCode
	for _, q := range m.qrcodes {
		if filter.ActivityID > 0 && q.ActivityID != filter.ActivityID {
			continue
		}
		if filter.Kind != "" && q.Kind != filter.Kind {
			continue
		}
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		result = append(result, *q)
	}
	return result, int64(len(result)), nil
}

func (m *mockQrCodeRepo) ListByActivity(_ context.Context, activityID int64) ([]model.QrCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.QrCode
	for _, q := range m.qrcodes {
		if q.ActivityID == activityID {
			result = append(result, *q)
		}
	}
	return result, nil
}

func (m *mockQrCodeRepo) Disable(_ context.Context, id int64, disabledTime time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q, ok := m.qrcodes[id]; ok && q.Status == model.QrCodeStatusEnabled {
		q.Status = model.QrCodeStatusDisabled
		q.DisabledTime = &disabledTime
	}
	return nil
}

func (m *mockQrCodeRepo) DisableAllExcept(_ context.Context, activityID int64, keepKind string, disabledTime time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range m.qrcodes {
		if q.ActivityID == activityID && q.Kind != keepKind && q.Status == model.QrCodeStatusEnabled {
			q.Status = model.QrCodeStatusDisabled
			q.DisabledTime = &disabledTime
		}
	}
	return nil
}

// ── Mock CheckinRepository ──
// Create 在互斥锁内检查 (activity_id, teaching_point_id) 唯一性，
// 与数据库唯一约束在并发插入时的行为一致

type pairKey struct {
	activityID      int64
	teachingPointID int64
}

type mockCheckinRepo struct {
	mu       sync.Mutex
	checkins map[pairKey]*model.Checkin
	nextID   int64
}

func newMockCheckinRepo() *mockCheckinRepo {
	return &mockCheckinRepo{checkins: make(map[pairKey]*model.Checkin)}
}

func (m *mockCheckinRepo) Create(_ context.Context, checkin *model.Checkin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey{checkin.ActivityID, checkin.TeachingPointID}
	if _, ok := m.checkins[key]; ok {
		return uniqueViolation()
	}
	m.nextID++
	checkin.ID = m.nextID
	cp := *checkin
	m.checkins[key] = &cp
	return nil
}

func (m *mockCheckinRepo) GetByPair(_ context.Context, activityID, teachingPointID int64) (*model.Checkin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.checkins[pairKey{activityID, teachingPointID}]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCheckinRepo) ExistsByPair(_ context.Context, activityID, teachingPointID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.checkins[pairKey{activityID, teachingPointID}]
	return ok, nil
}

func (m *mockCheckinRepo) List(_ context.Context, filter repository.CheckinFilter) ([]model.Checkin, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Checkin
	for _, c := range m.checkins {
		if filter.ActivityID > 0 && c.ActivityID != filter.ActivityID {
			continue
		}
		if filter.TeachingPointID > 0 && c.TeachingPointID != filter.TeachingPointID {
			continue
		}
		result = append(result, *c)
	}
	return result, int64(len(result)), nil
}

func (m *mockCheckinRepo) ListAllByActivity(_ context.Context, activityID int64) ([]model.Checkin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Checkin
	for _, c := range m.checkins {
		if c.ActivityID == activityID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCheckinRepo) Statistics(_ context.Context, activityID int64) (*repository.CheckinStatistics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &repository.CheckinStatistics{}
	seen := make(map[int64]bool)
	for _, c := range m.checkins {
		if c.ActivityID != activityID {
			continue
		}
		if !seen[c.TeachingPointID] {
			seen[c.TeachingPointID] = true
			stats.ParticipatingTeachingPoints++
		}
		stats.TotalAttendees += int64(c.AttendeeCount)
	}
	return stats, nil
}

// ── Mock EvaluationRepository ──

type mockEvaluationRepo struct {
	mu          sync.Mutex
	evaluations map[pairKey]*model.Evaluation
	nextID      int64
}

func newMockEvaluationRepo() *mockEvaluationRepo {
	return &mockEvaluationRepo{evaluations: make(map[pairKey]*model.Evaluation)}
}

func (m *mockEvaluationRepo) Create(_ context.Context, evaluation *model.Evaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey{evaluation.ActivityID, evaluation.TeachingPointID}
	if _, ok := m.evaluations[key]; ok {
		return uniqueViolation()
	}
	m.nextID++
	evaluation.ID = m.nextID
	cp := *evaluation
	m.evaluations[key] = &cp
	return nil
}

func (m *mockEvaluationRepo) ExistsByPair(_ context.Context, activityID, teachingPointID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.evaluations[pairKey{activityID, teachingPointID}]
	return ok, nil
}

func (m *mockEvaluationRepo) List(_ context.Context, filter repository.EvaluationFilter) ([]model.Evaluation, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Evaluation
	for _, e := range m.evaluations {
		if filter.ActivityID > 0 && e.ActivityID != filter.ActivityID {
			continue
		}
		if filter.TeachingPointID > 0 && e.TeachingPointID != filter.TeachingPointID {
			continue
		}
		result = append(result, *e)
	}
	return result, int64(len(result)), nil
}

func (m *mockEvaluationRepo) Statistics(_ context.Context, activityID int64) (*repository.EvaluationStatistics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &repository.EvaluationStatistics{}
	var sumQ1, sumQ2, sumQ3 int64
	var q3Count int64
	for _, e := range m.evaluations {
		if e.ActivityID != activityID {
			continue
		}
		stats.EvaluationCount++
		sumQ1 += int64(e.Q1Satisfaction)
		sumQ2 += int64(e.Q2Practicality)
		if e.Q3Quality != nil {
			sumQ3 += int64(*e.Q3Quality)
			q3Count++
		}
	}
	if stats.EvaluationCount > 0 {
		stats.AvgQ1Satisfaction = float64(sumQ1) / float64(stats.EvaluationCount)
		stats.AvgQ2Practicality = float64(sumQ2) / float64(stats.EvaluationCount)
	}
	if q3Count > 0 {
		stats.AvgQ3Quality = float64(sumQ3) / float64(q3Count)
	}
	return stats, nil
}

func (m *mockEvaluationRepo) CountByActivity(_ context.Context, activityID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, e := range m.evaluations {
		if e.ActivityID == activityID {
			count++
		}
	}
	return count, nil
}

// ── 测试环境 ──

type testEnv struct {
	cfg *config.Config

	admins      *mockAdminRepo
	counties    *mockCountyRepo
	points      *mockTeachingPointRepo
	activities  *mockActivityRepo
	qrcodes     *mockQrCodeRepo
	checkins    *mockCheckinRepo
	evaluations *mockEvaluationRepo

	repo  *repository.Repository
	qrMgr *qrtoken.Manager
}

func newTestEnv() *testEnv {
	env := &testEnv{
		cfg: &config.Config{
			Server: config.ServerConfig{
				BaseURL: "http://localhost:8080",
			},
			Auth: config.AuthConfig{
				JWTSecret:      "test-jwt-secret-for-unit-testing",
				AccessTokenTTL: 15 * time.Minute,
			},
			QrCode: config.QrCodeConfig{
				Secret:                "test-qrcode-secret-for-unit-testing-0001",
				Issuer:                "wechat-checkin-qrcode-test",
				DefaultExpirationDays: 7,
			},
		},
		admins:      newMockAdminRepo(),
		counties:    newMockCountyRepo(),
		points:      newMockTeachingPointRepo(),
		activities:  newMockActivityRepo(),
		qrcodes:     newMockQrCodeRepo(),
		checkins:    newMockCheckinRepo(),
		evaluations: newMockEvaluationRepo(),
	}

	env.repo = &repository.Repository{
		Admin:         env.admins,
		County:        env.counties,
		TeachingPoint: env.points,
		Activity:      env.activities,
		QrCode:        env.qrcodes,
		Checkin:       env.checkins,
		Evaluation:    env.evaluations,
	}
	env.qrMgr = qrtoken.NewManager(&env.cfg.QrCode)
	return env
}
