package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/NecoOcean/we-chat-check-in/internal/repository"
)

var ErrExportNoCheckins = errors.New("该活动暂无打卡记录")

// ExportService 导出业务接口
//
// 打卡记录导出为 Excel (.xlsx)，以 bytes.Buffer 返回，
// 由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	ExportCheckins(ctx context.Context, op Operator, activityID int64) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportCheckins(ctx context.Context, op Operator, activityID int64) (*bytes.Buffer, string, error) {
	// 1. 查询活动并校验可见性
	activity, err := s.repo.Activity.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrActivityNotFound
		}
		s.logger.Error("查询活动失败", zap.Error(err))
		return nil, "", err
	}
	if !canViewActivity(op, activity) {
		return nil, "", ErrPermissionDenied
	}

	// 2. 查询全部打卡记录
	checkins, err := s.repo.Checkin.ListAllByActivity(ctx, activityID)
	if err != nil {
		s.logger.Error("查询打卡记录失败", zap.Error(err))
		return nil, "", err
	}
	if len(checkins) == 0 {
		return nil, "", ErrExportNoCheckins
	}

	// 3. 解析教学点与区县名称
	countyNames := make(map[string]string)
	if counties, err := s.repo.County.List(ctx); err == nil {
		for _, c := range counties {
			countyNames[c.Code] = c.Name
		}
	}

	type pointInfo struct {
		name   string
		county string
	}
	points := make(map[int64]pointInfo)
	for _, c := range checkins {
		if _, ok := points[c.TeachingPointID]; ok {
			continue
		}
		point, err := s.repo.TeachingPoint.GetByID(ctx, c.TeachingPointID)
		if err != nil {
			points[c.TeachingPointID] = pointInfo{}
			continue
		}
		points[c.TeachingPointID] = pointInfo{
			name:   point.Name,
			county: countyNames[point.CountyCode],
		}
	}

	// 4. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "打卡记录"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		s.logger.Error("创建工作表失败", zap.Error(err))
		return nil, "", err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "C", 20)
	f.SetColWidth(sheetName, "D", "D", 12)
	f.SetColWidth(sheetName, "E", "E", 22)

	headers := []string{"序号", "教学点", "所属区县", "参与人数", "打卡时间"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}

	for i, c := range checkins {
		row := i + 2
		info := points[c.TeachingPointID]
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), info.name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), info.county)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), c.AttendeeCount)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), c.SubmittedTime.Format("2006-01-02 15:04:05"))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		s.logger.Error("生成 Excel 文件失败", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("%s-打卡记录.xlsx", activity.Name)
	return &buf, filename, nil
}
