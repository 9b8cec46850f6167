package dto

// CheckinSubmitRequest 打卡提交请求（参与端，无需登录）
type CheckinSubmitRequest struct {
	Token           string `json:"token" binding:"required"`
	TeachingPointID int64  `json:"teaching_point_id" binding:"required,gt=0"`
	AttendeeCount   int    `json:"attendee_count" binding:"required,gt=0"`
}

// CheckinSubmitResponse 打卡成功响应
type CheckinSubmitResponse struct {
	CheckinID     int64  `json:"checkin_id"`
	SubmittedTime string `json:"submitted_time"`
}

// CheckinQueryRequest 打卡记录查询（管理端）
type CheckinQueryRequest struct {
	ActivityID      int64 `form:"activity_id" binding:"required,gt=0"`
	TeachingPointID int64 `form:"teaching_point_id"`
	Page            int   `form:"page,default=1" binding:"min=1"`
	Size            int   `form:"size,default=10" binding:"min=1,max=100"`
}

// CheckinResponse 打卡记录
type CheckinResponse struct {
	ID                int64  `json:"id"`
	ActivityID        int64  `json:"activity_id"`
	ActivityName      string `json:"activity_name,omitempty"`
	TeachingPointID   int64  `json:"teaching_point_id"`
	TeachingPointName string `json:"teaching_point_name,omitempty"`
	AttendeeCount     int    `json:"attendee_count"`
	SubmittedTime     string `json:"submitted_time"`
}

// CheckinStatisticsResponse 打卡统计
type CheckinStatisticsResponse struct {
	ActivityID                  int64 `json:"activity_id"`
	ParticipatingTeachingPoints int64 `json:"participating_teaching_points"`
	TotalAttendees              int64 `json:"total_attendees"`
}
