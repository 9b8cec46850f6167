package dto

// EvaluationSubmitRequest 评价提交请求（参与端，无需登录）
// 三项评分均为 1-3：满意度、实用性必填，质量可选
type EvaluationSubmitRequest struct {
	Token           string `json:"token" binding:"required"`
	TeachingPointID int64  `json:"teaching_point_id" binding:"required,gt=0"`
	Q1Satisfaction  int    `json:"q1_satisfaction" binding:"required,min=1,max=3"`
	Q2Practicality  int    `json:"q2_practicality" binding:"required,min=1,max=3"`
	Q3Quality       *int   `json:"q3_quality" binding:"omitempty,min=1,max=3"`
	SuggestionText  string `json:"suggestion_text" binding:"max=200"`
}

// EvaluationSubmitResponse 评价成功响应
type EvaluationSubmitResponse struct {
	EvaluationID  int64  `json:"evaluation_id"`
	SubmittedTime string `json:"submitted_time"`
}

// EvaluationQueryRequest 评价记录查询（管理端）
type EvaluationQueryRequest struct {
	ActivityID      int64 `form:"activity_id" binding:"required,gt=0"`
	TeachingPointID int64 `form:"teaching_point_id"`
	Page            int   `form:"page,default=1" binding:"min=1"`
	Size            int   `form:"size,default=10" binding:"min=1,max=100"`
}

// EvaluationResponse 评价记录
type EvaluationResponse struct {
	ID                int64  `json:"id"`
	ActivityID        int64  `json:"activity_id"`
	ActivityName      string `json:"activity_name,omitempty"`
	TeachingPointID   int64  `json:"teaching_point_id"`
	TeachingPointName string `json:"teaching_point_name,omitempty"`
	Q1Satisfaction    int    `json:"q1_satisfaction"`
	Q2Practicality    int    `json:"q2_practicality"`
	Q3Quality         *int   `json:"q3_quality,omitempty"`
	SuggestionText    string `json:"suggestion_text,omitempty"`
	SubmittedTime     string `json:"submitted_time"`
}

// EvaluationStatisticsResponse 评价统计（平均分）
type EvaluationStatisticsResponse struct {
	ActivityID        int64   `json:"activity_id"`
	EvaluationCount   int64   `json:"evaluation_count"`
	AvgQ1Satisfaction float64 `json:"avg_q1_satisfaction"`
	AvgQ2Practicality float64 `json:"avg_q2_practicality"`
	AvgQ3Quality      float64 `json:"avg_q3_quality"` // 仅统计填写了该项的记录
}
