package dto

import "time"

// 보고서 집계 간격
const (
	IntervalDaily   = "daily"
	IntervalWeekly  = "weekly"
	IntervalMonthly = "monthly"
)

// StatisticsParams 보고서 통계 조회 파라미터
type StatisticsParams struct {
	From     time.Time
	To       time.Time
	Interval string
	Council  string
}

// StatBucket 기간별 집계 버킷
type StatBucket struct {
	Period        time.Time `json:"period"`
	Registrations int64     `json:"registrations"`
	Activities    int64     `json:"activities"`
}

// Statistics 보고서 통계 결과
type Statistics struct {
	From     time.Time    `json:"from"`
	To       time.Time    `json:"to"`
	Interval string       `json:"interval"`
	Buckets  []StatBucket `json:"buckets"`
}
