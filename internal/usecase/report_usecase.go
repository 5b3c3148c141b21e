package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"membership-server/internal/domain/entity"
	"membership-server/internal/domain/repository"
	"membership-server/internal/usecase/dto"
	"membership-server/internal/usecase/interfaces"
)

// ReportUseCase 보고서 통계 유스케이스 구현체
type ReportUseCase struct {
	logger *zap.Logger
	repos  *repository.Repositories
}

// NewReportUseCase 새 보고서 유스케이스 생성
func NewReportUseCase(logger *zap.Logger, repos *repository.Repositories) interfaces.ReportUseCase {
	return &ReportUseCase{
		logger: logger,
		repos:  repos,
	}
}

// bucketStart 간격에 맞는 버킷 시작 시각.
// 주간 버킷은 월요일 자정으로 정렬한다.
func bucketStart(t time.Time, interval string) time.Time {
	t = t.UTC()
	switch interval {
	case dto.IntervalMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case dto.IntervalWeekly:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

// Statistics 기간별 가입/활동 통계 조회.
// 범위는 호출자 역할로 확정되며 비어 있는 버킷도 0으로 채워 반환한다.
func (uc *ReportUseCase) Statistics(ctx context.Context, caller *entity.User, params dto.StatisticsParams) (*dto.Statistics, error) {
	if !caller.Role.IsAdmin() {
		return nil, NewAuthError(ErrCodeForbidden, "보고서 조회 권한이 없습니다")
	}

	interval := params.Interval
	switch interval {
	case dto.IntervalDaily, dto.IntervalWeekly, dto.IntervalMonthly:
	case "":
		interval = dto.IntervalDaily
	default:
		return nil, NewAuthError(ErrCodeValidation, "지원하지 않는 집계 간격입니다")
	}

	to := params.To
	if to.IsZero() {
		to = time.Now()
	}
	from := params.From
	if from.IsZero() {
		from = to.AddDate(0, -1, 0)
	}
	if !from.Before(to) {
		return nil, NewAuthError(ErrCodeValidation, "조회 기간이 올바르지 않습니다")
	}

	scope := entity.ResolveScope(caller, entity.ScopeFilter{Council: params.Council})

	registrations, err := uc.repos.User.RegistrationSeries(ctx, scope, from, to)
	if err != nil {
		return nil, fmt.Errorf("가입 통계 조회 실패: %w", err)
	}
	activities, err := uc.repos.Record.ActivitySeries(ctx, scope, from, to)
	if err != nil {
		return nil, fmt.Errorf("활동 통계 조회 실패: %w", err)
	}

	buckets := make(map[time.Time]*dto.StatBucket)
	ensure := func(period time.Time) *dto.StatBucket {
		if b, ok := buckets[period]; ok {
			return b
		}
		b := &dto.StatBucket{Period: period}
		buckets[period] = b
		return b
	}

	// 비어 있는 구간도 0으로 노출한다
	for cursor := bucketStart(from, interval); !cursor.After(to); {
		ensure(cursor)
		switch interval {
		case dto.IntervalMonthly:
			cursor = cursor.AddDate(0, 1, 0)
		case dto.IntervalWeekly:
			cursor = cursor.AddDate(0, 0, 7)
		default:
			cursor = cursor.AddDate(0, 0, 1)
		}
	}

	for _, dc := range registrations {
		ensure(bucketStart(dc.Date, interval)).Registrations += dc.Count
	}
	for _, dc := range activities {
		ensure(bucketStart(dc.Date, interval)).Activities += dc.Count
	}

	result := make([]dto.StatBucket, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Period.Before(result[j].Period)
	})

	return &dto.Statistics{
		From:     from,
		To:       to,
		Interval: interval,
		Buckets:  result,
	}, nil
}

// ExportCSV 통계를 CSV로 내보내기
func (uc *ReportUseCase) ExportCSV(ctx context.Context, caller *entity.User, params dto.StatisticsParams) ([]byte, error) {
	stats, err := uc.Statistics(ctx, caller, params)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"period", "registrations", "activities"}); err != nil {
		return nil, fmt.Errorf("CSV 작성 실패: %w", err)
	}
	for _, b := range stats.Buckets {
		row := []string{
			b.Period.Format("2006-01-02"),
			strconv.FormatInt(b.Registrations, 10),
			strconv.FormatInt(b.Activities, 10),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("CSV 작성 실패: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("CSV 작성 실패: %w", err)
	}

	return buf.Bytes(), nil
}
