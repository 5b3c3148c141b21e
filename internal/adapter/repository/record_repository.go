package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"membership-server/internal/domain/entity"
	"membership-server/internal/domain/repository"
	"membership-server/internal/infrastructure/db/model"
)

type RecordRepositoryImpl struct {
	db *gorm.DB
}

// NewRecordRepository 기록 레포지토리 구현체 생성
func NewRecordRepository(db *gorm.DB) repository.RecordRepository {
	return &RecordRepositoryImpl{db: db}
}

// DeleteOwnedBy 사용자 소유 기록 일괄 삭제
func (r *RecordRepositoryImpl) DeleteOwnedBy(ctx context.Context, userID string) error {
	tx := r.db.WithContext(ctx)

	if err := tx.Where("user_id = ?", userID).Delete(&model.ActivityLogModel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&model.AwardProgressModel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&model.TrainingModel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&model.EventRsvpModel{}).Error; err != nil {
		return err
	}
	return tx.Where("user_id = ?", userID).Delete(&model.EventModel{}).Error
}

// ActivitySeries 범위 내 기간별 활동 기록 수 집계
func (r *RecordRepositoryImpl) ActivitySeries(ctx context.Context, scope entity.Scope, from, to time.Time) ([]repository.DateCount, error) {
	type row struct {
		Date  time.Time
		Count int64
	}

	tx := r.db.WithContext(ctx).Model(&model.ActivityLogModel{})

	if scope.OwnerID != "" {
		tx = tx.Where("user_id = ?", scope.OwnerID)
	} else if scope.Council != "" {
		tx = tx.Where("council = ?", scope.Council)
	}

	var rows []row
	err := tx.Select("date_trunc('day', occurred_at) AS date, count(*) AS count").
		Where("occurred_at >= ? AND occurred_at < ?", from, to).
		Group("1").
		Order("1").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	series := make([]repository.DateCount, 0, len(rows))
	for _, r := range rows {
		series = append(series, repository.DateCount{Date: r.Date, Count: r.Count})
	}
	return series, nil
}
