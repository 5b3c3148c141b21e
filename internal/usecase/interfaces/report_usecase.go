package interfaces

import (
	"context"

	"membership-server/internal/domain/entity"
	"membership-server/internal/usecase/dto"
)

// ReportUseCase 보고서 통계 유스케이스 인터페이스
type ReportUseCase interface {
	// Statistics 기간별 가입/활동 통계 조회
	Statistics(ctx context.Context, caller *entity.User, params dto.StatisticsParams) (*dto.Statistics, error)

	// ExportCSV 통계를 CSV로 내보내기
	ExportCSV(ctx context.Context, caller *entity.User, params dto.StatisticsParams) ([]byte, error)
}
