package report

import (
	"context"
	"time"
)

type ReportService struct {
	repo *Repository
	now  func() time.Time
}

func NewReportService(repo *Repository, now func() time.Time) *ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportService{repo: repo, now: now}
}

// Overdue 附带逾期天数, 不足一天按 0 计
func (s *ReportService) Overdue(ctx context.Context) ([]OverdueRow, error) {
	now := s.now().UTC()
	rows, err := s.repo.Overdue(ctx, now)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].DaysOverdue = int(now.Sub(rows[i].DueAt) / (24 * time.Hour))
	}
	return rows, nil
}

func (s *ReportService) Summary(ctx context.Context) (*Summary, error) {
	return s.repo.Summary(ctx, s.now())
}
