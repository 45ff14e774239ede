package services

import (
	"context"
	"time"

	"github.com/wiserse/toolbox/internal/core/ports"
	"github.com/wiserse/toolbox/internal/domain"
	"github.com/wiserse/toolbox/internal/infrastructure/logger"
)

// salesEngineerRole names the role whose members appear on the performance
// dashboard.
const salesEngineerRole = "Sales Engineer"

// PerformanceMetrics aggregates one team member's study outcomes over the
// selected period.
type PerformanceMetrics struct {
	UserID             string  `json:"user_id"`
	FullName           string  `json:"full_name"`
	Email              string  `json:"email"`
	TotalStudies       int     `json:"total_studies"`
	AvgTimePerStudy    float64 `json:"avg_time_per_study"`
	WonStudies         int     `json:"won_studies"`
	LostStudies        int     `json:"lost_studies"`
	InProgressStudies  int     `json:"in_progress_studies"`
	TotalRevenueWon    float64 `json:"total_revenue_won"`
	TotalRevenueLost   float64 `json:"total_revenue_lost"`
	AvgRevenuePerStudy float64 `json:"avg_revenue_per_study"`
	RevenuePerDay      float64 `json:"revenue_per_day"`
	WinRate            float64 `json:"win_rate"`
}

type PerformanceReport struct {
	Members []domain.AdminUserView `json:"members"`
	Studies []domain.APStudy       `json:"studies"`
	Metrics []PerformanceMetrics   `json:"metrics"`
}

type PerformanceService struct {
	repo ports.StudyRepository
	log  *logger.Logger
}

func NewPerformanceService(repo ports.StudyRepository, log *logger.Logger) *PerformanceService {
	return &PerformanceService{repo: repo, log: log}
}

// GetReport loads the active Sales Engineers and their studies in the date
// range (filtering on study start date), then computes per-member metrics.
func (s *PerformanceService) GetReport(ctx context.Context, start, end *time.Time) (*PerformanceReport, error) {
	members, err := s.repo.GetTeamMembers(ctx, salesEngineerRole)
	if err != nil {
		return nil, err
	}
	studies, err := s.repo.GetStudies(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return &PerformanceReport{
		Members: members,
		Studies: studies,
		Metrics: ComputeMetrics(studies, members),
	}, nil
}

// ComputeMetrics derives the dashboard numbers for each member from their
// assigned studies. Win rate counts only decided (won or lost) studies;
// revenue per day relates won revenue to the days spent on won studies.
func ComputeMetrics(studies []domain.APStudy, members []domain.AdminUserView) []PerformanceMetrics {
	byAssignee := make(map[string][]domain.APStudy, len(members))
	for _, study := range studies {
		byAssignee[study.AssignedTo] = append(byAssignee[study.AssignedTo], study)
	}

	metrics := make([]PerformanceMetrics, 0, len(members))
	for _, member := range members {
		own := byAssignee[member.ID]

		m := PerformanceMetrics{
			UserID:   member.ID,
			FullName: member.FullName,
			Email:    member.Email,
		}
		m.TotalStudies = len(own)

		var totalTime, totalValue, wonTime float64
		for _, study := range own {
			totalTime += study.TimeSpentDays
			totalValue += study.OpportunityValue
			switch study.Status {
			case domain.StudyStatusWon:
				m.WonStudies++
				m.TotalRevenueWon += study.OpportunityValue
				wonTime += study.TimeSpentDays
			case domain.StudyStatusLost:
				m.LostStudies++
				m.TotalRevenueLost += study.OpportunityValue
			case domain.StudyStatusInProgress:
				m.InProgressStudies++
			}
		}

		if m.TotalStudies > 0 {
			m.AvgTimePerStudy = totalTime / float64(m.TotalStudies)
			m.AvgRevenuePerStudy = totalValue / float64(m.TotalStudies)
		}
		if wonTime > 0 {
			m.RevenuePerDay = m.TotalRevenueWon / wonTime
		}
		if decided := m.WonStudies + m.LostStudies; decided > 0 {
			m.WinRate = float64(m.WonStudies) / float64(decided) * 100
		}

		metrics = append(metrics, m)
	}
	return metrics
}
