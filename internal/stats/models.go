package stats

import "github.com/MinThiha23/exco-budget-management-system-sub001/internal/programs"

// Overview is the dashboard headline block: program counts by status
// and the budget position across the visible portfolio.
type Overview struct {
	TotalPrograms   int                     `json:"total_programs"`
	ByStatus        map[programs.Status]int `json:"by_status"`
	TotalBudget     float64                 `json:"total_budget"`
	TotalDeducted   float64                 `json:"total_deducted"`
	RemainingBudget float64                 `json:"remaining_budget"`
	PendingQueries  int                     `json:"pending_queries"`
}

// DepartmentSummary is one row of the per-department breakdown.
type DepartmentSummary struct {
	Department    string  `json:"department" db:"department"`
	ProgramCount  int     `json:"program_count" db:"program_count"`
	TotalBudget   float64 `json:"total_budget" db:"total_budget"`
	TotalDeducted float64 `json:"total_deducted" db:"total_deducted"`
}
