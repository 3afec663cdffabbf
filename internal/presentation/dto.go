// Package presentation converts domain values to output DTOs for the
// headless CLI commands.
package presentation

import (
	"github.com/zjrosen/diagdash/internal/diag"
)

// SystemDTO represents a registered diagnostic system for presentation
type SystemDTO struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Version     string    `json:"version"`
	Tests       []ItemDTO `json:"tests"`
	Plots       []ItemDTO `json:"plots,omitempty"`
	Reports     []ItemDTO `json:"reports,omitempty"`
}

// ItemDTO represents a registered test, plot, or report
type ItemDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SummaryDTO represents a completed diagnostic run
type SummaryDTO struct {
	System       string      `json:"system"`
	RunID        string      `json:"run_id"`
	Rows         int         `json:"rows"`
	Columns      int         `json:"columns"`
	PassCount    int         `json:"pass_count"`
	FailCount    int         `json:"fail_count"`
	WarningCount int         `json:"warning_count"`
	ErrorCount   int         `json:"error_count"`
	Failed       bool        `json:"failed"`
	DurationMS   int64       `json:"duration_ms"`
	Timestamp    string      `json:"timestamp"`
	Results      []ResultDTO `json:"results"`
}

// ResultDTO represents a single test outcome
type ResultDTO struct {
	TestName string         `json:"test_name"`
	Status   string         `json:"status"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details,omitempty"`
}

// FromDomainSystem converts a system and its registered items to a DTO.
func FromDomainSystem(reg *diag.Registry, name string) (SystemDTO, error) {
	info, err := reg.System(name)
	if err != nil {
		return SystemDTO{}, err
	}
	tests, err := reg.Tests(name)
	if err != nil {
		return SystemDTO{}, err
	}
	plots, err := reg.Plots(name)
	if err != nil {
		return SystemDTO{}, err
	}
	reports, err := reg.Reports(name)
	if err != nil {
		return SystemDTO{}, err
	}

	dto := SystemDTO{
		Name:        info.Name,
		Description: info.Description,
		Version:     info.Version,
		Tests:       make([]ItemDTO, len(tests)),
	}
	for i, t := range tests {
		dto.Tests[i] = ItemDTO{Name: t.Name, Description: t.Description}
	}
	for _, p := range plots {
		dto.Plots = append(dto.Plots, ItemDTO{Name: p.Name, Description: p.Description})
	}
	for _, r := range reports {
		dto.Reports = append(dto.Reports, ItemDTO{Name: r.Name, Description: r.Description})
	}
	return dto, nil
}

// FromDomainSystems converts every registered system to a DTO in
// registration order.
func FromDomainSystems(reg *diag.Registry) ([]SystemDTO, error) {
	infos := reg.Systems()
	dtos := make([]SystemDTO, 0, len(infos))
	for _, info := range infos {
		dto, err := FromDomainSystem(reg, info.Name)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

// FromDomainSummary converts a run summary to a DTO.
func FromDomainSummary(s diag.Summary) SummaryDTO {
	results := make([]ResultDTO, len(s.Results))
	for i, r := range s.Results {
		results[i] = ResultDTO{
			TestName: r.TestName,
			Status:   string(r.Status),
			Message:  r.Message,
			Details:  r.Details,
		}
	}
	return SummaryDTO{
		System:       s.SystemName,
		RunID:        s.RunID,
		Rows:         s.Shape.Rows,
		Columns:      s.Shape.Cols,
		PassCount:    s.PassCount(),
		FailCount:    s.FailCount(),
		WarningCount: s.WarningCount(),
		ErrorCount:   s.ErrorCount(),
		Failed:       s.Failed(),
		DurationMS:   s.Duration.Milliseconds(),
		Timestamp:    s.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		Results:      results,
	}
}
