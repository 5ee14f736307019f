package models

import "github.com/google/uuid"

// DomainSummary reports rating progress for one domain of an assessment.
// AverageLevel is the mean level sort_order over rated measures, 0 when none
// are rated.
type DomainSummary struct {
	DomainID      uuid.UUID `json:"domain_id"`
	DomainCode    string    `json:"domain_code"`
	DomainName    string    `json:"domain_name"`
	TotalMeasures int       `json:"total_measures"`
	RatedMeasures int       `json:"rated_measures"`
	AverageLevel  float64   `json:"average_level"`
}

// IsComplete reports whether every measure in the domain has a rating.
func (s *DomainSummary) IsComplete() bool {
	return s.TotalMeasures > 0 && s.RatedMeasures == s.TotalMeasures
}
