package leads

import (
	"strings"
	"time"
)

// Lead is a captured seller lead with its scoring snapshot.
type Lead struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	Address            string    `json:"address"`
	UserType           string    `json:"user_type"`
	Timeline           string    `json:"timeline"`
	Condition          string    `json:"condition"`
	Motivation         string    `json:"motivation"`
	EstimatedValue     float64   `json:"estimated_value"`
	PropertyIssues     []string  `json:"property_issues"`
	PriorityScore      int       `json:"priority_score"`
	PriorityLevel      string    `json:"priority_level"`
	QualificationScore int       `json:"qualification_score"`
	Tier               string    `json:"tier"`
	Source             string    `json:"source"`
	CreatedAt          time.Time `json:"created_at"`
}

// CreateLeadRequest represents a lead to be persisted
type CreateLeadRequest struct {
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone"`
	Address            string   `json:"address"`
	UserType           string   `json:"user_type"`
	Timeline           string   `json:"timeline"`
	Condition          string   `json:"condition"`
	Motivation         string   `json:"motivation"`
	EstimatedValue     float64  `json:"estimated_value"`
	PropertyIssues     []string `json:"property_issues"`
	PriorityScore      int      `json:"priority_score"`
	PriorityLevel      string   `json:"priority_level"`
	QualificationScore int      `json:"qualification_score"`
	Tier               string   `json:"tier"`
	Source             string   `json:"source"`
}

// Validate validates the create lead request
func (r *CreateLeadRequest) Validate() error {
	if strings.TrimSpace(r.Address) == "" {
		return ErrMissingAddress
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if r.Email == "" && r.Phone == "" {
		return ErrMissingContact
	}
	return nil
}

// ListLeadsFilter narrows admin lead listings.
type ListLeadsFilter struct {
	Limit    int
	Offset   int
	MinScore int
	Tier     string
}
