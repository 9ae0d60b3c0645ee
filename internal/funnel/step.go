package funnel

import (
	"strings"
	"time"
)

// UserType alters step titles and which steps are visible.
type UserType string

const (
	UserOwner      UserType = "owner"
	UserAgent      UserType = "agent"
	UserAgentOwner UserType = "agent-owner"
	UserHOA        UserType = "hoa"
)

// ParseUserType maps a raw answer to a recognized user type, defaulting to
// owner rather than letting unknown values fall through.
func ParseUserType(raw string) UserType {
	switch UserType(strings.ToLower(strings.TrimSpace(raw))) {
	case UserAgent:
		return UserAgent
	case UserAgentOwner:
		return UserAgentOwner
	case UserHOA:
		return UserHOA
	default:
		return UserOwner
	}
}

// FieldKind drives client rendering and server-side format checks.
type FieldKind string

const (
	FieldText        FieldKind = "text"
	FieldEmail       FieldKind = "email"
	FieldPhone       FieldKind = "phone"
	FieldNumber      FieldKind = "number"
	FieldChoice      FieldKind = "choice"
	FieldMultiChoice FieldKind = "multichoice"
)

// Field is one input on a funnel step.
type Field struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
}

// Step is one screen of the funnel. A nil VisibleWhen means always visible.
// A nonzero AutoAdvanceAfter makes the step advance on its own once its
// required fields are answered, unless a later user action cancels it.
type Step struct {
	ID               string
	Title            string
	TitleByUserType  map[UserType]string
	Fields           []Field
	VisibleWhen      func(answers map[string]any) bool
	AutoAdvanceAfter time.Duration
}

// TitleFor returns the step title for a user type.
func (s Step) TitleFor(ut UserType) string {
	if t, ok := s.TitleByUserType[ut]; ok {
		return t
	}
	return s.Title
}

// Visible evaluates the step's visibility predicate.
func (s Step) Visible(answers map[string]any) bool {
	if s.VisibleWhen == nil {
		return true
	}
	return s.VisibleWhen(answers)
}
