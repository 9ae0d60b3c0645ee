// Package booking qualifies a lead and, when the lead clears the bar,
// books the cash-offer call on the CRM calendar. Qualification is the
// only hard gate in the whole funnel: an unqualified lead gets a clear
// rejection instead of a wasted appointment.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/swifthomeoffer/cashoffer-platform/internal/crm"
	"github.com/swifthomeoffer/cashoffer-platform/internal/notify"
	"github.com/swifthomeoffer/cashoffer-platform/internal/observability/metrics"
	"github.com/swifthomeoffer/cashoffer-platform/internal/scoring"
	"github.com/swifthomeoffer/cashoffer-platform/pkg/logging"
	"github.com/swifthomeoffer/cashoffer-platform/pkg/phone"
)

var bookingTracer = otel.Tracer("cashoffer.internal.booking")

// ErrNotQualified is returned when the lead scores below the booking
// threshold.
var ErrNotQualified = errors.New("booking: lead not qualified")

// CalendarBooker is the slice of the CRM client the service needs.
type CalendarBooker interface {
	CreateContact(ctx context.Context, contact crm.Contact) (string, error)
	CreateAppointment(ctx context.Context, req crm.AppointmentRequest) (string, error)
}

// LeadData is the qualification input attached to a booking request.
type LeadData struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Address        string   `json:"address"`
	EstimatedValue float64  `json:"estimatedValue"`
	Timeline       string   `json:"timeline"`
	Condition      string   `json:"propertyCondition"`
	PropertyIssues []string `json:"propertyIssues"`
}

// Request is a booking attempt: who, plus the chosen slot.
type Request struct {
	Lead     LeadData  `json:"leadData"`
	Start    time.Time `json:"selectedSlot"`
	Timezone string    `json:"timezone"`
}

// Confirmation is the successful booking response.
type Confirmation struct {
	AppointmentID      string    `json:"appointmentId"`
	ContactID          string    `json:"contactId"`
	QualificationScore int       `json:"qualificationScore"`
	Tier               string    `json:"tier"`
	StartTime          time.Time `json:"startTime"`
}

// Rejection explains a failed qualification.
type Rejection struct {
	QualificationScore int      `json:"qualificationScore"`
	Threshold          int      `json:"threshold"`
	Reasons            []string `json:"reasons"`
}

// Service books qualified leads.
type Service struct {
	crm        CalendarBooker
	email      notify.EmailSender
	logger     *logging.Logger
	metrics    *metrics.FunnelMetrics
	slotLength time.Duration
}

// NewService creates a booking service. The email sender may be nil when
// confirmations are disabled.
func NewService(booker CalendarBooker, email notify.EmailSender, slotMinutes int, logger *logging.Logger, m *metrics.FunnelMetrics) *Service {
	if booker == nil {
		panic("booking: calendar booker required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	length := time.Duration(slotMinutes) * time.Minute
	if length <= 0 {
		length = 30 * time.Minute
	}
	return &Service{crm: booker, email: email, logger: logger, metrics: m, slotLength: length}
}

// Book qualifies the lead and creates the CRM contact and appointment.
// Below-threshold leads return ErrNotQualified with a populated Rejection;
// everything past the gate is best effort except the CRM calls themselves.
func (s *Service) Book(ctx context.Context, req Request) (*Confirmation, *Rejection, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.book")
	defer span.End()

	qualification := scoring.QualifyLead(scoring.QualificationInput{
		EstimatedValue: req.Lead.EstimatedValue,
		Timeline:       req.Lead.Timeline,
		Condition:      req.Lead.Condition,
		Location:       req.Lead.Address,
		PropertyIssues: req.Lead.PropertyIssues,
		Name:           req.Lead.Name,
		Email:          req.Lead.Email,
		Phone:          req.Lead.Phone,
	})
	span.SetAttributes(
		attribute.Int("cashoffer.qualification_score", qualification.Score),
		attribute.Bool("cashoffer.qualified", qualification.Qualified),
	)

	if !qualification.Qualified {
		s.metrics.ObserveBooking("rejected")
		s.logger.Info("booking rejected",
			"score", qualification.Score,
			"reasons", strings.Join(qualification.Reasons, "; "),
		)
		return nil, &Rejection{
			QualificationScore: qualification.Score,
			Threshold:          scoring.QualificationThreshold,
			Reasons:            qualification.Reasons,
		}, ErrNotQualified
	}

	contactID, err := s.crm.CreateContact(ctx, crm.Contact{
		FirstName: firstName(req.Lead.Name),
		LastName:  lastName(req.Lead.Name),
		Email:     req.Lead.Email,
		Phone:     phone.NormalizeE164(req.Lead.Phone),
		Address:   req.Lead.Address,
		Tags:      []string{"cash-offer", "tier-" + qualification.Tier},
	})
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking("crm_error")
		return nil, nil, fmt.Errorf("booking: create contact: %w", err)
	}

	appointmentID, err := s.crm.CreateAppointment(ctx, crm.AppointmentRequest{
		ContactID: contactID,
		Title:     "Cash offer call: " + req.Lead.Address,
		StartTime: req.Start,
		EndTime:   req.Start.Add(s.slotLength),
	})
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking("crm_error")
		return nil, nil, fmt.Errorf("booking: create appointment: %w", err)
	}

	s.sendConfirmation(ctx, req)

	s.metrics.ObserveBooking("booked")
	s.logger.Info("appointment booked",
		"appointment_id", appointmentID,
		"contact_id", contactID,
		"score", qualification.Score,
	)
	return &Confirmation{
		AppointmentID:      appointmentID,
		ContactID:          contactID,
		QualificationScore: qualification.Score,
		Tier:               qualification.Tier,
		StartTime:          req.Start,
	}, nil, nil
}

// sendConfirmation emails the seller. A failed send never fails the
// booking; the appointment already exists in the CRM.
func (s *Service) sendConfirmation(ctx context.Context, req Request) {
	if s.email == nil || req.Lead.Email == "" {
		return
	}

	var loc *time.Location
	if req.Timezone != "" {
		if parsed, err := time.LoadLocation(req.Timezone); err == nil {
			loc = parsed
		}
	}

	msg := notify.BuildAppointmentEmail(notify.AppointmentConfirmation{
		Name:      req.Lead.Name,
		Email:     req.Lead.Email,
		Address:   req.Lead.Address,
		StartTime: req.Start,
		Timezone:  loc,
	})
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Warn("confirmation email failed", "to", req.Lead.Email, "error", err)
	}
}

func firstName(full string) string {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return full
	}
	return parts[0]
}

func lastName(full string) string {
	parts := strings.Fields(full)
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[1:], " ")
}
