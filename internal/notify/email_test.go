package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/swifthomeoffer/cashoffer-platform/pkg/logging"
)

func TestNewSendGridSender_NoAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{}, logging.Default())
	assert.Nil(t, sender)
}

func TestStubEmailSender(t *testing.T) {
	sender := NewStubEmailSender(nil)
	err := sender.Send(context.Background(), EmailMessage{
		To:      "jane@example.com",
		Subject: "test",
		Body:    "hello",
	})
	assert.NoError(t, err)
}

func TestBuildAppointmentEmail(t *testing.T) {
	loc, _ := time.LoadLocation("America/Los_Angeles")
	msg := BuildAppointmentEmail(AppointmentConfirmation{
		Name:      "Jane Seller",
		Email:     "jane@example.com",
		Address:   "123 Main Street, Las Vegas, NV 89101",
		StartTime: time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC),
		Timezone:  loc,
	})

	assert.Equal(t, "jane@example.com", msg.To)
	assert.Contains(t, msg.Body, "Jane Seller")
	assert.Contains(t, msg.Body, "123 Main Street")
	assert.Contains(t, msg.Body, "10:00 AM")
	assert.NotEmpty(t, msg.HTML)
}

func TestBuildAppointmentEmail_DefaultsToUTC(t *testing.T) {
	msg := BuildAppointmentEmail(AppointmentConfirmation{
		Name:      "Jane",
		Email:     "jane@example.com",
		StartTime: time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC),
	})
	assert.Contains(t, msg.Body, "5:00 PM")
}
