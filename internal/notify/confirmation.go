package notify

import (
	"fmt"
	"time"
)

// AppointmentConfirmation carries the details for the booking email.
type AppointmentConfirmation struct {
	Name      string
	Email     string
	Address   string
	StartTime time.Time
	Timezone  *time.Location
}

// BuildAppointmentEmail renders the confirmation message for a booked call.
func BuildAppointmentEmail(c AppointmentConfirmation) EmailMessage {
	loc := c.Timezone
	if loc == nil {
		loc = time.UTC
	}
	when := c.StartTime.In(loc).Format("Monday, January 2 at 3:04 PM MST")

	body := fmt.Sprintf(
		"Hi %s,\n\nYour cash offer call is confirmed for %s.\n\nProperty: %s\n\nA specialist will call you at the scheduled time to walk through your offer. No obligation, no fees.\n\nSwiftHomeOffer",
		c.Name, when, c.Address,
	)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your cash offer call is confirmed for <strong>%s</strong>.</p><p>Property: %s</p><p>A specialist will call you at the scheduled time to walk through your offer. No obligation, no fees.</p><p>SwiftHomeOffer</p>",
		c.Name, when, c.Address,
	)

	return EmailMessage{
		To:      c.Email,
		ToName:  c.Name,
		Subject: "Your cash offer call is confirmed",
		Body:    body,
		HTML:    html,
	}
}
