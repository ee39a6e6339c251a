package template_test

import (
	"testing"
	"time"

	"realty/internal/domains/notification/model"
	"realty/internal/domains/notification/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reservation() model.ReservationData {
	start := time.Date(2026, 5, 4, 7, 0, 0, 0, time.UTC)

	return model.ReservationData{
		ID:       "r-1",
		Name:     "Ada <script>",
		Email:    "ada@example.com",
		Phone:    "+90 555",
		Message:  "Looking for a flat",
		Locale:   "tr",
		Status:   "pending",
		MeetLink: "https://meet.google.com/abc",
		TimeZone: "Europe/Istanbul",
		StartAt:  start,
		EndAt:    start.Add(time.Hour),
	}
}

func TestRender_CustomerLocale(t *testing.T) {
	data := reservation()

	msg, err := template.Render(model.KindReservationCustomer, data.Locale, []string{data.Email}, data)
	require.NoError(t, err)
	assert.Equal(t, model.KindReservationCustomer, msg.Kind)
	assert.Equal(t, []string{"ada@example.com"}, msg.To)
	assert.Contains(t, msg.Subject, "04.05.2026 10:00")
	assert.Contains(t, msg.Text, "Merhaba")
	assert.Contains(t, msg.Text, "https://meet.google.com/abc")
	assert.Contains(t, msg.HTML, "Ada &lt;script&gt;")
	assert.NotContains(t, msg.HTML, "<script>")
}

func TestRender_FallbackLocale(t *testing.T) {
	data := reservation()
	data.Locale = "de"

	msg, err := template.Render(model.KindReservationCustomer, data.Locale, []string{data.Email}, data)
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "Hello")
}

func TestRender_Status(t *testing.T) {
	data := reservation()
	data.Locale = "en"
	data.Status = "cancelled"
	data.Reason = "agent unavailable"

	msg, err := template.Render(model.KindReservationStatus, data.Locale, []string{data.Email}, data)
	require.NoError(t, err)
	assert.Equal(t, "Your consultation was cancelled", msg.Subject)
	assert.Contains(t, msg.Text, "agent unavailable")
}

func TestRender_Digest(t *testing.T) {
	first := reservation()
	second := reservation()
	second.Name = "Grace"
	second.StartAt = second.StartAt.Add(2 * time.Hour)

	msg, err := template.Render(model.KindDigestDaily, "en", []string{"ops@example.com"}, model.DigestData{
		Day:          "2026-05-04",
		TimeZone:     "Europe/Istanbul",
		Reservations: []model.ReservationData{first, second},
	})
	require.NoError(t, err)
	assert.Equal(t, "Consultations for 2026-05-04 (2)", msg.Subject)
	assert.Contains(t, msg.Text, "10:00")
	assert.Contains(t, msg.Text, "12:00")
	assert.Contains(t, msg.Text, "Grace")
}

func TestRender_UnknownKind(t *testing.T) {
	_, err := template.Render("unknown", "en", nil, nil)
	assert.Error(t, err)
}
