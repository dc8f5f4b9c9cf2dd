package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURLPayload(t *testing.T) {
	assert.Equal(t, "https://example.com/a", URLPayload("https://example.com/a"))
	assert.Equal(t, "https://example.com", URLPayload(" example.com "))
	assert.Equal(t, "", URLPayload(""))
}

func TestContactPayload(t *testing.T) {
	got := ContactPayload(Contact{Name: "Jane Doe", Email: "jane@example.com", Organization: "Acme"})
	assert.Equal(t, "BEGIN:VCARD\nVERSION:3.0\nFN:Jane Doe\nEMAIL:jane@example.com\nORG:Acme\nEND:VCARD", got)
}

func TestWiFiPayload(t *testing.T) {
	assert.Equal(t, "WIFI:T:WPA;S:Home;P:secret;H:false;;",
		WiFiPayload(WiFi{SSID: "Home", Password: "secret"}))
	assert.Equal(t, `WIFI:T:nopass;S:Cafe\;Bar;P:;H:true;;`,
		WiFiPayload(WiFi{SSID: "Cafe;Bar", Security: "none", Hidden: true}))
}

func TestEmailPayload(t *testing.T) {
	assert.Equal(t, "mailto:a@b.com", EmailPayload("a@b.com", "", ""))
	assert.Equal(t, "mailto:a@b.com?subject=Hi%20there&body=See%20you",
		EmailPayload("a@b.com", "Hi there", "See you"))
}

func TestPhoneAndLocation(t *testing.T) {
	assert.Equal(t, "tel:+15550100", PhonePayload("+1 555 0100"))
	assert.Equal(t, "geo:28.6139,77.209", LocationPayload(28.6139, 77.209))
}

func TestEventPayload(t *testing.T) {
	got := EventPayload(Event{
		Title:    "Exam",
		Location: "Hall A",
		Start:    "2024-05-01T09:30",
		End:      "2024-05-01T12:00",
	})
	assert.Equal(t, "BEGIN:VEVENT\nSUMMARY:Exam\nLOCATION:Hall A\nDTSTART:20240501T0930\nDTEND:20240501T1200\nEND:VEVENT", got)
}
