package codegen

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// TextPayload returns s unchanged apart from surrounding whitespace.
func TextPayload(s string) string { return strings.TrimSpace(s) }

// URLPayload adds an https scheme when raw has none.
func URLPayload(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" && u.Host != "" {
		return raw
	}
	return "https://" + raw
}

// Contact is the data encoded in a vCard payload.
type Contact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Organization string `json:"organization,omitempty"`
	URL          string `json:"url,omitempty"`
}

// ContactPayload encodes c as a vCard 3.0 card. Empty properties are left out.
func ContactPayload(c Contact) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCARD\nVERSION:3.0\n")
	prop := func(name, v string) {
		if v = strings.TrimSpace(v); v != "" {
			fmt.Fprintf(&b, "%s:%s\n", name, v)
		}
	}
	prop("FN", c.Name)
	prop("TEL", c.Phone)
	prop("EMAIL", c.Email)
	prop("ORG", c.Organization)
	prop("URL", c.URL)
	b.WriteString("END:VCARD")
	return b.String()
}

// WiFi is a wireless network join payload.
type WiFi struct {
	SSID     string `json:"ssid"`
	Password string `json:"password,omitempty"`
	Security string `json:"security,omitempty"` // WPA, WEP or nopass
	Hidden   bool   `json:"hidden,omitempty"`
}

var wifiEscaper = strings.NewReplacer(`\`, `\\`, `;`, `\;`, `,`, `\,`, `:`, `\:`, `"`, `\"`)

// WiFiPayload encodes w in the WIFI: URI form understood by phone cameras.
func WiFiPayload(w WiFi) string {
	sec := strings.ToUpper(strings.TrimSpace(w.Security))
	switch sec {
	case "":
		sec = "WPA"
	case "NONE", "OPEN":
		sec = "nopass"
	}
	return fmt.Sprintf("WIFI:T:%s;S:%s;P:%s;H:%t;;",
		sec, wifiEscaper.Replace(w.SSID), wifiEscaper.Replace(w.Password), w.Hidden)
}

// EmailPayload returns a mailto URI. Subject and body are optional.
func EmailPayload(address, subject, body string) string {
	s := "mailto:" + strings.TrimSpace(address)
	var q []string
	if subject != "" {
		q = append(q, "subject="+url.PathEscape(subject))
	}
	if body != "" {
		q = append(q, "body="+url.PathEscape(body))
	}
	if len(q) > 0 {
		s += "?" + strings.Join(q, "&")
	}
	return s
}

// PhonePayload returns a tel URI with spaces removed.
func PhonePayload(number string) string {
	return "tel:" + strings.Join(strings.Fields(number), "")
}

// LocationPayload returns a geo URI.
func LocationPayload(lat, lng float64) string {
	return "geo:" + strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}

// Event is a calendar entry. Start and End are ISO timestamps such as
// 2024-05-01T09:30.
type Event struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Start       string `json:"start"`
	End         string `json:"end,omitempty"`
}

var icsDate = strings.NewReplacer("-", "", ":", "")

// EventPayload encodes e as a VEVENT block.
func EventPayload(e Event) string {
	var b strings.Builder
	b.WriteString("BEGIN:VEVENT\n")
	fmt.Fprintf(&b, "SUMMARY:%s\n", e.Title)
	if e.Description != "" {
		fmt.Fprintf(&b, "DESCRIPTION:%s\n", e.Description)
	}
	if e.Location != "" {
		fmt.Fprintf(&b, "LOCATION:%s\n", e.Location)
	}
	fmt.Fprintf(&b, "DTSTART:%s\n", icsDate.Replace(e.Start))
	if e.End != "" {
		fmt.Fprintf(&b, "DTEND:%s\n", icsDate.Replace(e.End))
	}
	b.WriteString("END:VEVENT")
	return b.String()
}
