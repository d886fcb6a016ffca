package mail

import (
	"context"
	"fmt"
	"html"
	"strings"
)

type Address struct {
	Email string
	Name  string
}

type Message struct {
	From    Address
	To      Address
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a message through a transactional email provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}

// DeliveryError is returned when the provider does not accept the message.
type DeliveryError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s: delivery failed with status %d: %s", e.Provider, e.StatusCode, e.Body)
}

const htmlHeading = "<h3>Financial Market Update</h3><br>"

// RenderHTML turns a plain-text body into the HTML part of the message.
func RenderHTML(body string) string {
	escaped := html.EscapeString(strings.ReplaceAll(body, "\r\n", "\n"))
	return htmlHeading + strings.ReplaceAll(escaped, "\n", "<br>")
}
