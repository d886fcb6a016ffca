package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const mailjetURL = "https://api.mailjet.com"

type MailjetClient struct {
	publicKey  string
	privateKey string
	baseURL    string
	httpClient *http.Client
}

func NewMailjetClient(publicKey, privateKey string, timeout time.Duration) *MailjetClient {
	return &MailjetClient{
		publicKey:  publicKey,
		privateKey: privateKey,
		baseURL:    mailjetURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *MailjetClient) Name() string {
	return "Mailjet"
}

// Send posts the message to the v3.1 send API.
func (c *MailjetClient) Send(ctx context.Context, msg Message) error {
	payload := mjSendRequest{
		Messages: []mjMessage{{
			From:     mjAddress{Email: msg.From.Email, Name: msg.From.Name},
			To:       []mjAddress{{Email: msg.To.Email, Name: msg.To.Name}},
			Subject:  msg.Subject,
			TextPart: msg.Text,
			HTMLPart: msg.HTML,
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("mailjet encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3.1/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mailjet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.publicKey, c.privateKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mailjet send: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("mailjet read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &DeliveryError{Provider: c.Name(), StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	var result mjSendResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("mailjet decode: %w", err)
	}
	for _, m := range result.Messages {
		if m.Status != "success" {
			return &DeliveryError{Provider: c.Name(), StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
		}
	}

	return nil
}

type mjSendRequest struct {
	Messages []mjMessage `json:"Messages"`
}

type mjMessage struct {
	From     mjAddress   `json:"From"`
	To       []mjAddress `json:"To"`
	Subject  string      `json:"Subject"`
	TextPart string      `json:"TextPart"`
	HTMLPart string      `json:"HTMLPart"`
}

type mjAddress struct {
	Email string `json:"Email"`
	Name  string `json:"Name,omitempty"`
}

type mjSendResponse struct {
	Messages []struct {
		Status string `json:"Status"`
	} `json:"Messages"`
}
