// internal/infra/whatsapp/client.go
package whatsapp

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

const defaultBaseURL = "https://graph.facebook.com/v19.0"

// CloudAPIClient implements the messaging.Client interface against the
// WhatsApp Business Cloud API.
type CloudAPIClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	phoneID    string
}

func NewCloudAPIClient(token, phoneID string) *CloudAPIClient {
	return &CloudAPIClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
		phoneID:    phoneID,
	}
}

type sendTextRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	RecipientType    string   `json:"recipient_type"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

type sendTextResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// SendText delivers one text message. chatID is a WhatsApp JID
// (5511999990001@s.whatsapp.net) or a bare phone number.
func (c *CloudAPIClient) SendText(ctx context.Context, chatID string, text string) (string, error) {
	to := chatID
	if at := strings.Index(to, "@"); at != -1 {
		to = to[:at]
	}

	payload, err := json.Marshal(sendTextRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: text},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal whatsapp payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build whatsapp request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return "", fmt.Errorf("failed to read whatsapp response: %w", err)
	}

	var parsed sendTextResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("whatsapp response status %d: %s", resp.StatusCode, string(body))
	}

	if resp.StatusCode != http.StatusOK || parsed.Error != nil {
		msg := string(body)
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		// Surface the status code so the error classifier can categorize.
		return "", fmt.Errorf("whatsapp api error (status %d): %s", resp.StatusCode, msg)
	}
	if len(parsed.Messages) == 0 {
		return "", fmt.Errorf("whatsapp api returned no message id")
	}
	return parsed.Messages[0].ID, nil
}
