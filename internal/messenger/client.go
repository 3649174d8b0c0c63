package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/VndrewJ/AI-Shift-Scheduler/internal/config"
)

// Client 封装 Facebook Graph API：发送回复和解析发送者的名字
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiToken   string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Messenger.RequestTimeout) * time.Second,
		},
		baseURL:  cfg.Messenger.GraphBaseURL,
		apiToken: cfg.Messenger.APIToken,
	}
}

type sendMessageRequest struct {
	Recipient struct {
		ID string `json:"id"`
	} `json:"recipient"`
	Message struct {
		Text string `json:"text"`
	} `json:"message"`
}

// SendMessage 把一条文本回复投递给指定用户
func (c *Client) SendMessage(ctx context.Context, recipientID, text string) error {
	payload := sendMessageRequest{}
	payload.Recipient.ID = recipientID
	payload.Message.Text = text

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/me/messages?%s", c.baseURL, url.Values{"access_token": {c.apiToken}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("graph api 返回 %d: %s", resp.StatusCode, detail)
	}

	return nil
}

// GetUserName 用发送者 ID 换取其 Facebook 名字，
// 这个名字就是班表花名册的查找键
func (c *Client) GetUserName(ctx context.Context, senderID string) (string, error) {
	query := url.Values{
		"fields":       {"first_name"},
		"access_token": {c.apiToken},
	}
	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(senderID), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("graph api 返回 %d: %s", resp.StatusCode, detail)
	}

	var user struct {
		FirstName string `json:"first_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", err
	}
	if user.FirstName == "" {
		return "", fmt.Errorf("graph api 没有返回 first_name")
	}

	return user.FirstName, nil
}
