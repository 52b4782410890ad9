package ai

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/lokmatthew213-hub/fyp-game-new/logging"
)

var clientLogger = logging.GetZeroLogger("ai::client", nil)

// Config holds the connection settings for the external AI service.
type Config struct {
	Endpoint   string
	APIKey     string
	Model      string
	TimeoutSec uint32
}

// Client talks to the chat-completions endpoint both adapters share.
// Requests are paced so retry storms cannot hammer the remote service.
type Client struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewClient(config Config) *Client {
	timeout := config.TimeoutSec
	if timeout == 0 {
		timeout = 30
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
	}
}

// complete performs one chat-completion round trip and returns the raw
// message content. Transport errors, non-2xx statuses and bodies without
// a choices array are all reported as errors for the caller's retry loop.
func (c *Client) complete(ctx context.Context, systemMsg string, userMsg string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	reqData, err := json.Marshal(chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemMsg},
			{Role: "user", Content: userMsg},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewBuffer(reqData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error status: %d", resp.StatusCode)
	}

	bodyBytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var chatResp chatResponse
	if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
		return "", errors.Wrap(err, "unable to parse completion response")
	}
	if len(chatResp.Choices) == 0 {
		return "", errors.New("completion response contains no choices")
	}
	return chatResp.Choices[0].Message.Content, nil
}
