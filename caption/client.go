// Package caption talks to an OpenAI-compatible chat completion endpoint to
// describe images and to suggest names from document text. It owns the
// mapping from remote failures to the pipeline's tagged error kinds.
package caption

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"go_renamer/core"
	"go_renamer/logging"
)

const captionInstruction = "Describe the main subject of this image in 3 to 10 plain words " +
	"suitable for a filename. No punctuation, no quotes, and do not start with an article."

const namingInstruction = "You name files. Reply with a short descriptive filename phrase " +
	"of bare lowercase words separated by spaces. No extension, no punctuation, no quotes, " +
	"no explanation."

// Client issues vision and text completion requests.
type Client struct {
	logger *logging.Logger
}

// NewClient creates a Client. A nil logger is replaced with a no-op.
func NewClient(logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Client{logger: logger.Named("caption")}
}

// TestResult reports the outcome of a connection probe.
type TestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CaptionImage sends a prepared JPEG to the vision model and returns the raw
// caption text. The image is embedded as a base64 data URI in a multipart
// user message.
func (c *Client) CaptionImage(ctx context.Context, jpeg []byte, s core.Settings) (core.CaptionResult, error) {
	if s.Token == "" {
		return core.CaptionResult{}, core.ErrMissingToken()
	}

	req := openai.ChatCompletionRequest{
		Model:       s.Model,
		MaxTokens:   s.MaxTokens,
		Temperature: s.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: captionInstruction,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURI(jpeg),
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
	}

	text, err := c.complete(ctx, req, s)
	if err != nil {
		return core.CaptionResult{}, err
	}

	c.logger.Debug("image captioned",
		zap.Int("jpeg_bytes", len(jpeg)),
		zap.Int("caption_chars", len(text)))

	return core.CaptionResult{Text: text}, nil
}

// NameFromText asks the text model for a filename phrase given a naming
// prompt built from a document preview.
func (c *Client) NameFromText(ctx context.Context, prompt string, s core.Settings) (core.CaptionResult, error) {
	if s.Token == "" {
		return core.CaptionResult{}, core.ErrMissingToken()
	}

	req := openai.ChatCompletionRequest{
		Model:       s.Model,
		MaxTokens:   s.MaxTokens,
		Temperature: s.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: namingInstruction,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	text, err := c.complete(ctx, req, s)
	if err != nil {
		return core.CaptionResult{}, err
	}

	c.logger.Debug("name suggested from text",
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("suggestion_chars", len(text)))

	return core.CaptionResult{Text: text}, nil
}

// TestConnection probes the configured endpoint with a trivial completion.
// It never returns an error; failures come back as a TestResult carrying the
// mapped error message so the UI can display it directly.
func (c *Client) TestConnection(ctx context.Context, s core.Settings) TestResult {
	if s.Token == "" {
		return TestResult{Success: false, Message: core.ErrMissingToken().Error()}
	}

	req := openai.ChatCompletionRequest{
		Model:     s.Model,
		MaxTokens: 5,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: "Reply with the word ok."},
		},
	}

	if _, err := c.complete(ctx, req, s); err != nil {
		c.logger.Warn("connection test failed", zap.Error(err))
		return TestResult{Success: false, Message: err.Error()}
	}
	return TestResult{
		Success: true,
		Message: fmt.Sprintf("Connected, model %s responded", s.Model),
	}
}

// complete runs one chat completion and returns the trimmed first-choice text.
func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest, s core.Settings) (string, error) {
	client := newAPIClient(s)

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", mapAPIError(err, s.Model)
	}

	text := contentOf(resp)
	if text == "" {
		return "", core.ErrBadResponse("empty completion choice")
	}
	return text, nil
}

// newAPIClient builds the underlying SDK client, honoring a BaseURL override
// for self-hosted OpenAI-compatible backends.
func newAPIClient(s core.Settings) *openai.Client {
	cfg := openai.DefaultConfig(s.Token)
	if s.BaseURL != "" {
		cfg.BaseURL = s.BaseURL
	}
	return openai.NewClientWithConfig(cfg)
}

func dataURI(jpeg []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpeg)
}

func contentOf(resp openai.ChatCompletionResponse) string {
	if len(resp.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content)
}

// mapAPIError translates SDK errors into the pipeline's tagged kinds.
//
// A 429 is ambiguous upstream: true rate limiting and exhausted quota share
// the status code, distinguished by the error code/message.
func mapAPIError(err error, model string) error {
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return core.ErrTransport(err.Error())
	}

	switch apiErr.HTTPStatusCode {
	case http.StatusUnauthorized:
		return core.ErrAuth(apiErr.Message)
	case http.StatusPaymentRequired:
		return core.ErrBilling(apiErr.Message)
	case http.StatusNotFound:
		return core.ErrModelNotFound(model)
	case http.StatusTooManyRequests:
		if isQuotaError(apiErr) {
			return core.ErrBilling(apiErr.Message)
		}
		return core.ErrRemoteRateLimit(apiErr.Message)
	default:
		return core.ErrAPI(apiErr.HTTPStatusCode, apiErr.Message)
	}
}

func isQuotaError(apiErr *openai.APIError) bool {
	if code, ok := apiErr.Code.(string); ok && code == "insufficient_quota" {
		return true
	}
	return strings.Contains(strings.ToLower(apiErr.Message), "quota")
}
