package textgen

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"poster-server/internal/imaging"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIOptions configures the OpenAI backend.
type OpenAIOptions struct {
	APIKey       string
	Model        string
	BaseURL      string
	Organization string
	HTTPClient   *http.Client
}

// OpenAI generates text through the chat completions API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI builds a chat-completions backend.
func NewOpenAI(opts OpenAIOptions) (*OpenAI, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	cfg := openai.DefaultConfig(strings.TrimSpace(opts.APIKey))
	if base := strings.TrimRight(opts.BaseURL, "/"); base != "" {
		cfg.BaseURL = base
	}
	cfg.OrgID = strings.TrimSpace(opts.Organization)
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

func (o *OpenAI) Model() string {
	return o.model
}

func (o *OpenAI) Generate(ctx context.Context, req Request) (*Result, error) {
	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if len(req.Images) == 0 {
		user.Content = req.Prompt
	} else {
		user.MultiContent = []openai.ChatMessagePart{{Type: openai.ChatMessagePartTypeText, Text: req.Prompt}}
		for _, img := range req.Images {
			user.MultiContent = append(user.MultiContent, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    imaging.EncodeDataURI(img.MimeType, img.Data),
					Detail: openai.ImageURLDetailLow,
				},
			})
		}
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if sys := strings.TrimSpace(req.System); sys != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: sys})
	}
	messages = append(messages, user)

	chat := openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    messages,
		Temperature: float32(req.Temperature),
	}
	if req.JSON {
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := o.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		return nil, err
	}
	out := &Result{
		Model: o.model,
	}
	out.Usage.InputTokens = resp.Usage.PromptTokens
	out.Usage.OutputTokens = resp.Usage.CompletionTokens
	if len(resp.Choices) == 0 {
		return out, errors.New("openai returned no choices")
	}
	out.Text = strings.TrimSpace(resp.Choices[0].Message.Content)
	if out.Text == "" {
		return out, errors.New("openai returned empty text")
	}
	return out, nil
}

var _ Generator = (*OpenAI)(nil)
