// Package analysis calls the OpenAI chat-completions API to produce
// structured critiques of competitor text and images.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/sirupsen/logrus"

	"github.com/mikhail/competitor-monitor/internal/schemas"
	"github.com/mikhail/competitor-monitor/internal/types"
)

const (
	temperature     = 0.7
	maxOutputTokens = 2000

	// replyPreviewLength bounds how much of a malformed reply is logged.
	replyPreviewLength = 500
)

// Client wraps the OpenAI API with the fixed prompts and schemas of this
// service. A nil *Client means analysis is not configured; callers must
// check before use.
type Client struct {
	api         openai.Client
	model       string
	visionModel string
	log         *logrus.Entry
}

// NewClient builds a client, or returns nil when no API key is configured.
func NewClient(apiKey, model, visionModel string, log *logrus.Logger) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		api: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithMaxRetries(0),
		),
		model:       model,
		visionModel: visionModel,
		log:         log.WithField("component", "analysis"),
	}
}

// AnalyzeText runs the competitor text through the plain model and returns
// the structured result. Transport, JSON and schema failures all come back
// as errors; none of them are retried.
func (c *Client) AnalyzeText(ctx context.Context, text string) (*types.TextAnalysis, error) {
	reply, err := c.complete(ctx, c.model, textSystemPrompt, openai.UserMessage(buildTextPrompt(text)))
	if err != nil {
		return nil, err
	}

	var analysis types.TextAnalysis
	if err := c.decodeReply(reply, schemas.TextAnalysisSchema, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// AnalyzeImage re-encodes the upload as JPEG and runs it through the
// vision model. The filename is only used for logging.
func (c *Client) AnalyzeImage(ctx context.Context, data []byte, filename string) (*types.ImageAnalysis, error) {
	encoded, err := encodeImageBase64(data)
	if err != nil {
		return nil, err
	}

	c.log.WithField("filename", filename).Debug("analyzing image")

	userMsg := openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(imagePrompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: "data:image/jpeg;base64," + encoded,
		}),
	})

	reply, err := c.complete(ctx, c.visionModel, imageSystemPrompt, userMsg)
	if err != nil {
		return nil, err
	}

	var analysis types.ImageAnalysis
	if err := c.decodeReply(reply, schemas.ImageAnalysisSchema, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// complete issues a single chat-completion call with the service's fixed
// temperature and token ceiling.
func (c *Client) complete(ctx context.Context, model, system string, user openai.ChatCompletionMessageParamUnion) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			user,
		},
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxOutputTokens),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI response contains no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// decodeReply extracts the JSON span from the reply, validates it against
// the schema and decodes it into out.
func (c *Client) decodeReply(reply, schema string, out any) error {
	doc, ok := ExtractJSON(reply)
	if !ok {
		c.logBadReply(reply)
		return fmt.Errorf("model reply contains no JSON object")
	}

	if err := schemas.Validate(schema, doc); err != nil {
		c.logBadReply(reply)
		return err
	}

	if err := json.Unmarshal([]byte(doc), out); err != nil {
		c.logBadReply(reply)
		return fmt.Errorf("failed to decode model reply: %w", err)
	}

	return nil
}

func (c *Client) logBadReply(reply string) {
	preview := reply
	if runes := []rune(preview); len(runes) > replyPreviewLength {
		preview = string(runes[:replyPreviewLength])
	}
	c.log.WithField("reply_preview", preview).Warn("model reply failed parsing")
}
