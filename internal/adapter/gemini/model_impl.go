package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/user/scrapekit/internal/entity"
	"google.golang.org/genai"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.5-flash"

// Options configures the client.
type Options struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// ModelImpl talks to the Gemini API through the genai SDK.
type ModelImpl struct {
	client *genai.Client
	model  string
}

// NewModel creates a new instance of ModelImpl.
func NewModel(ctx context.Context, opts Options) (*ModelImpl, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is not configured")
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}

	cfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.Timeout > 0 {
		cfg.HTTPOptions = genai.HTTPOptions{Timeout: &opts.Timeout}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &ModelImpl{client: client, model: opts.Model}, nil
}

// UploadFile sends a local file to the Files API.
func (m *ModelImpl) UploadFile(ctx context.Context, path, mimeType string) (*entity.AIFile, error) {
	f, err := m.client.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{MIMEType: mimeType})
	if err != nil {
		return nil, err
	}
	return toAIFile(f), nil
}

// GetFile reports the current processing state of an uploaded file.
func (m *ModelImpl) GetFile(ctx context.Context, name string) (*entity.AIFile, error) {
	f, err := m.client.Files.Get(ctx, name, nil)
	if err != nil {
		return nil, err
	}
	return toAIFile(f), nil
}

// GenerateJSON runs prompt against the files and returns the raw JSON text.
func (m *ModelImpl) GenerateJSON(ctx context.Context, prompt string, files ...*entity.AIFile) (string, error) {
	parts := make([]*genai.Part, 0, len(files)+1)
	for _, f := range files {
		parts = append(parts, genai.NewPartFromURI(f.URI, f.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(prompt))
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := m.client.Models.GenerateContent(ctx, m.model, contents, generationConfig())
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("no content from gemini")
	}
	return text, nil
}

func generationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](1),
		TopP:             genai.Ptr[float32](0.95),
		TopK:             genai.Ptr[float32](64),
		MaxOutputTokens:  8192,
		ResponseMIMEType: "application/json",
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
		},
	}
}

func toAIFile(f *genai.File) *entity.AIFile {
	return &entity.AIFile{
		Name:     f.Name,
		URI:      f.URI,
		MIMEType: f.MIMEType,
		State:    toState(f.State),
	}
}

func toState(s genai.FileState) entity.AIFileState {
	switch s {
	case genai.FileStateProcessing:
		return entity.AIFileStateProcessing
	case genai.FileStateFailed:
		return entity.AIFileStateFailed
	default:
		return entity.AIFileStateActive
	}
}
