package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/user/scrapekit/internal/entity"
	"github.com/user/scrapekit/internal/repository"
	"github.com/user/scrapekit/pkg/metrics"
	"github.com/user/scrapekit/pkg/retry"
	"github.com/user/scrapekit/pkg/utils"
	"go.uber.org/zap"
)

// ExtractProductPrompt asks the model for a product record as JSON.
const ExtractProductPrompt = `Analyze the attached HTML file and extract the product title, description, and the best image associated with that product. Follow these instructions:
1. Remove any newline characters and clean the title by removing all special characters to ensure it is readable.
2. Ensure that image links are fully completed and correctly formatted in the returned response. If the link is incomplete, complete it to form a full URL.
3. If the HTML file is invalid (e.g., it contains a CAPTCHA or lacks essential information like the title, description, or image), return an empty dictionary {}.
4. Thoroughly analyze the HTML content to create a detailed and accurate product description. The description should clearly describe the product but should not exceed 7 to 8 lines.
5. Create a concise and meaningful title for the product. It should be short but descriptive enough to convey the essence of the product.
The output must include all the fields title, product description, and best image in proper JSON format, like this: {"title":"Product Title","description":"Product Description","best_image":"https://link_to_best_image"}`

const htmlMIMEType = "text/html"

// ProductParser extracts product records from saved HTML files.
type ProductParser interface {
	Parse(ctx context.Context, pageURL, htmlPath string) (*entity.ProductRecord, error)
}

// ProductParserConfig holds the extraction settings.
type ProductParserConfig struct {
	PollInterval time.Duration
	Retry        retry.Config
}

// DefaultProductRetry makes 3 attempts. The delay doubles from 1s but stays
// within [4s, 10s], so the two retries wait 4s each.
func DefaultProductRetry() retry.Config {
	cfg := retry.Exponential(3, time.Second, 10*time.Second)
	cfg.MinWait = 4 * time.Second
	return cfg
}

type productParserUseCase struct {
	model     repository.GenerativeModel
	inspector repository.PageInspector
	stores    []repository.ProductStore
	cfg       ProductParserConfig
	now       func() time.Time
	logger    *zap.Logger
}

// NewProductParser creates a ProductParser. Every parsed record is saved to all stores.
func NewProductParser(
	model repository.GenerativeModel,
	inspector repository.PageInspector,
	cfg ProductParserConfig,
	logger *zap.Logger,
	stores ...repository.ProductStore,
) ProductParser {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	if cfg.Retry.Attempts < 1 {
		cfg.Retry = DefaultProductRetry()
	}
	return &productParserUseCase{
		model:     model,
		inspector: inspector,
		stores:    stores,
		cfg:       cfg,
		now:       time.Now,
		logger:    logger,
	}
}

// aiProduct is the JSON object the model is asked to produce.
type aiProduct struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	BestImage   string `json:"best_image"`
}

// Parse uploads htmlPath, waits for the service to process it, asks the model
// for the product fields and stores the resulting record.
func (uc *productParserUseCase) Parse(ctx context.Context, pageURL, htmlPath string) (*entity.ProductRecord, error) {
	log := uc.logger.With(zap.String("url", pageURL), zap.String("file", htmlPath))

	summary, err := uc.inspect(htmlPath)
	if err != nil {
		metrics.AIExtractionsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}
	if summary.Captcha {
		log.Warn("Saved page looks like a captcha challenge")
	}

	file, err := retry.Do(ctx, uc.retryConfig(log, "upload"), func(ctx context.Context) (*entity.AIFile, error) {
		return uc.upload(ctx, htmlPath)
	})
	if err != nil {
		metrics.AIExtractionsTotal.WithLabelValues("failure").Inc()
		log.Error("Upload to AI service failed", zap.Error(err))
		return nil, fmt.Errorf("upload %s: %w", htmlPath, err)
	}
	log.Info("File uploaded to AI service", zap.String("name", file.Name))

	text, err := retry.Do(ctx, uc.retryConfig(log, "generate"), func(ctx context.Context) (string, error) {
		return uc.model.GenerateJSON(ctx, ExtractProductPrompt, file)
	})
	if err != nil {
		metrics.AIExtractionsTotal.WithLabelValues("failure").Inc()
		log.Error("AI generation failed", zap.Error(err))
		return nil, fmt.Errorf("generate for %s: %w", pageURL, err)
	}

	record, err := decodeProduct(pageURL, text)
	if err != nil {
		metrics.AIExtractionsTotal.WithLabelValues("failure").Inc()
		log.Error("AI response is not a JSON object", zap.String("response", truncate(text, 200)), zap.Error(err))
		return nil, err
	}
	if record.Empty() {
		metrics.AIExtractionsTotal.WithLabelValues("empty").Inc()
		log.Warn("Model reported the page as invalid")
	} else {
		fillFromSummary(record, summary)
		metrics.AIExtractionsTotal.WithLabelValues("success").Inc()
	}
	record.BestImage = utils.NormalizeImageURL(pageURL, record.BestImage)
	record.ParsedAt = uc.now()

	if err := uc.save(ctx, record); err != nil {
		log.Error("Failed to store parsed record", zap.Error(err))
		return record, err
	}
	log.Info("HTML AI parse saved", zap.String("title", record.Title))
	return record, nil
}

func (uc *productParserUseCase) inspect(htmlPath string) (*entity.PageSummary, error) {
	data, err := os.ReadFile(htmlPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", htmlPath, err)
	}
	summary, err := uc.inspector.Inspect(string(data))
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", htmlPath, err)
	}
	if summary.TextLength == 0 {
		return nil, fmt.Errorf("%w: %s", repository.ErrInvalidPage, htmlPath)
	}
	return summary, nil
}

// upload sends the file and polls until it leaves the PROCESSING state.
func (uc *productParserUseCase) upload(ctx context.Context, path string) (*entity.AIFile, error) {
	file, err := uc.model.UploadFile(ctx, path, htmlMIMEType)
	if err != nil {
		return nil, err
	}
	for file.State == entity.AIFileStateProcessing {
		timer := time.NewTimer(uc.cfg.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		if file, err = uc.model.GetFile(ctx, file.Name); err != nil {
			return nil, err
		}
	}
	if file.State == entity.AIFileStateFailed {
		return nil, fmt.Errorf("%w: %s", repository.ErrFileProcessingFailed, file.Name)
	}
	return file, nil
}

func (uc *productParserUseCase) save(ctx context.Context, record *entity.ProductRecord) error {
	var errs []error
	for _, s := range uc.stores {
		if err := s.Save(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (uc *productParserUseCase) retryConfig(log *zap.Logger, step string) retry.Config {
	cfg := uc.cfg.Retry
	cfg.OnRetry = func(attempt int, wait time.Duration, err error) {
		log.Warn("AI call failed, retrying", zap.String("step", step),
			zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(err))
	}
	return cfg
}

// fillFromSummary completes fields the model left blank with the page's own
// meta data.
func fillFromSummary(record *entity.ProductRecord, summary *entity.PageSummary) {
	if record.Title == "" {
		record.Title = summary.Title
	}
	if record.Description == "" {
		record.Description = summary.Description
	}
	if record.BestImage == "" {
		record.BestImage = summary.Image
	}
}

// decodeProduct parses the model answer, tolerating markdown code fences.
func decodeProduct(pageURL, text string) (*entity.ProductRecord, error) {
	var p aiProduct
	if err := json.Unmarshal([]byte(stripFences(text)), &p); err != nil {
		return nil, fmt.Errorf("decode AI response: %w", err)
	}
	return &entity.ProductRecord{
		URL:         pageURL,
		Title:       strings.TrimSpace(p.Title),
		Description: strings.TrimSpace(p.Description),
		BestImage:   strings.TrimSpace(p.BestImage),
	}, nil
}

// stripFences removes markdown code fences from model output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
