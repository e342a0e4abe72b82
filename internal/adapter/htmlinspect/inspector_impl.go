package htmlinspect

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/scrapekit/internal/entity"
)

// captchaMarkers are lower-case fragments that show up on bot challenge pages.
var captchaMarkers = []string{
	"captcha",
	"cf-challenge",
	"challenge-platform",
	"are you a robot",
	"verify you are human",
	"unusual traffic",
}

// Inspector summarizes saved HTML with goquery.
type Inspector struct{}

// New creates an Inspector.
func New() *Inspector { return &Inspector{} }

// Inspect extracts the title, description, preview image and visible text size.
func (Inspector) Inspect(html string) (*entity.PageSummary, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	meta := make(map[string]string)
	doc.Find("meta").Each(func(i int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		property, _ := s.Attr("property")
		content, _ := s.Attr("content")
		key := strings.ToLower(name)
		if property != "" {
			key = strings.ToLower(property)
		}
		if key != "" && content != "" {
			if _, seen := meta[key]; !seen {
				meta[key] = strings.TrimSpace(content)
			}
		}
	})

	summary := &entity.PageSummary{
		Title:       firstNonEmpty(meta["og:title"], strings.TrimSpace(doc.Find("title").First().Text())),
		Description: firstNonEmpty(meta["description"], meta["og:description"]),
		Image:       firstNonEmpty(meta["og:image"], meta["twitter:image"]),
	}

	lowered := strings.ToLower(html)
	for _, m := range captchaMarkers {
		if strings.Contains(lowered, m) {
			summary.Captcha = true
			break
		}
	}

	doc.Find("script, style, noscript").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})
	summary.TextLength = len(strings.Join(strings.Fields(doc.Find("body").Text()), " "))
	return summary, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
