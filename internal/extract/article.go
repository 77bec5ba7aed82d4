package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/ppiankov/newsguard/internal/model"
)

// DescriptionLen is the length of the content preview kept on an article
const DescriptionLen = 300

// minParagraphLen drops captions, bylines and buttons from the main text
const minParagraphLen = 40

// containers are tried in order for the main article body
var containers = []string{
	"article",
	"[itemprop=articleBody]",
	"main",
	"#content",
	".article-body",
	".story-body",
	".post-content",
}

// ArticleExtractor turns fetched HTML into a reference article
type ArticleExtractor struct {
	policy *bluemonday.Policy
}

// NewArticleExtractor creates a new article extractor
func NewArticleExtractor() *ArticleExtractor {
	return &ArticleExtractor{policy: bluemonday.StrictPolicy()}
}

// Extract parses htmlContent fetched from pageURL. The returned article
// may have empty Content when no body text could be found; callers decide
// whether to keep it.
func (e *ArticleExtractor) Extract(htmlContent, pageURL string) (model.ReferenceArticle, error) {
	root, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return model.ReferenceArticle{}, fmt.Errorf("parse html: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	base, _ := url.Parse(pageURL)

	content := e.mainText(doc)
	if content == "" {
		// No paragraphs at all: fall back to the page's visible text
		content = e.clean(VisibleText(root))
	}

	article := model.ReferenceArticle{
		URL:     pageURL,
		Title:   e.title(doc),
		Content: content,
		Source:  SourceDomain(pageURL),
	}
	if content != "" {
		article.Description = previewOf(content)
	}
	if img, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok {
		article.ImageURL = ResolveURL(base, img)
	}

	return article, nil
}

func (e *ArticleExtractor) title(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return e.clean(t)
	}
	if t, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok && strings.TrimSpace(t) != "" {
		return e.clean(t)
	}
	return e.clean(doc.Find("h1").First().Text())
}

func (e *ArticleExtractor) mainText(doc *goquery.Document) string {
	doc.Find("script, style, noscript, iframe, nav, footer, aside, form, figure figcaption").Remove()

	scope := doc.Selection
	for _, sel := range containers {
		if s := doc.Find(sel).First(); s.Length() > 0 && s.Find("p").Length() > 0 {
			scope = s
			break
		}
	}

	var paragraphs []string
	scope.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := e.clean(p.Text())
		if len(text) >= minParagraphLen {
			paragraphs = append(paragraphs, text)
		}
	})

	return strings.Join(dedupe(paragraphs), "\n")
}

// clean strips any markup that survived and collapses whitespace
func (e *ArticleExtractor) clean(s string) string {
	s = e.policy.Sanitize(s)
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

// previewOf returns the first DescriptionLen bytes of content followed by
// an ellipsis, cut on a rune boundary.
func previewOf(content string) string {
	if len(content) <= DescriptionLen {
		return content + "..."
	}
	cut := content[:DescriptionLen]
	for len(cut) > 0 && !isRuneStart(content[len(cut)]) {
		cut = cut[:len(cut)-1]
	}
	return cut + "..."
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
