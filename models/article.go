package models

import (
	"strings"

	"golang.org/x/net/html"
)

// AwarenessArticle is a long-form preparedness article.
type AwarenessArticle struct {
	Base
	Title           *string    `json:"title,omitempty"`
	Content         *string    `gorm:"type:text" json:"content,omitempty"` // Rich text, may contain HTML markup
	Author          *string    `json:"author,omitempty"`
	PublicationDate *Timestamp `json:"publicationDate,omitempty"`
	Summary         *string    `gorm:"type:text" json:"summary,omitempty"`
	MainImage       *string    `json:"mainImage,omitempty"`
	Category        *string    `gorm:"index" json:"category,omitempty"` // Free-text tag used for faceting
}

// TableName specifies the table name for the AwarenessArticle model.
func (AwarenessArticle) TableName() string {
	return string(CollectionAwarenessArticles)
}

// CollectionName implements Record.
func (*AwarenessArticle) CollectionName() Collection {
	return CollectionAwarenessArticles
}

// Excerpt returns the article summary, or the first maxRunes runes of the
// content's visible text when no summary was authored. ok is false when the
// article has neither.
func (a *AwarenessArticle) Excerpt(maxRunes int) (excerpt string, ok bool) {
	if a.Summary != nil && strings.TrimSpace(*a.Summary) != "" {
		return *a.Summary, true
	}
	if a.Content == nil {
		return "", false
	}
	text := PlainText(*a.Content)
	if text == "" {
		return "", false
	}
	runes := []rune(text)
	if maxRunes > 0 && len(runes) > maxRunes {
		return strings.TrimSpace(string(runes[:maxRunes])) + "…", true
	}
	return text, true
}

// PlainText strips markup from an HTML fragment and collapses whitespace.
// Script and style bodies are dropped. Input that is not HTML comes back
// with its whitespace normalised.
func PlainText(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var sb strings.Builder
	skip := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(sb.String()), " ")
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skip++
			}
			sb.WriteByte(' ')
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if tag := string(name); (tag == "script" || tag == "style") && skip > 0 {
				skip--
			}
			sb.WriteByte(' ')
		case html.SelfClosingTagToken:
			sb.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				sb.Write(tokenizer.Text())
			}
		}
	}
}
