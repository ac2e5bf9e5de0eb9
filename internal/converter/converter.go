// Package converter flattens fetched markup into markdown text.
package converter

import (
	"fmt"
	"log"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

var droppedTags = []string{"script", "style", "noscript", "template", "svg"}

type Converter struct {
	md *md.Converter
}

func New() *Converter {
	conv := md.NewConverter("", true, nil)
	conv.Remove(droppedTags...)
	return &Converter{md: conv}
}

// ToText never fails: when markdown conversion breaks it falls back to the
// document's plain text, and finally to the markup itself.
func (c *Converter) ToText(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}

	text, err := c.convert(markup)
	if err == nil {
		return text
	}
	log.Printf("[CONVERTER] markdown conversion failed, using plain text: %v", err)

	if plain, err := PlainText(markup); err == nil {
		return plain
	}
	return markup
}

func (c *Converter) convert(markup string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("markdown converter panicked: %v", r)
		}
	}()
	return c.md.ConvertString(markup)
}

// PlainText strips tags and non-content elements, collapsing whitespace.
func PlainText(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", err
	}
	doc.Find(strings.Join(droppedTags, ",")).Remove()
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}
