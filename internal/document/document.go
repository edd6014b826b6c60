package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"storycast/internal/textnorm"
)

// Comment is one reply in a thread, in display order.
type Comment struct {
	ID   string `json:"comment_id"`
	Body string `json:"comment_body"`
	URL  string `json:"comment_url"`
}

// Document is the text source converted to speech: a title plus either a
// story body or an ordered list of comments.
type Document struct {
	ThreadID  string    `json:"thread_id"`
	Title     string    `json:"thread_title"`
	URL       string    `json:"thread_url"`
	Post      string    `json:"thread_post"`
	PostParts []string  `json:"thread_post_parts"`
	Comments  []Comment `json:"comments"`
}

// ID returns the sanitized document identifier used for the working
// directory. Characters outside word characters, whitespace, and hyphens are
// dropped.
func (d *Document) ID() string {
	return textnorm.DocumentID(d.ThreadID)
}

// Validate checks the document carries enough text to narrate.
func (d *Document) Validate() error {
	if d.ID() == "" {
		return errors.New("document: thread_id is empty after sanitizing")
	}
	if strings.TrimSpace(d.Title) == "" {
		return errors.New("document: thread_title is empty")
	}
	return nil
}

// NormalizeComments applies the text normalization passes to every comment
// body in place. The title and story body are normalized at synthesis time.
func (d *Document) NormalizeComments() {
	for i := range d.Comments {
		d.Comments[i].Body = textnorm.Normalize(d.Comments[i].Body)
	}
}

// Load reads a thread dump from a JSON file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}
