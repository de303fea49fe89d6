package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a corpus import file. Ids are optional; missing ids are
// generated. Articles are referenced by id or title.
type Document struct {
	Libraries   []LibraryDoc    `json:"libraries" yaml:"libraries"`
	Definitions []DefinitionDoc `json:"definitions" yaml:"definitions"`
	Fragments   []FragmentDoc   `json:"fragments" yaml:"fragments"`
}

type LibraryDoc struct {
	ID          string          `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string          `json:"name" yaml:"name"`
	Collections []CollectionDoc `json:"collections" yaml:"collections"`
}

type CollectionDoc struct {
	ID       string       `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string       `json:"name" yaml:"name"`
	Articles []ArticleDoc `json:"articles" yaml:"articles"`
}

type ArticleDoc struct {
	ID        string   `json:"id,omitempty" yaml:"id,omitempty"`
	Title     string   `json:"title" yaml:"title"`
	Sentences []string `json:"sentences" yaml:"sentences"`
}

// DefinitionDoc is one sense of a character with its linked example
// sentences.
type DefinitionDoc struct {
	Character string           `json:"character" yaml:"character"`
	Content   string           `json:"content" yaml:"content"`
	Examples  []SentenceRefDoc `json:"examples" yaml:"examples"`
}

// SentenceRefDoc points at a sentence by article and either index or a
// substring of its text.
type SentenceRefDoc struct {
	Article  string `json:"article" yaml:"article"`
	Sentence *int   `json:"sentence,omitempty" yaml:"sentence,omitempty"`
	Contains string `json:"contains,omitempty" yaml:"contains,omitempty"`
}

// FragmentDoc is a short quotation cut from a sentence. When Sentence is
// nil the first sentence of the article containing Text is used.
type FragmentDoc struct {
	Text     string `json:"text" yaml:"text"`
	Article  string `json:"article" yaml:"article"`
	Sentence *int   `json:"sentence,omitempty" yaml:"sentence,omitempty"`
}

// LoadDocument reads a YAML or JSON document, chosen by file extension.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &doc)
	default:
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &doc, nil
}
