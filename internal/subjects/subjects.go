// Package subjects exposes the built-in catalog of browsable topics.
package subjects

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type Topic struct {
	Name  string `yaml:"name"`
	Emoji string `yaml:"emoji"`
}

type SubCategory struct {
	Name   string  `yaml:"name"`
	Emoji  string  `yaml:"emoji"`
	Topics []Topic `yaml:"topics"`
}

type Category struct {
	Name          string        `yaml:"name"`
	Emoji         string        `yaml:"emoji"`
	Subcategories []SubCategory `yaml:"subcategories"`
}

type Catalog struct {
	Categories []Category `yaml:"categories"`
	Featured   []Topic    `yaml:"featured"`
}

// Match is where a name was found in the catalog.
type Match struct {
	Category    string
	Subcategory string
	Topic       Topic
}

var (
	loadOnce sync.Once
	builtin  *Catalog
	loadErr  error
)

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Categories) == 0 {
		return nil, fmt.Errorf("parse catalog: no categories")
	}
	return &c, nil
}

// Builtin returns the embedded catalog.
func Builtin() (*Catalog, error) {
	loadOnce.Do(func() {
		builtin, loadErr = Parse(catalogYAML)
	})
	return builtin, loadErr
}

// Find looks a name up case-insensitively among subcategories and topics.
func (c *Catalog) Find(name string) []Match {
	var out []Match
	for _, cat := range c.Categories {
		for _, sub := range cat.Subcategories {
			if strings.EqualFold(sub.Name, name) {
				out = append(out, Match{Category: cat.Name, Subcategory: sub.Name, Topic: Topic{Name: sub.Name, Emoji: sub.Emoji}})
			}
			for _, t := range sub.Topics {
				if strings.EqualFold(t.Name, name) {
					out = append(out, Match{Category: cat.Name, Subcategory: sub.Name, Topic: t})
				}
			}
		}
	}
	return out
}

// Search lists every topic whose name, subcategory or category contains
// query, ignoring case. An empty query lists the whole catalog.
func (c *Catalog) Search(query string) []Match {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Match
	for _, cat := range c.Categories {
		catHit := strings.Contains(strings.ToLower(cat.Name), q)
		for _, sub := range cat.Subcategories {
			subHit := catHit || strings.Contains(strings.ToLower(sub.Name), q)
			for _, t := range sub.Topics {
				if subHit || strings.Contains(strings.ToLower(t.Name), q) {
					out = append(out, Match{Category: cat.Name, Subcategory: sub.Name, Topic: t})
				}
			}
		}
	}
	return out
}

// Category returns the named category.
func (c *Catalog) Category(name string) (Category, bool) {
	for _, cat := range c.Categories {
		if strings.EqualFold(cat.Name, name) {
			return cat, true
		}
	}
	return Category{}, false
}

// Label renders "emoji name".
func (t Topic) Label() string {
	if t.Emoji == "" {
		return t.Name
	}
	return t.Emoji + " " + t.Name
}
