package domain

import (
	"strings"
	"time"
)

// Image is a URL owned by a Product. It never exists on its own.
type Image struct {
	ID  string `json:"-"`
	URL string `json:"url"`
}

// Product is the catalog aggregate root. Images share its lifetime.
type Product struct {
	ID          string
	Title       string
	Price       float64
	Description *string
	Slug        string
	Stock       int
	Sizes       []string
	Gender      string
	Tags        []string
	UserID      string
	Images      []Image
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NormalizeSlug lower-cases s, turns spaces into underscores and strips
// apostrophes. Hyphens and every other character are kept.
func NormalizeSlug(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "'", "")
}

// PrepareInsert seeds the slug from the title when it is unset and
// normalises it. Called right before the row is written.
func (p *Product) PrepareInsert() {
	if p.Slug == "" {
		p.Slug = p.Title
	}
	p.Slug = NormalizeSlug(p.Slug)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
}

// PrepareUpdate re-normalises whatever the slug holds at persistence time.
func (p *Product) PrepareUpdate() {
	p.Slug = NormalizeSlug(p.Slug)
	if p.Tags == nil {
		p.Tags = []string{}
	}
}

// NewImages builds image records in the order the URLs were supplied.
func NewImages(urls []string) []Image {
	images := make([]Image, len(urls))
	for i, u := range urls {
		images[i] = Image{URL: u}
	}
	return images
}

// ImageURLs flattens the image collection to its URLs.
func (p *Product) ImageURLs() []string {
	urls := make([]string, len(p.Images))
	for i, img := range p.Images {
		urls[i] = img.URL
	}
	return urls
}
