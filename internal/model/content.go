package model

import "html/template"

// Image is a resolved media asset.
type Image struct {
	URL    string
	Width  int
	Height int
	Alt    string
}

// ContentSummary is a list item shaped for cards and teasers.
type ContentSummary struct {
	ID                   string
	Title                string
	Slug                 string
	Summary              string
	PublishDate          string
	FormattedPublishDate string
	HeroImage            *Image
	CategoryIDs          []string
}

// ContentDetail is a full article shaped for the detail page. Body holds
// sanitized upstream HTML.
type ContentDetail struct {
	ID                   string
	Title                string
	Slug                 string
	Summary              string
	PublishDate          string
	FormattedPublishDate string
	HeroImage            *Image
	Body                 string
	CategoryIDs          []string
}

// BodyHTML returns the sanitized body for template rendering.
func (d ContentDetail) BodyHTML() template.HTML {
	return template.HTML(d.Body)
}

// Pagination mirrors the upstream list pagination envelope.
type Pagination struct {
	Page  int
	Pages int
	Total int
	Limit int
}

// ContentPage is one page of list results.
type ContentPage struct {
	Items      []ContentSummary
	Pagination *Pagination
}
