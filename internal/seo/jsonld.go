package seo

import (
	"encoding/json"
)

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Person describes the portfolio owner.
func Person(name, url, jobTitle string, sameAs []string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Person",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if jobTitle != "" {
		m["jobTitle"] = jobTitle
	}
	if len(sameAs) > 0 {
		m["sameAs"] = sameAs
	}
	return m
}

// WebSite returns a minimal WebSite schema.
func WebSite(name, url string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	return m
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}

// CreativeWork describes a project page.
func CreativeWork(name, description, url, imageURL string, keywords []string) map[string]any {
	m := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "CreativeWork",
		"name":        name,
		"description": description,
	}
	if url != "" {
		m["url"] = url
	}
	if imageURL != "" {
		m["image"] = imageURL
	}
	if len(keywords) > 0 {
		m["keywords"] = keywords
	}
	return m
}

// ScholarlyArticle returns a minimal article schema for a publication.
func ScholarlyArticle(headline, url, authors, datePublished string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "ScholarlyArticle",
		"headline": headline,
	}
	if url != "" {
		m["url"] = url
	}
	if authors != "" {
		m["author"] = authors
	}
	if datePublished != "" {
		m["datePublished"] = datePublished
	}
	return m
}
