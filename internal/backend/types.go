package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ID is an opaque identifier. The backend may send it as a number or a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Project is a portfolio project. Description is HTML authored in the backend admin.
type Project struct {
	ID            ID             `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Image         string         `json:"image,omitempty"`
	ProjectURL    string         `json:"project_url,omitempty"`
	RepoURL       string         `json:"repo_url,omitempty"`
	Tags          []string       `json:"tags"`
	GalleryImages []GalleryImage `json:"gallery_images,omitempty"`
	DisplayOrder  int            `json:"display_order"`
	CreatedAt     string         `json:"created_at,omitempty"`
}

// HasTag matches case-insensitively, like the backend's tag filter.
func (p Project) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// GalleryImage is one extra screenshot on a project detail page.
type GalleryImage struct {
	ID           ID     `json:"id"`
	Image        string `json:"image"`
	Caption      string `json:"caption,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

// Experience is a job entry. WorkDetails is HTML.
type Experience struct {
	ID             ID      `json:"id"`
	CompanyName    string  `json:"company_name"`
	JobTitle       string  `json:"job_title"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date,omitempty"`
	EndDateDisplay string  `json:"end_date_display"`
	WorkDetails    string  `json:"work_details"`
	IsCurrent      bool    `json:"is_current"`
	Photos         []Photo `json:"photos,omitempty"`
	DisplayOrder   int     `json:"display_order"`
}

// Photo is an image attached to an experience.
type Photo struct {
	ID      ID     `json:"id"`
	Image   string `json:"image"`
	Caption string `json:"caption,omitempty"`
}

type Achievement struct {
	ID           ID     `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Date         string `json:"date"`
	Image        string `json:"image,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

type Certification struct {
	ID                  ID     `json:"id"`
	Name                string `json:"name"`
	IssuingOrganization string `json:"issuing_organization"`
	CredentialURL       string `json:"credential_url,omitempty"`
	IssueDate           string `json:"issue_date"`
	Image               string `json:"image,omitempty"`
	DisplayOrder        int    `json:"display_order"`
}

type Publication struct {
	ID             ID     `json:"id"`
	Title          string `json:"title"`
	Authors        string `json:"authors"`
	Conference     string `json:"conference"`
	PublicationURL string `json:"publication_url,omitempty"`
	PublishedDate  string `json:"published_date"`
	DisplayOrder   int    `json:"display_order"`
}

// Tag is an entry of the project tag catalog.
type Tag struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Resume is an uploaded CV document.
type Resume struct {
	ID         ID     `json:"id"`
	Title      string `json:"title"`
	PDFFile    string `json:"pdf_file"`
	UploadedAt string `json:"uploaded_at"`
}

// ContactMessage is submitted from the contact form.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ChatReply is the chatbot's answer and the session it belongs to.
type ChatReply struct {
	Answer    string `json:"answer"`
	SessionID string `json:"session_id"`
}

// VisitorCount is the running total returned by the visit counter.
type VisitorCount struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

// ParseDate accepts the date shapes the backend emits. Zero on failure.
func ParseDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02", "2006-01"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	if year, err := strconv.Atoi(v); err == nil && year > 0 {
		return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Time{}
}
