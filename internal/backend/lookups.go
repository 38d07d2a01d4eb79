package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
)

// GetProject fetches one project. Missing projects return ErrNotFound.
func (c *Client) GetProject(ctx context.Context, id string) (Project, error) {
	path, err := itemPath(EntityProjects, id)
	if err != nil {
		return Project{}, err
	}
	if c.Offline() {
		return c.fake.project(id)
	}
	var p Project
	if err := c.getJSON(ctx, c.retrying, path, nil, "project", &p); err != nil {
		return Project{}, err
	}
	sort.SliceStable(p.GalleryImages, func(i, j int) bool {
		return p.GalleryImages[i].DisplayOrder < p.GalleryImages[j].DisplayOrder
	})
	return p, nil
}

// GetExperience fetches one experience entry.
func (c *Client) GetExperience(ctx context.Context, id string) (Experience, error) {
	path, err := itemPath(EntityExperiences, id)
	if err != nil {
		return Experience{}, err
	}
	if c.Offline() {
		return c.fake.experience(id)
	}
	var e Experience
	if err := c.getJSON(ctx, c.retrying, path, nil, "experience", &e); err != nil {
		return Experience{}, err
	}
	return e, nil
}

// ListTags returns the project tag catalog.
func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	if c.Offline() {
		return c.fake.tagCatalog(), nil
	}
	b, err := c.do(ctx, call{hc: c.retrying, method: http.MethodGet, path: "tags/"})
	if err != nil {
		return nil, err
	}
	tags, err := decodeCollection[Tag]("tags", b)
	if err != nil {
		return nil, err
	}
	out := tags[:0]
	for _, t := range tags {
		t.Name = strings.TrimSpace(t.Name)
		if t.Name != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

// LatestResume returns the most recently uploaded resume, or ErrNotFound.
func (c *Client) LatestResume(ctx context.Context) (Resume, error) {
	var resumes []Resume
	if c.Offline() {
		resumes = c.fake.resumes()
	} else {
		b, err := c.do(ctx, call{hc: c.retrying, method: http.MethodGet, path: "resumes/"})
		if err != nil {
			return Resume{}, err
		}
		resumes, err = decodeCollection[Resume]("resumes", b)
		if err != nil {
			return Resume{}, err
		}
	}
	if len(resumes) == 0 {
		return Resume{}, ErrNotFound
	}
	sort.SliceStable(resumes, func(i, j int) bool {
		return ParseDate(resumes[i].UploadedAt).After(ParseDate(resumes[j].UploadedAt))
	})
	return resumes[0], nil
}

// decodeCollection reads either a bare array or the results of a paginated envelope.
func decodeCollection[T any](resource string, b []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(b)
	var items []T
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, &DecodeError{Resource: resource, Err: err}
		}
		return items, nil
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, &DecodeError{Resource: resource, Err: err}
	}
	if len(env.Results) == 0 {
		return nil, &DecodeError{Resource: resource, Err: errMissingResults}
	}
	if err := json.Unmarshal(env.Results, &items); err != nil {
		return nil, &DecodeError{Resource: resource, Err: err}
	}
	return items, nil
}
