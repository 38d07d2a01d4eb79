package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"finitefield.org/folio-web/internal/listview"
)

// Backend collection names.
const (
	EntityProjects       = "projects"
	EntityExperiences    = "experiences"
	EntityAchievements   = "achievements"
	EntityCertifications = "certifications"
	EntityPublications   = "publications"
)

// envelope is the paginated list shape: {count, next, previous, results}.
type envelope struct {
	Count    *int            `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  json.RawMessage `json:"results"`
}

var errMissingResults = errors.New("missing results")

func (c *Client) Projects() listview.Source[Project] {
	return listSource[Project](c, EntityProjects)
}

func (c *Client) Experiences() listview.Source[Experience] {
	return listSource[Experience](c, EntityExperiences)
}

func (c *Client) Achievements() listview.Source[Achievement] {
	return listSource[Achievement](c, EntityAchievements)
}

func (c *Client) Certifications() listview.Source[Certification] {
	return listSource[Certification](c, EntityCertifications)
}

func (c *Client) Publications() listview.Source[Publication] {
	return listSource[Publication](c, EntityPublications)
}

// listSource fetches GET <base>/<entity>/?page=&page_size=[&tag=] exactly once per call.
func listSource[T any](c *Client, entity string) listview.Source[T] {
	return listview.SourceFunc[T](func(ctx context.Context, req listview.Request) (listview.Page[T], error) {
		req.Entity = entity
		if c.Offline() {
			return fakePage[T](c.fake, req)
		}
		q := url.Values{}
		q.Set("page", strconv.Itoa(req.Page))
		q.Set("page_size", strconv.Itoa(req.PageSize))
		if req.Tag != "" {
			q.Set("tag", req.Tag)
		}
		b, err := c.do(ctx, call{hc: c.once, method: http.MethodGet, path: entity + "/", query: q})
		if err != nil {
			return listview.Page[T]{}, err
		}
		return decodePage[T](entity, b, req)
	})
}

// decodePage accepts the paginated envelope or, for unpaginated
// collections, a bare array which is then paged locally.
func decodePage[T any](entity string, b []byte, req listview.Request) (listview.Page[T], error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var all []T
		if err := json.Unmarshal(trimmed, &all); err != nil {
			return listview.Page[T]{}, &DecodeError{Resource: entity, Err: err}
		}
		return listview.Slice(all, req, nil), nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return listview.Page[T]{}, &DecodeError{Resource: entity, Err: err}
	}
	if len(env.Results) == 0 || bytes.Equal(env.Results, []byte("null")) {
		return listview.Page[T]{}, &DecodeError{Resource: entity, Err: errMissingResults}
	}
	var items []T
	if err := json.Unmarshal(env.Results, &items); err != nil {
		return listview.Page[T]{}, &DecodeError{Resource: entity, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	total := len(items)
	if env.Count != nil {
		total = *env.Count
	}
	if total < 0 {
		return listview.Page[T]{}, &DecodeError{Resource: entity, Err: errors.New("negative count")}
	}
	return listview.Page[T]{TotalCount: total, Items: items}, nil
}
