package main

import (
	"fmt"
	"sort"
	"strings"

	"finitefield.org/folio-web/internal/backend"
	"finitefield.org/folio-web/internal/listview"
)

// entity ties a collection name to its source and a one-line rendering.
type entity struct {
	pageSize func(l *listSizes) int
	session  func(e *env, hist listview.History, size int) session
}

type listSizes struct{ projects, experience, certifications, achievements, publications int }

var entities = map[string]entity{
	backend.EntityProjects: {
		pageSize: func(l *listSizes) int { return l.projects },
		session: func(e *env, hist listview.History, size int) session {
			return newSession(e, e.client.Projects(), hist, backend.EntityProjects, size, func(p backend.Project) string {
				if len(p.Tags) == 0 {
					return p.Title
				}
				return fmt.Sprintf("%s (%s)", p.Title, strings.Join(p.Tags, ", "))
			}, func(p backend.Project) backend.ID { return p.ID })
		},
	},
	backend.EntityExperiences: {
		pageSize: func(l *listSizes) int { return l.experience },
		session: func(e *env, hist listview.History, size int) session {
			return newSession(e, e.client.Experiences(), hist, backend.EntityExperiences, size, func(x backend.Experience) string {
				return x.JobTitle + " @ " + x.CompanyName
			}, func(x backend.Experience) backend.ID { return x.ID })
		},
	},
	backend.EntityCertifications: {
		pageSize: func(l *listSizes) int { return l.certifications },
		session: func(e *env, hist listview.History, size int) session {
			return newSession(e, e.client.Certifications(), hist, backend.EntityCertifications, size, func(c backend.Certification) string {
				return c.Name + " - " + c.IssuingOrganization
			}, func(c backend.Certification) backend.ID { return c.ID })
		},
	},
	backend.EntityAchievements: {
		pageSize: func(l *listSizes) int { return l.achievements },
		session: func(e *env, hist listview.History, size int) session {
			return newSession(e, e.client.Achievements(), hist, backend.EntityAchievements, size, func(a backend.Achievement) string {
				return a.Title
			}, func(a backend.Achievement) backend.ID { return a.ID })
		},
	},
	backend.EntityPublications: {
		pageSize: func(l *listSizes) int { return l.publications },
		session: func(e *env, hist listview.History, size int) session {
			return newSession(e, e.client.Publications(), hist, backend.EntityPublications, size, func(p backend.Publication) string {
				return p.Title + " (" + p.Conference + ")"
			}, func(p backend.Publication) backend.ID { return p.ID })
		},
	},
}

// aliases accept the web paths too, e.g. "experience".
var aliases = map[string]string{
	"experience": backend.EntityExperiences,
	"project":    backend.EntityProjects,
}

func lookupEntity(name string) (string, entity, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if a, ok := aliases[name]; ok {
		name = a
	}
	ent, ok := entities[name]
	if !ok {
		return "", entity{}, fmt.Errorf("unknown entity %q (want one of %s)", name, strings.Join(entityNames(), ", "))
	}
	return name, ent, nil
}

func entityNames() []string {
	names := make([]string, 0, len(entities))
	for n := range entities {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func sizesFrom(e *env) *listSizes {
	l := e.cfg.Lists
	return &listSizes{
		projects:       l.ProjectsPerPage,
		experience:     l.ExperiencePerPage,
		certifications: l.CertificationPage,
		achievements:   l.AchievementsPage,
		publications:   l.PublicationsPage,
	}
}
