package content

import (
	"strings"
	"time"
)

type PostMeta struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Excerpt     string `json:"excerpt"`

	PubDate     time.Time `json:"pubDate"`
	UpdatedDate time.Time `json:"updatedDate,omitzero"` // zero means never updated

	HeroImage string            `json:"heroImage,omitempty"`
	Authors   []AuthorReference `json:"authors,omitempty"`

	Draft bool `json:"draft,omitempty"`
}

type BodyRef struct {
	SourcePath  string `json:"sourcePath"`
	ContentHash string `json:"contentHash"`
}

type PostRecord struct {
	Meta PostMeta `json:"meta"`
	Body BodyRef  `json:"body"`
}

func (m *PostMeta) Normalize() {
	m.Slug = strings.TrimSpace(m.Slug)
	m.Title = strings.TrimSpace(m.Title)
	m.Description = strings.TrimSpace(m.Description)
	m.Category = strings.TrimSpace(m.Category)
	m.Excerpt = strings.TrimSpace(m.Excerpt)
	m.HeroImage = strings.TrimSpace(m.HeroImage)
}

// DisplayAuthors resolves the post's references into displayable profiles.
// An inline reference on a post that also carries an id reference acts as
// an override of the resolved entity's fields, not as an extra author.
// Inline references on a post with no id reference stand on their own.
// lookup resolves a canonical id to its entity; ids it cannot resolve are
// skipped here (validation has already rejected them).
func (m PostMeta) DisplayAuthors(lookup func(id string) (AuthorEntity, bool)) []AuthorProfile {
	var base []AuthorProfile
	var overrides []AuthorProfile
	hasID := false
	for _, ref := range m.Authors {
		switch ref.Kind {
		case AuthorByID:
			hasID = true
			if ent, ok := lookup(ref.ID); ok {
				base = append(base, ent.Profile())
			}
		case AuthorInline:
			overrides = append(overrides, ref.Inline)
		}
	}
	if !hasID {
		return overrides
	}
	for _, over := range overrides {
		for i := range base {
			base[i] = base[i].Overlay(over)
		}
	}
	return base
}
