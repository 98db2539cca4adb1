package content

import "strings"

// AuthorEntity is a standalone author profile. ID is the record's storage
// slug and is the canonical identifier posts refer to.
type AuthorEntity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AvatarImage string `json:"avatarImage,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Website     string `json:"website,omitempty"`
}

// AuthorProfile is a partial, self-contained author description carried
// inline on a post. Every field is optional.
type AuthorProfile struct {
	Name        string `json:"name,omitempty"`
	AvatarImage string `json:"avatarImage,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Website     string `json:"website,omitempty"`
}

func (p AuthorProfile) IsZero() bool {
	return p.Name == "" && p.AvatarImage == "" && p.AvatarURL == "" && p.Website == ""
}

type AuthorRefKind string

const (
	AuthorByID   AuthorRefKind = "id"
	AuthorInline AuthorRefKind = "inline"
)

// AuthorReference is one author attribution on a post. Exactly one of
// ID (Kind == AuthorByID) or Inline (Kind == AuthorInline) is meaningful.
type AuthorReference struct {
	Kind   AuthorRefKind `json:"kind"`
	ID     string        `json:"id,omitempty"`
	Inline AuthorProfile `json:"inline,omitzero"`
}

func (e *AuthorEntity) Normalize() {
	e.ID = strings.TrimSpace(e.ID)
	e.Name = strings.TrimSpace(e.Name)
	e.AvatarImage = strings.TrimSpace(e.AvatarImage)
	e.AvatarURL = strings.TrimSpace(e.AvatarURL)
	e.Website = strings.TrimSpace(e.Website)
}

// Profile is the entity's displayable shape.
func (e AuthorEntity) Profile() AuthorProfile {
	return AuthorProfile{
		Name:        e.Name,
		AvatarImage: e.AvatarImage,
		AvatarURL:   e.AvatarURL,
		Website:     e.Website,
	}
}

// Overlay returns p with any non-empty field of over replacing the
// corresponding field of p.
func (p AuthorProfile) Overlay(over AuthorProfile) AuthorProfile {
	if over.Name != "" {
		p.Name = over.Name
	}
	if over.AvatarImage != "" {
		p.AvatarImage = over.AvatarImage
	}
	if over.AvatarURL != "" {
		p.AvatarURL = over.AvatarURL
	}
	if over.Website != "" {
		p.Website = over.Website
	}
	return p
}
