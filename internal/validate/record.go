package validate

import (
	"fmt"

	"quill/internal/domain/content"
	domainerr "quill/internal/domain/errors"
)

// KnownAuthors is the read-only snapshot of every canonical author id,
// built before any post is validated. It is safe to share across
// concurrent validations.
type KnownAuthors map[string]struct{}

func KnownAuthorIDs(authors []content.AuthorEntity) KnownAuthors {
	known := make(KnownAuthors, len(authors))
	for _, a := range authors {
		known[a.ID] = struct{}{}
	}
	return known
}

// Author validates a raw author frontmatter map into an AuthorEntity.
// slug is the record's storage slug and becomes the canonical id.
// All field violations are collected before returning.
func Author(raw map[string]any, slug string) (content.AuthorEntity, error) {
	var ve domainerr.ValidationError
	ent := content.AuthorEntity{ID: slug}

	if name, err := NonEmptyString(raw["name"]); err != nil {
		ve.Collect("name", err)
	} else {
		ent.Name = name
	}
	if s, err := OptionalString(raw["avatarImage"]); err != nil {
		ve.Collect("avatarImage", err)
	} else {
		ent.AvatarImage = s
	}
	if s, present, err := HTTPSURL(raw["avatarUrl"]); err != nil {
		ve.Collect("avatarUrl", err)
	} else if present {
		ent.AvatarURL = s
	}
	if s, present, err := HTTPSURL(raw["website"]); err != nil {
		ve.Collect("website", err)
	} else if present {
		ent.Website = s
	}

	if ve.HasAny() {
		return content.AuthorEntity{}, ve
	}
	ent.Normalize()
	return ent, nil
}

// Post validates a raw post frontmatter map into a PostMeta. known is the
// collection-wide author id snapshot; every AuthorByID reference must
// resolve against it. All field violations are collected before returning.
func Post(raw map[string]any, slug string, known KnownAuthors) (content.PostMeta, error) {
	var ve domainerr.ValidationError
	meta := content.PostMeta{Slug: slug}

	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"title", &meta.Title},
		{"description", &meta.Description},
		{"category", &meta.Category},
		{"excerpt", &meta.Excerpt},
	} {
		if s, err := NonEmptyString(raw[f.name]); err != nil {
			ve.Collect(f.name, err)
		} else {
			*f.dst = s
		}
	}

	if t, err := CoerceDate(raw["pubDate"]); err != nil {
		ve.Collect("pubDate", err)
	} else {
		meta.PubDate = t
	}
	if v, ok := raw["updatedDate"]; ok && v != nil {
		if t, err := CoerceDate(v); err != nil {
			ve.Collect("updatedDate", err)
		} else if !meta.PubDate.IsZero() && t.Before(meta.PubDate) {
			ve.Add("updatedDate", domainerr.KindInvalidDate, "must not precede pubDate")
		} else {
			meta.UpdatedDate = t
		}
	}

	if s, err := OptionalString(raw["heroImage"]); err != nil {
		ve.Collect("heroImage", err)
	} else {
		meta.HeroImage = s
	}
	if v, ok := raw["draft"]; ok && v != nil {
		if b, ok := v.(bool); ok {
			meta.Draft = b
		} else {
			ve.Add("draft", domainerr.KindInvalidType, fmt.Sprintf("expected a boolean, got %T", v))
		}
	}

	refs, origins, err := resolveAuthorRefs(raw)
	if err != nil {
		ve.Collect("", err)
	} else {
		meta.Authors = refs
		for i, ref := range refs {
			if ref.Kind != content.AuthorByID {
				continue
			}
			if _, ok := known[ref.ID]; !ok {
				ve.Add(origins[i], domainerr.KindDanglingAuthorRef,
					fmt.Sprintf("unknown author %q", ref.ID))
			}
		}
	}

	if ve.HasAny() {
		return content.PostMeta{}, ve
	}
	meta.Normalize()
	return meta, nil
}
