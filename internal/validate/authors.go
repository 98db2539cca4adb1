package validate

import (
	"fmt"

	"quill/internal/domain/content"
	domainerr "quill/internal/domain/errors"
)

// Authorship frontmatter keys. "author" is the historic singular relation
// (a scalar id or a single inline map); "authors" is the newer field and
// holds a scalar or a list mixing ids and inline maps. Shape is inferred
// from the value alone, never from a schema version marker.
const (
	fieldAuthor  = "author"
	fieldAuthors = "authors"
)

// ResolveAuthorRefs reshapes the raw authorship fields of a post into an
// ordered list of canonical references. Ids are checked for non-emptiness
// only; resolution against the author collection happens in Post, which
// has collection-wide visibility. When both fields are present, refs from
// "author" keep their place ahead of refs from "authors"; within a single
// field the declared order is preserved.
func ResolveAuthorRefs(raw map[string]any) ([]content.AuthorReference, error) {
	refs, _, err := resolveAuthorRefs(raw)
	return refs, err
}

// resolveAuthorRefs additionally reports each reference's origin label
// ("author[0]", "authors[2]", ...) so later checks can attribute errors
// to the field and index the reference was declared at.
func resolveAuthorRefs(raw map[string]any) ([]content.AuthorReference, []string, error) {
	var ve domainerr.ValidationError
	var out []content.AuthorReference
	var origins []string

	resolveField(fieldAuthor, raw[fieldAuthor], &ve, &out, &origins)
	resolveField(fieldAuthors, raw[fieldAuthors], &ve, &out, &origins)

	if ve.HasAny() {
		return nil, nil, ve
	}
	return out, origins, nil
}

func resolveField(field string, raw any, ve *domainerr.ValidationError, out *[]content.AuthorReference, origins *[]string) {
	for i, entry := range asList(raw) {
		at := fmt.Sprintf("%s[%d]", field, i)
		switch v := entry.(type) {
		case string:
			id, err := NonEmptyString(v)
			if err != nil {
				ve.Collect(at, err)
				continue
			}
			*out = append(*out, content.AuthorReference{Kind: content.AuthorByID, ID: id})
			*origins = append(*origins, at)
		case map[string]any:
			profile, err := resolveInline(v)
			if err != nil {
				ve.Collect(at, err)
				continue
			}
			*out = append(*out, content.AuthorReference{Kind: content.AuthorInline, Inline: profile})
			*origins = append(*origins, at)
		default:
			ve.Add(at, domainerr.KindInvalidType, fmt.Sprintf("expected an author id or object, got %T", entry))
		}
	}
}

// asList folds the legacy scalar shape into a one-element list. Absent
// values mean no authors, not an error.
func asList(raw any) []any {
	switch v := raw.(type) {
	case nil:
		return nil
	case []any:
		return v
	default:
		return []any{v}
	}
}

func resolveInline(raw map[string]any) (content.AuthorProfile, error) {
	var ve domainerr.ValidationError
	var p content.AuthorProfile

	if s, err := OptionalString(raw["name"]); err != nil {
		ve.Collect("name", err)
	} else {
		p.Name = s
	}
	if s, err := OptionalString(raw["avatarImage"]); err != nil {
		ve.Collect("avatarImage", err)
	} else {
		p.AvatarImage = s
	}
	if s, present, err := HTTPSURL(raw["avatarUrl"]); err != nil {
		ve.Collect("avatarUrl", err)
	} else if present {
		p.AvatarURL = s
	}
	if s, present, err := HTTPSURL(raw["website"]); err != nil {
		ve.Collect("website", err)
	} else if present {
		p.Website = s
	}

	if ve.HasAny() {
		return content.AuthorProfile{}, ve
	}
	return p, nil
}
