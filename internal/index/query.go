package index

import (
	"encoding/json"
	"errors"
	"strings"

	bolt "go.etcd.io/bbolt"

	"quill/internal/domain/config"
	"quill/internal/domain/content"
)

var ErrNotFound = errors.New("not found")

type ListOptions struct {
	Sort         config.SortMode
	Page         int
	Size         int
	IncludeDraft bool
}

func (s *Store) GetPost(slug string) (content.PostRecord, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return content.PostRecord{}, ErrNotFound
	}
	var p content.PostRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bPosts)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(slug))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &p)
	})
	return p, err
}

func (s *Store) GetAuthor(id string) (content.AuthorEntity, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return content.AuthorEntity{}, ErrNotFound
	}
	var a content.AuthorEntity
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bAuthors)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &a)
	})
	return a, err
}

func normalizePaging(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

// ListPosts pages through posts newest-first, ordered by pubDate or by
// effective updated date depending on opt.Sort.
func (s *Store) ListPosts(opt ListOptions) ([]content.PostMeta, error) {
	opt.Page, opt.Size = normalizePaging(opt.Page, opt.Size)

	var idxBucketName []byte
	switch opt.Sort {
	case config.SortUpdated:
		idxBucketName = bIdxUpdated
	default:
		idxBucketName = bIdxPub
	}
	var out []content.PostMeta
	err := s.db.View(func(tx *bolt.Tx) error {
		idx := tx.Bucket(idxBucketName)
		postB := tx.Bucket(bPosts)
		if idx == nil || postB == nil {
			return nil
		}

		skip := (opt.Page - 1) * opt.Size
		cur := idx.Cursor()

		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			slug := slugFromTimeSlugKey(k)
			if slug == "" {
				continue
			}
			v := postB.Get([]byte(slug))
			if v == nil {
				continue
			}

			var p content.PostRecord
			if err := json.Unmarshal(v, &p); err != nil {
				continue
			}
			if p.Meta.Draft && !opt.IncludeDraft {
				continue
			}
			if skip > 0 {
				skip--
				continue
			}
			out = append(out, p.Meta)
			if len(out) >= opt.Size {
				break
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) ListByCategory(cat string, opt ListOptions) ([]content.PostMeta, error) {
	cat = strings.TrimSpace(cat)
	if cat == "" {
		return nil, nil
	}
	opt.Page, opt.Size = normalizePaging(opt.Page, opt.Size)

	var out []content.PostMeta
	err := s.db.View(func(tx *bolt.Tx) error {
		parent := tx.Bucket(bIdxCat)
		postB := tx.Bucket(bPosts)
		if parent == nil || postB == nil {
			return nil
		}
		sb := parent.Bucket([]byte(cat))
		if sb == nil {
			return nil
		}

		skip := (opt.Page - 1) * opt.Size
		cur := sb.Cursor()
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			slug := slugFromTimeSlugKey(k)
			v := postB.Get([]byte(slug))
			if v == nil {
				continue
			}
			var p content.PostRecord
			if err := json.Unmarshal(v, &p); err != nil {
				continue
			}
			if p.Meta.Draft && !opt.IncludeDraft {
				continue
			}
			if skip > 0 {
				skip--
				continue
			}
			out = append(out, p.Meta)
			if len(out) >= opt.Size {
				break
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) ListAuthors() ([]content.AuthorEntity, error) {
	var out []content.AuthorEntity
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bAuthors)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var a content.AuthorEntity
			if err := json.Unmarshal(v, &a); err != nil {
				return nil
			}
			out = append(out, a)
			return nil
		})
	})
	return out, err
}

func (s *Store) ListCategories() ([]string, error) {
	var out []string
	err := s.db.View(func(tx *bolt.Tx) error {
		parent := tx.Bucket(bIdxCat)
		if parent == nil {
			return nil
		}
		return parent.ForEachBucket(func(name []byte) error {
			out = append(out, string(name))
			return nil
		})
	})
	return out, err
}
