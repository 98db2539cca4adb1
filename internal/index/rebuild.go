package index

import (
	"encoding/json"
	"strings"

	bolt "go.etcd.io/bbolt"

	"quill/internal/domain/content"
)

type RebuildOptions struct {
	IncludeDraft bool
}

// Rebuild replaces the whole index with a validated snapshot. Authors go
// in first so the stored view is never missing an entity a stored post
// refers to.
func (s *Store) Rebuild(authors []content.AuthorEntity, posts []content.PostRecord, opt RebuildOptions) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		_ = tx.DeleteBucket(bAuthors)
		_ = tx.DeleteBucket(bPosts)
		_ = tx.DeleteBucket(bIdxPub)
		_ = tx.DeleteBucket(bIdxUpdated)
		_ = tx.DeleteBucket(bIdxCat)

		authorB, _ := tx.CreateBucket(bAuthors)
		postB, _ := tx.CreateBucket(bPosts)
		idxPubB, _ := tx.CreateBucket(bIdxPub)
		idxUpdatedB, _ := tx.CreateBucket(bIdxUpdated)
		idxCatB, _ := tx.CreateBucket(bIdxCat)

		for _, a := range authors {
			if strings.TrimSpace(a.ID) == "" {
				continue
			}
			ab, err := json.Marshal(a)
			if err != nil {
				return err
			}
			if err := authorB.Put([]byte(a.ID), ab); err != nil {
				return err
			}
		}

		for _, p := range posts {
			m := p.Meta
			if m.Draft && !opt.IncludeDraft {
				continue
			}
			if strings.TrimSpace(m.Slug) == "" {
				continue
			}
			pb, err := json.Marshal(p)
			if err != nil {
				return err
			}
			if err := postB.Put([]byte(m.Slug), pb); err != nil {
				return err
			}

			pubKey := makeTimeSlugKey(m.PubDate.UnixNano(), m.Slug)
			if err := idxPubB.Put(pubKey, []byte{1}); err != nil {
				return err
			}

			updated := m.UpdatedDate
			if updated.IsZero() {
				updated = m.PubDate
			}
			uKey := makeTimeSlugKey(updated.UnixNano(), m.Slug)
			if err := idxUpdatedB.Put(uKey, []byte{1}); err != nil {
				return err
			}

			if cat := strings.TrimSpace(m.Category); cat != "" {
				sb, err := idxCatB.CreateBucketIfNotExists([]byte(cat))
				if err != nil {
					return err
				}
				if err := sb.Put(pubKey, []byte{1}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
