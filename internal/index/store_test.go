package index

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/domain/config"
	"quill/internal/domain/content"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(OpenOptions{Path: filepath.Join(t.TempDir(), "index.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func post(slug, category string, pub time.Time, draft bool) content.PostRecord {
	return content.PostRecord{
		Meta: content.PostMeta{
			Slug:        slug,
			Title:       slug,
			Description: "d",
			Category:    category,
			Excerpt:     "e",
			PubDate:     pub,
			Draft:       draft,
		},
		Body: content.BodyRef{SourcePath: slug + ".md", ContentHash: "h"},
	}
}

func TestRebuildAndGet(t *testing.T) {
	st := openTestStore(t)

	authors := []content.AuthorEntity{{ID: "jane-doe", Name: "Jane Doe", Website: "https://jane.dev"}}
	posts := []content.PostRecord{
		post("hello", "go", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), false),
	}
	require.NoError(t, st.Rebuild(authors, posts, RebuildOptions{}))

	a, err := st.GetAuthor("jane-doe")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", a.Name)

	p, err := st.GetPost("hello")
	require.NoError(t, err)
	assert.Equal(t, "go", p.Meta.Category)

	_, err = st.GetPost("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.GetAuthor("")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPostsNewestFirst(t *testing.T) {
	st := openTestStore(t)

	posts := []content.PostRecord{
		post("old", "go", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), false),
		post("new", "go", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), false),
		post("mid", "misc", time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), false),
	}
	require.NoError(t, st.Rebuild(nil, posts, RebuildOptions{}))

	metas, err := st.ListPosts(ListOptions{Sort: config.SortPublished, Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, metas, 3)
	assert.Equal(t, "new", metas[0].Slug)
	assert.Equal(t, "mid", metas[1].Slug)
	assert.Equal(t, "old", metas[2].Slug)
}

func TestListPostsPaging(t *testing.T) {
	st := openTestStore(t)

	var posts []content.PostRecord
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		posts = append(posts, post(string(rune('a'+i)), "go", base.AddDate(0, 0, i), false))
	}
	require.NoError(t, st.Rebuild(nil, posts, RebuildOptions{}))

	page2, err := st.ListPosts(ListOptions{Page: 2, Size: 2})
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, "c", page2[0].Slug)
	assert.Equal(t, "b", page2[1].Slug)
}

func TestRebuildExcludesDrafts(t *testing.T) {
	st := openTestStore(t)

	posts := []content.PostRecord{
		post("live", "go", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), false),
		post("wip", "go", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), true),
	}
	require.NoError(t, st.Rebuild(nil, posts, RebuildOptions{IncludeDraft: false}))

	_, err := st.GetPost("wip")
	assert.ErrorIs(t, err, ErrNotFound)

	metas, err := st.ListPosts(ListOptions{Size: 10})
	require.NoError(t, err)
	assert.Len(t, metas, 1)
}

func TestListByCategory(t *testing.T) {
	st := openTestStore(t)

	posts := []content.PostRecord{
		post("a", "go", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), false),
		post("b", "misc", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), false),
		post("c", "go", time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC), false),
	}
	require.NoError(t, st.Rebuild(nil, posts, RebuildOptions{}))

	metas, err := st.ListByCategory("go", ListOptions{Size: 10})
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "c", metas[0].Slug)
	assert.Equal(t, "a", metas[1].Slug)

	cats, err := st.ListCategories()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"go", "misc"}, cats)
}

func TestRebuildReplacesPreviousSnapshot(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.Rebuild(
		[]content.AuthorEntity{{ID: "gone", Name: "Gone"}},
		[]content.PostRecord{post("stale", "go", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), false)},
		RebuildOptions{},
	))
	require.NoError(t, st.Rebuild(
		[]content.AuthorEntity{{ID: "jane-doe", Name: "Jane Doe"}},
		[]content.PostRecord{post("fresh", "go", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), false)},
		RebuildOptions{},
	))

	_, err := st.GetPost("stale")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.GetAuthor("gone")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = st.GetPost("fresh")
	assert.NoError(t, err)
}

func TestAuthorRefsSurviveRoundTrip(t *testing.T) {
	st := openTestStore(t)

	p := post("refs", "go", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), false)
	p.Meta.Authors = []content.AuthorReference{
		{Kind: content.AuthorByID, ID: "jane-doe"},
		{Kind: content.AuthorInline, Inline: content.AuthorProfile{Name: "Guest"}},
	}
	require.NoError(t, st.Rebuild(nil, []content.PostRecord{p}, RebuildOptions{}))

	got, err := st.GetPost("refs")
	require.NoError(t, err)
	assert.Equal(t, p.Meta.Authors, got.Meta.Authors)
}
