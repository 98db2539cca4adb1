package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerr "quill/internal/domain/errors"
)

func writeFileT(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func contentDirs(t *testing.T) (authorsDir, postsDir string) {
	t.Helper()
	root := t.TempDir()
	return filepath.Join(root, "authors"), filepath.Join(root, "blog")
}

const janeDoe = "---\nname: Jane Doe\nwebsite: https://jane.dev\n---\n"

func TestIngestTwoPhases(t *testing.T) {
	authorsDir, postsDir := contentDirs(t)
	writeFileT(t, authorsDir, "jane-doe.md", janeDoe)
	writeFileT(t, postsDir, "first.md",
		"---\ntitle: First\ndescription: D\ncategory: C\nexcerpt: E\npubDate: 2026-01-01\nauthor: jane-doe\n---\nsome body\n")

	snap, problems, warns, err := Ingest(Options{AuthorsDir: authorsDir, PostsDir: postsDir})
	require.NoError(t, err)
	assert.Empty(t, problems)
	assert.Empty(t, warns)

	require.Len(t, snap.Authors, 1)
	assert.Equal(t, "jane-doe", snap.Authors[0].ID)
	_, known := snap.Known["jane-doe"]
	assert.True(t, known)

	require.Len(t, snap.Posts, 1)
	p := snap.Posts[0]
	assert.Equal(t, "first", p.Meta.Slug)
	require.Len(t, p.Meta.Authors, 1)
	assert.Equal(t, "jane-doe", p.Meta.Authors[0].ID)
	assert.NotEmpty(t, p.Body.ContentHash)
	assert.Equal(t, filepath.Join(postsDir, "first.md"), p.Body.SourcePath)
}

func TestIngestReportsDanglingReference(t *testing.T) {
	authorsDir, postsDir := contentDirs(t)
	writeFileT(t, postsDir, "lost.md",
		"---\ntitle: Lost\ndescription: D\ncategory: C\nexcerpt: E\npubDate: 2026-01-01\nauthor: ghost\n---\nx\n")

	snap, problems, _, err := Ingest(Options{AuthorsDir: authorsDir, PostsDir: postsDir})
	require.NoError(t, err)
	assert.Empty(t, snap.Posts)
	require.Len(t, problems, 1)

	var ve domainerr.ValidationError
	require.True(t, errors.As(problems[0].Err, &ve))
	dangling := ve.ByKind(domainerr.KindDanglingAuthorRef)
	require.Len(t, dangling, 1)
	assert.Contains(t, dangling[0].Message, "ghost")
}

func TestIngestBadRecordDoesNotStopOthers(t *testing.T) {
	authorsDir, postsDir := contentDirs(t)
	writeFileT(t, authorsDir, "jane-doe.md", janeDoe)
	writeFileT(t, postsDir, "good.md",
		"---\ntitle: Good\ndescription: D\ncategory: C\nexcerpt: E\npubDate: 2026-01-02\n---\nx\n")
	writeFileT(t, postsDir, "bad.md",
		"---\ntitle: Bad\npubDate: not-a-date\n---\nx\n")

	snap, problems, _, err := Ingest(Options{AuthorsDir: authorsDir, PostsDir: postsDir})
	require.NoError(t, err)
	require.Len(t, snap.Posts, 1)
	assert.Equal(t, "good", snap.Posts[0].Meta.Slug)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0].Path, "bad.md")
}

func TestIngestSnapshotOrderIsNewestFirst(t *testing.T) {
	authorsDir, postsDir := contentDirs(t)
	writeFileT(t, postsDir, "older.md",
		"---\ntitle: Older\ndescription: D\ncategory: C\nexcerpt: E\npubDate: 2026-01-01\n---\nx\n")
	writeFileT(t, postsDir, "newer.md",
		"---\ntitle: Newer\ndescription: D\ncategory: C\nexcerpt: E\npubDate: 2026-03-01\n---\nx\n")

	snap, _, _, err := Ingest(Options{AuthorsDir: authorsDir, PostsDir: postsDir})
	require.NoError(t, err)
	require.Len(t, snap.Posts, 2)
	assert.Equal(t, "newer", snap.Posts[0].Meta.Slug)
	assert.Equal(t, "older", snap.Posts[1].Meta.Slug)
}

func TestIngestMissingDirsAreEmptyCollections(t *testing.T) {
	authorsDir, postsDir := contentDirs(t)

	snap, problems, warns, err := Ingest(Options{AuthorsDir: authorsDir, PostsDir: postsDir})
	require.NoError(t, err)
	assert.Empty(t, snap.Authors)
	assert.Empty(t, snap.Posts)
	assert.Empty(t, problems)
	assert.Empty(t, warns)
}

func TestIngestReadFailureReleasesWorkers(t *testing.T) {
	authorsDir, postsDir := contentDirs(t)
	require.NoError(t, os.MkdirAll(postsDir, 0o755))
	// A dangling symlink makes the read of this record fail while many
	// more records are still queued behind it.
	require.NoError(t, os.Symlink(
		filepath.Join(postsDir, "no-such-target.md"),
		filepath.Join(postsDir, "0000-broken.md")))
	for i := 0; i < 64; i++ {
		writeFileT(t, postsDir, fmt.Sprintf("post-%03d.md", i),
			fmt.Sprintf("---\ntitle: T%d\ndescription: D\ncategory: C\nexcerpt: E\npubDate: 2026-01-01\n---\nx\n", i))
	}

	before := runtime.NumGoroutine()
	_, _, _, err := Ingest(Options{AuthorsDir: authorsDir, PostsDir: postsDir})
	require.Error(t, err)

	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > before && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.LessOrEqual(t, runtime.NumGoroutine(), before,
		"workers must drain and exit after a read error")
}

func TestIngestDuplicateSlug(t *testing.T) {
	authorsDir, postsDir := contentDirs(t)
	post := "---\ntitle: Same\ndescription: D\ncategory: C\nexcerpt: E\npubDate: 2026-01-01\nslug: same\n---\nx\n"
	writeFileT(t, postsDir, "a.md", post)
	writeFileT(t, postsDir, "b.md", post)

	snap, _, warns, err := Ingest(Options{AuthorsDir: authorsDir, PostsDir: postsDir})
	require.NoError(t, err)
	assert.Len(t, snap.Posts, 1)
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Msg, "duplicate slug")
}
