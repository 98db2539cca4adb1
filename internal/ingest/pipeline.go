package ingest

import (
	"errors"
	"os"
	"runtime"
	"sort"
	"sync"

	"quill/internal/domain/content"
	"quill/internal/validate"
)

// Problem reports one record that failed validation or parsing. The
// record is excluded from the snapshot; every other record continues
// through the pipeline normally.
type Problem struct {
	Path string
	Err  error
}

type Warning struct {
	Path string
	Msg  string
}

// Snapshot is the validated view of the whole content store: every
// well-formed author and post, plus the read-only author id set the
// posts were resolved against.
type Snapshot struct {
	Authors []content.AuthorEntity
	Posts   []content.PostRecord
	Known   validate.KnownAuthors
}

type Options struct {
	AuthorsDir string
	PostsDir   string
}

type postResult struct {
	Record  content.PostRecord
	Problem *Problem
	Warns   []Warning
	Skip    bool
	Err     error
}

// Ingest loads, parses and validates the content store in two phases:
// authors first, so the complete known-id snapshot exists before any post
// resolves its references, then posts concurrently. Validation failures
// come back as Problems; only I/O failures abort the run.
func Ingest(opt Options) (*Snapshot, []Problem, []Warning, error) {
	var problems []Problem
	var warns []Warning

	authors, aProblems, aWarns, err := ingestAuthors(opt.AuthorsDir)
	if err != nil {
		return nil, nil, nil, err
	}
	problems = append(problems, aProblems...)
	warns = append(warns, aWarns...)

	known := validate.KnownAuthorIDs(authors)

	posts, pProblems, pWarns, err := ingestPosts(opt.PostsDir, known)
	if err != nil {
		return nil, nil, nil, err
	}
	problems = append(problems, pProblems...)
	warns = append(warns, pWarns...)

	return &Snapshot{Authors: authors, Posts: posts, Known: known}, problems, warns, nil
}

func ingestAuthors(dir string) ([]content.AuthorEntity, []Problem, []Warning, error) {
	files, err := DiscoverSource(dir)
	if err != nil {
		return nil, nil, nil, err
	}

	var out []content.AuthorEntity
	var problems []Problem
	var warns []Warning
	seen := make(map[string]struct{}, len(files))

	for _, sf := range files {
		raw, readErr := os.ReadFile(sf.Path)
		if readErr != nil {
			return nil, nil, nil, readErr
		}
		meta, _, fmErr := ParseFrontMatter(raw)
		if fmErr != nil && !errors.Is(fmErr, ErrNoFrontMatter) {
			problems = append(problems, Problem{Path: sf.Path, Err: fmErr})
			continue
		}
		slug := ResolveSlug(meta, sf.Path)
		if slug == "" {
			warns = append(warns, Warning{Path: sf.Path, Msg: "empty slug"})
			continue
		}
		if _, ok := seen[slug]; ok {
			warns = append(warns, Warning{Path: sf.Path, Msg: "duplicate author id, skipped: " + slug})
			continue
		}
		ent, vErr := validate.Author(meta, slug)
		if vErr != nil {
			problems = append(problems, Problem{Path: sf.Path, Err: vErr})
			continue
		}
		seen[slug] = struct{}{}
		out = append(out, ent)
	}
	return out, problems, warns, nil
}

func ingestPosts(dir string, known validate.KnownAuthors) ([]content.PostRecord, []Problem, []Warning, error) {
	files, err := DiscoverSource(dir)
	if err != nil {
		return nil, nil, nil, err
	}

	workers := runtime.GOMAXPROCS(0)
	jobs := make(chan SourceFile)
	results := make(chan postResult)

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sf := range jobs {
				results <- ingestOnePost(sf, known)
			}
		}()
	}

	go func() {
		for _, f := range files {
			jobs <- f
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var out []content.PostRecord
	var problems []Problem
	var warns []Warning
	var firstErr error
	// Drain results to the end even after an error, otherwise workers
	// block forever on the unbuffered channel and leak.
	for r := range results {
		if r.Err != nil {
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}
		if r.Problem != nil {
			problems = append(problems, *r.Problem)
		}
		if len(r.Warns) > 0 {
			warns = append(warns, r.Warns...)
		}
		if r.Skip || r.Problem != nil {
			continue
		}
		out = append(out, r.Record)
	}
	if firstErr != nil {
		return nil, nil, nil, firstErr
	}

	seen := make(map[string]struct{}, len(out))
	filtered := make([]content.PostRecord, 0, len(out))
	for _, p := range out {
		if _, ok := seen[p.Meta.Slug]; ok {
			warns = append(warns, Warning{Path: p.Body.SourcePath, Msg: "duplicate slug, skipped: " + p.Meta.Slug})
			continue
		}
		seen[p.Meta.Slug] = struct{}{}
		filtered = append(filtered, p)
	}

	// Worker completion order is not stable; the snapshot is.
	sort.Slice(filtered, func(i, j int) bool {
		a, b := filtered[i].Meta, filtered[j].Meta
		if !a.PubDate.Equal(b.PubDate) {
			return a.PubDate.After(b.PubDate)
		}
		return a.Slug < b.Slug
	})
	return filtered, problems, warns, nil
}

func ingestOnePost(sf SourceFile, known validate.KnownAuthors) postResult {
	raw, readErr := os.ReadFile(sf.Path)
	if readErr != nil {
		return postResult{Err: readErr}
	}
	contentHash := HashBytes(raw)

	meta, _, fmErr := ParseFrontMatter(raw)
	if fmErr != nil && !errors.Is(fmErr, ErrNoFrontMatter) {
		return postResult{Problem: &Problem{Path: sf.Path, Err: fmErr}}
	}

	slug := ResolveSlug(meta, sf.Path)
	if slug == "" {
		return postResult{
			Warns: []Warning{{Path: sf.Path, Msg: "empty slug"}},
			Skip:  true,
		}
	}

	pm, vErr := validate.Post(meta, slug, known)
	if vErr != nil {
		return postResult{Problem: &Problem{Path: sf.Path, Err: vErr}}
	}

	return postResult{
		Record: content.PostRecord{
			Meta: pm,
			Body: content.BodyRef{
				SourcePath:  sf.Path,
				ContentHash: contentHash,
			},
		},
	}
}
