package build

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"quill/internal/domain/config"
	"quill/internal/domain/content"
	"quill/internal/domain/site"
	"quill/internal/index"
	"quill/internal/ingest"
	"quill/internal/manifest"
	"quill/internal/readtime"
	"quill/internal/render"
)

type Builder struct {
	Cfg       config.Config
	IndexPath string
}

type Result struct {
	Posts    int
	Authors  int
	Problems []ingest.Problem
	Warnings []ingest.Warning
}

// Run validates the content store, rebuilds the index and exports the
// published view: per-post JSON documents with rendered HTML and reading
// time, author documents, a feed, and the editor manifest. Records that
// failed validation are reported in the result and left out of the
// export; they never abort the build.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	snap, problems, warns, err := ingest.Ingest(ingest.Options{
		AuthorsDir: b.Cfg.Content.AuthorsDir,
		PostsDir:   b.Cfg.Content.PostsDir,
	})
	if err != nil {
		return nil, fmt.Errorf("ingest failed: %w", err)
	}

	st, err := index.Open(index.OpenOptions{Path: b.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()

	if err := st.Rebuild(snap.Authors, snap.Posts, index.RebuildOptions{
		IncludeDraft: b.Cfg.Build.IncludeDraft,
	}); err != nil {
		return nil, fmt.Errorf("failed to rebuild index: %w", err)
	}

	outDir := b.Cfg.Build.PublicDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir public: %w", err)
	}

	if err := b.exportManifest(outDir); err != nil {
		return nil, fmt.Errorf("export manifest: %w", err)
	}

	md := render.NewMarkdownRenderer()
	items, err := b.exportPosts(ctx, md, outDir, snap)
	if err != nil {
		return nil, err
	}
	if err := b.exportAuthors(outDir, snap.Authors); err != nil {
		return nil, err
	}
	if err := b.exportFeed(outDir, items); err != nil {
		return nil, fmt.Errorf("export feed: %w", err)
	}

	return &Result{
		Posts:    len(snap.Posts),
		Authors:  len(snap.Authors),
		Problems: problems,
		Warnings: warns,
	}, nil
}

func (b *Builder) exportManifest(outDir string) error {
	m := manifest.Build(b.Cfg.Content.PostsDir, b.Cfg.Content.AuthorsDir)
	if err := m.Verify(); err != nil {
		return err
	}
	path := filepath.Join(outDir, filepath.FromSlash(site.ManifestOut().OutPath))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return m.WriteYAML(f)
}

type postDoc struct {
	Slug        string                  `json:"slug"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Category    string                  `json:"category"`
	Excerpt     string                  `json:"excerpt"`
	PubDate     time.Time               `json:"pubDate"`
	UpdatedDate *time.Time              `json:"updatedDate,omitempty"`
	HeroImage   string                  `json:"heroImage,omitempty"`
	Authors     []content.AuthorProfile `json:"authors"`
	ReadMinutes int                     `json:"readMinutes"`
	HTML        string                  `json:"html"`
}

// exportPosts writes one document per exported post and returns the feed
// items describing them, so the feed reports the same readMinutes as the
// post documents.
func (b *Builder) exportPosts(ctx context.Context, md *render.MarkdownRenderer, outDir string, snap *ingest.Snapshot) ([]feedItem, error) {
	byID := make(map[string]content.AuthorEntity, len(snap.Authors))
	for _, a := range snap.Authors {
		byID[a.ID] = a
	}
	lookup := func(id string) (content.AuthorEntity, bool) {
		a, ok := byID[id]
		return a, ok
	}

	var items []feedItem
	for _, p := range snap.Posts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m := p.Meta
		if m.Draft && !b.Cfg.Build.IncludeDraft {
			continue
		}

		src, err := os.ReadFile(p.Body.SourcePath)
		if err != nil {
			return nil, fmt.Errorf("read post source(%s): %w", p.Body.SourcePath, err)
		}
		_, body, fmErr := ingest.ParseFrontMatter(src)
		if fmErr != nil {
			body = src
		}

		htmlBytes, err := md.Render(body)
		if err != nil {
			return nil, fmt.Errorf("markdown render(%s): %w", m.Slug, err)
		}

		doc := postDoc{
			Slug:        m.Slug,
			Title:       m.Title,
			Description: m.Description,
			Category:    m.Category,
			Excerpt:     m.Excerpt,
			PubDate:     m.PubDate,
			HeroImage:   m.HeroImage,
			Authors:     m.DisplayAuthors(lookup),
			ReadMinutes: readtime.EstimateHTML(string(htmlBytes)),
			HTML:        string(htmlBytes),
		}
		if !m.UpdatedDate.IsZero() {
			u := m.UpdatedDate
			doc.UpdatedDate = &u
		}

		route := site.PostOut(m.Slug)
		if err := writeJSON(outDir, route.OutPath, doc); err != nil {
			return nil, fmt.Errorf("write post(%s): %w", m.Slug, err)
		}
		items = append(items, feedItem{
			Slug:        m.Slug,
			Title:       m.Title,
			Category:    m.Category,
			Excerpt:     m.Excerpt,
			PubDate:     m.PubDate,
			ReadMinutes: doc.ReadMinutes,
		})
	}
	return items, nil
}

type authorDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AvatarImage string `json:"avatarImage,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Website     string `json:"website,omitempty"`
}

func (b *Builder) exportAuthors(outDir string, authors []content.AuthorEntity) error {
	docs := make([]authorDoc, 0, len(authors))
	for _, a := range authors {
		doc := authorDoc{
			ID:          a.ID,
			Name:        a.Name,
			AvatarImage: a.AvatarImage,
			AvatarURL:   a.AvatarURL,
			Website:     a.Website,
		}
		docs = append(docs, doc)
		route := site.AuthorOut(a.ID)
		if err := writeJSON(outDir, route.OutPath, doc); err != nil {
			return fmt.Errorf("write author(%s): %w", a.ID, err)
		}
	}
	return writeJSON(outDir, site.AuthorsOut().OutPath, docs)
}

type feedItem struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Excerpt     string    `json:"excerpt"`
	PubDate     time.Time `json:"pubDate"`
	ReadMinutes int       `json:"readMinutes"`
}

type feedDoc struct {
	Site      config.SiteConfig `json:"site"`
	Generated time.Time         `json:"generated"`
	Items     []feedItem        `json:"items"`
}

func (b *Builder) exportFeed(outDir string, items []feedItem) error {
	feed := feedDoc{
		Site:      b.Cfg.Site,
		Generated: b.Cfg.Build.Now,
		Items:     items,
	}
	return writeJSON(outDir, site.FeedOut().OutPath, feed)
}

func writeJSON(outDir, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(outDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
