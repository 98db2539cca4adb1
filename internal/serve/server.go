// Package serve runs the live preview: it validates the content store,
// answers JSON queries over it, serves the editor manifest, and rebuilds
// on file changes.
package serve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"quill/internal/domain/config"
	"quill/internal/domain/content"
	"quill/internal/index"
	"quill/internal/ingest"
	"quill/internal/manifest"
	"quill/internal/readtime"
	"quill/internal/render"
)

type Server struct {
	cfg config.Config
	log zerolog.Logger

	indexPath string
	idx       *index.Store
	md        *render.MarkdownRenderer

	mu      sync.RWMutex
	posts   map[string]content.PostRecord
	authors map[string]content.AuthorEntity

	sseMu     sync.Mutex
	sseConns  map[chan string]struct{}
	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

func New(cfg config.Config, indexPath string, log zerolog.Logger) (*Server, error) {
	st, err := index.Open(index.OpenOptions{Path: indexPath})
	if err != nil {
		return nil, fmt.Errorf("serve: failed to open index: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		log:       log,
		indexPath: indexPath,
		idx:       st,
		md:        render.NewMarkdownRenderer(),
		posts:     make(map[string]content.PostRecord),
		authors:   make(map[string]content.AuthorEntity),
		sseConns:  make(map[chan string]struct{}),
	}
	return s, nil
}

func (s *Server) Close() error {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	if s.idx != nil {
		return s.idx.Close()
	}
	return nil
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.rebuild(ctx); err != nil {
		return err
	}

	if err := s.startWatch(ctx); err != nil {
		return err
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleFeed)
	mux.HandleFunc("/posts/", s.handlePost)
	mux.HandleFunc("/authors", s.handleAuthors)
	mux.HandleFunc("/authors/", s.handleAuthor)
	mux.HandleFunc("/categories", s.handleCategories)
	mux.HandleFunc("/categories/", s.handleCategory)
	mux.HandleFunc("/admin/config.yml", s.handleManifest)

	// dev SSE
	mux.HandleFunc("/dev/events", s.handleSSE)

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	s.log.Info().Str("addr", addr).Msg("listening")
	return srv.ListenAndServe()
}

func (s *Server) rebuild(ctx context.Context) error {
	snap, problems, warns, err := ingest.Ingest(ingest.Options{
		AuthorsDir: s.cfg.Content.AuthorsDir,
		PostsDir:   s.cfg.Content.PostsDir,
	})
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	for _, p := range problems {
		s.log.Warn().Str("path", p.Path).Msg(p.Err.Error())
	}
	for _, w := range warns {
		s.log.Warn().Str("path", w.Path).Msg(w.Msg)
	}
	s.log.Info().
		Int("posts", len(snap.Posts)).
		Int("authors", len(snap.Authors)).
		Int("rejected", len(problems)).
		Msg("ingested")

	if err := s.idx.Rebuild(snap.Authors, snap.Posts, index.RebuildOptions{
		IncludeDraft: true,
	}); err != nil {
		return fmt.Errorf("index rebuild: %w", err)
	}

	posts := make(map[string]content.PostRecord, len(snap.Posts))
	for _, p := range snap.Posts {
		posts[p.Meta.Slug] = p
	}
	authors := make(map[string]content.AuthorEntity, len(snap.Authors))
	for _, a := range snap.Authors {
		authors[a.ID] = a
	}
	s.mu.Lock()
	s.posts = posts
	s.authors = authors
	s.mu.Unlock()

	s.log.Info().Msg("rebuild complete")
	s.broadcastSSE("reload")

	return nil
}

func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w

		go s.watchLoop(ctx)

		for _, dir := range []string{s.cfg.Content.PostsDir, s.cfg.Content.AuthorsDir} {
			walkErr := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() {
					return w.Add(path)
				}
				return nil
			})
			if walkErr != nil && !os.IsNotExist(walkErr) {
				err = walkErr
				return
			}
		}
	})
	return err
}

func (s *Server) watchLoop(ctx context.Context) {
	s.log.Info().Msg("watching for file changes")
	debounce := newDebouncer(200 * time.Millisecond)
	defer debounce.stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				debounce.arm()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn().Err(err).Msg("watcher error")
		case <-debounce.C():
			ctx2, cancel := context.WithTimeout(ctx, 10*time.Second)
			if err := s.rebuild(ctx2); err != nil {
				s.log.Error().Err(err).Msg("rebuild error")
			}
			cancel()
		}
	}
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan string, 8)

	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseConns, ch)
		close(ch)
		s.sseMu.Unlock()
	}()
	fmt.Fprintf(w, "data: %s\n\n", "hello")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcastSSE(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	metas, err := s.idx.ListPosts(index.ListOptions{
		Sort:         s.cfg.Site.SortMode,
		Page:         pageParam(r),
		Size:         20,
		IncludeDraft: true,
	})
	if err != nil {
		http.Error(w, "feed query error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, s.feedView(metas))
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	slug := strings.Trim(strings.TrimPrefix(r.URL.Path, "/posts/"), "/")
	s.mu.RLock()
	p, ok := s.posts[slug]
	s.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}

	src, err := os.ReadFile(p.Body.SourcePath)
	if err != nil {
		http.Error(w, "read source error", http.StatusInternalServerError)
		return
	}
	_, body, fmErr := ingest.ParseFrontMatter(src)
	if fmErr != nil {
		body = src
	}
	htmlBytes, err := s.md.Render(body)
	if err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	m := p.Meta
	view := map[string]any{
		"slug":        m.Slug,
		"title":       m.Title,
		"description": m.Description,
		"category":    m.Category,
		"excerpt":     m.Excerpt,
		"pubDate":     m.PubDate,
		"heroImage":   m.HeroImage,
		"draft":       m.Draft,
		"authors":     m.DisplayAuthors(s.lookupAuthor),
		"readMinutes": readtime.EstimateHTML(string(htmlBytes)),
		"html":        string(htmlBytes),
	}
	if !m.UpdatedDate.IsZero() {
		view["updatedDate"] = m.UpdatedDate
	}
	writeJSON(w, view)
}

func (s *Server) handleAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := s.idx.ListAuthors()
	if err != nil {
		http.Error(w, "authors query error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, authors)
}

func (s *Server) handleAuthor(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/authors/"), "/")
	a, err := s.idx.GetAuthor(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, a)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.idx.ListCategories()
	if err != nil {
		http.Error(w, "categories query error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, cats)
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	cat := strings.Trim(strings.TrimPrefix(r.URL.Path, "/categories/"), "/")
	metas, err := s.idx.ListByCategory(cat, index.ListOptions{
		Page:         pageParam(r),
		Size:         20,
		IncludeDraft: true,
	})
	if err != nil {
		http.Error(w, "category query error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, s.feedView(metas))
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	m := manifest.Build(s.cfg.Content.PostsDir, s.cfg.Content.AuthorsDir)
	if err := m.Verify(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/yaml; charset=utf-8")
	_ = m.WriteYAML(w)
}

func (s *Server) lookupAuthor(id string) (content.AuthorEntity, bool) {
	s.mu.RLock()
	a, ok := s.authors[id]
	s.mu.RUnlock()
	return a, ok
}

func (s *Server) feedView(metas []content.PostMeta) []map[string]any {
	out := make([]map[string]any, 0, len(metas))
	for _, m := range metas {
		out = append(out, map[string]any{
			"slug":     m.Slug,
			"title":    m.Title,
			"category": m.Category,
			"excerpt":  m.Excerpt,
			"pubDate":  m.PubDate,
			"draft":    m.Draft,
			"authors":  m.DisplayAuthors(s.lookupAuthor),
		})
	}
	return out
}

func pageParam(r *http.Request) int {
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		fmt.Sscanf(v, "%d", &page)
	}
	return page
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
