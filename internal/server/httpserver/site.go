package httpserver

import (
	"bytes"
	"net/http"
	"path"
	"strings"

	derrors "git.home.luguber.info/inful/aboutme/internal/foundation/errors"
	"git.home.luguber.info/inful/aboutme/internal/logfields"
	"git.home.luguber.info/inful/aboutme/internal/presentation"
)

const (
	entryDocument = "/index.html"
	noCache       = "no-cache, must-revalidate"
)

func siteFS(dir string) http.FileSystem {
	if dir == "" {
		return nil
	}
	return http.Dir(dir)
}

// handleSite serves a static asset when one exists at the path and the entry
// document otherwise, so client-side routes survive a reload. Assets answer
// GET and HEAD only; every other method gets the entry document.
func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	readOnly := r.Method == http.MethodGet || r.Method == http.MethodHead
	name := path.Clean("/" + r.URL.Path)
	if readOnly && name != "/" && s.serveStatic(w, r, name) {
		return
	}
	s.serveEntry(w, r)
}

// serveStatic reports whether name was a servable regular file.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request, name string) bool {
	if s.site == nil || hasHiddenSegment(name) {
		return false
	}
	f, err := s.site.Open(name)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()
	st, err := f.Stat()
	if err != nil || st.IsDir() {
		return false
	}
	http.ServeContent(w, r, st.Name(), st.ModTime(), f)
	return true
}

func (s *Server) serveEntry(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", noCache)
	if s.serveStatic(w, r, entryDocument) {
		return
	}
	s.renderShell(w, r)
}

// renderShell renders the portfolio on the server when no built front end is present.
func (s *Server) renderShell(w http.ResponseWriter, r *http.Request) {
	doc, err := s.opts.Store.Get(r.Context())
	if err != nil {
		s.logger.Warn("rendering error state", logfields.Error(err))
	}
	view := presentation.Build(presentation.FetchResult{Document: doc, Err: err})

	var buf bytes.Buffer
	if err := presentation.Render(&buf, view); err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, derrors.InternalError("failed to render page").WithCause(err).Build())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func hasHiddenSegment(name string) bool {
	for _, seg := range strings.Split(name, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

// addCacheControlHeaders wraps a handler to add appropriate Cache-Control headers for static assets.
func (s *Server) addCacheControlHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCacheControlForPath(w, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// setCacheControlForPath sets appropriate Cache-Control header based on file type.
func setCacheControlForPath(w http.ResponseWriter, p string) {
	if cc := determineCacheControl(p); cc != "" {
		w.Header().Set("Cache-Control", cc)
	}
}

// determineCacheControl returns the appropriate Cache-Control value for a path.
func determineCacheControl(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".css", ".js", ".woff", ".woff2", ".ttf", ".eot", ".otf":
		// bundler output is content hashed
		return "public, max-age=31536000, immutable"
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico":
		return "public, max-age=604800"
	case ".pdf", ".zip", ".tar", ".gz":
		return "public, max-age=86400"
	case ".json":
		return "public, max-age=300"
	case ".xml":
		return "public, max-age=3600"
	case ".html", "":
		return noCache
	}
	return ""
}
