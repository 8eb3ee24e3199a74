package site

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/phrazzld/sitegen/internal/generation"
	"github.com/spf13/afero"
)

// Output file names.
const (
	IndexFile  = "index.html"
	StylesFile = "styles.css"
	ScriptFile = "app.js"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// baseDocument wraps a body fragment; %s is the fragment.
const baseDocument = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Generated site</title>
  <link rel="stylesheet" href="./` + StylesFile + `" />
</head>
<body>
%s

<script src="./` + ScriptFile + `" defer></script>
</body>
</html>
`

const (
	stylesLink = `<link rel="stylesheet" href="./` + StylesFile + `" />`
	scriptTag  = `<script src="./` + ScriptFile + `" defer></script>`
)

// ErrNilSite is returned when Write is called without a site.
var ErrNilSite = errors.New("site cannot be nil")

// File describes one written file.
type File struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Manifest lists the files produced by a single Write.
type Manifest struct {
	Dir   string `json:"dir"`
	Files []File `json:"files"`
}

// Writer writes sites into a single output directory.
type Writer struct {
	fs     afero.Fs
	dir    string
	logger *slog.Logger
	mu     sync.Mutex
}

// NewWriter creates a Writer rooted at dir on fs.
func NewWriter(fs afero.Fs, dir string, logger *slog.Logger) (*Writer, error) {
	if fs == nil {
		return nil, errors.New("filesystem cannot be nil")
	}
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("output directory cannot be empty")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Writer{
		fs:     fs,
		dir:    filepath.Clean(dir),
		logger: logger.With(slog.String("component", "site_writer")),
	}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Write stores s as index.html, styles.css and app.js. When clearFirst is set
// the directory is emptied before writing. Body fragments are wrapped in a
// base document; complete documents get the stylesheet and script references
// added when they lack them.
func (w *Writer) Write(s *generation.Site, clearFirst bool) (*Manifest, error) {
	if s == nil {
		return nil, ErrNilSite
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if clearFirst {
		if err := w.clearLocked(); err != nil {
			return nil, err
		}
	}

	if err := w.fs.MkdirAll(w.dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", w.dir, err)
	}

	index := fmt.Sprintf(baseDocument, s.HTML)
	if s.IsFullDocument() {
		index = linkAssets(s.HTML)
	}

	css := s.CSS
	if strings.TrimSpace(css) == "" {
		css = generation.EmptyCSS
	}
	js := s.JS
	if strings.TrimSpace(js) == "" {
		js = generation.EmptyJS
	}

	contents := []struct {
		name string
		body string
	}{
		{IndexFile, index},
		{StylesFile, css},
		{ScriptFile, js},
	}

	manifest := &Manifest{Dir: w.dir}
	for _, c := range contents {
		path := filepath.Join(w.dir, c.name)
		if err := afero.WriteFile(w.fs, path, []byte(c.body), filePerm); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		manifest.Files = append(manifest.Files, File{Name: c.name, Size: int64(len(c.body))})
	}

	w.logger.Info("Site files written",
		slog.String("dir", w.dir),
		slog.Int("file_count", len(manifest.Files)))

	return manifest, nil
}

// Clear removes every entry in the output directory. A missing directory is
// not an error.
func (w *Writer) Clear() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.clearLocked()
}

func (w *Writer) clearLocked() error {
	exists, err := afero.DirExists(w.fs, w.dir)
	if err != nil {
		return fmt.Errorf("failed to stat output directory %s: %w", w.dir, err)
	}
	if !exists {
		return nil
	}

	entries, err := afero.ReadDir(w.fs, w.dir)
	if err != nil {
		return fmt.Errorf("failed to list output directory %s: %w", w.dir, err)
	}
	for _, entry := range entries {
		path := filepath.Join(w.dir, entry.Name())
		if err := w.fs.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	w.logger.Debug("Output directory cleared",
		slog.String("dir", w.dir),
		slog.Int("removed", len(entries)))
	return nil
}

// HasIndex reports whether a non-empty index.html exists.
func (w *Writer) HasIndex() bool {
	info, err := w.fs.Stat(filepath.Join(w.dir, IndexFile))
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}

// FileSystem exposes the output directory for http.FileServer.
func (w *Writer) FileSystem() http.FileSystem {
	return afero.NewHttpFs(w.fs).Dir(w.dir)
}

// linkAssets makes sure a complete document references styles.css and app.js.
// The link goes before </head> and the script before </body>, falling back to
// the start and end of the document when those tags are missing.
func linkAssets(doc string) string {
	if !strings.Contains(doc, "./"+StylesFile) {
		doc = insertBefore(doc, "</head>", stylesLink, false)
	}
	if !strings.Contains(doc, "./"+ScriptFile) {
		doc = insertBefore(doc, "</body>", scriptTag, true)
	}
	return doc
}

// insertBefore inserts snippet before the first (or last) case-insensitive
// match of tag, prepending or appending it when tag is absent.
func insertBefore(doc, tag, snippet string, last bool) string {
	lower := strings.ToLower(doc)
	idx := strings.Index(lower, tag)
	if last {
		idx = strings.LastIndex(lower, tag)
	}
	if idx < 0 {
		if last {
			return doc + "\n" + snippet + "\n"
		}
		return snippet + "\n" + doc
	}
	return doc[:idx] + snippet + "\n" + doc[idx:]
}
