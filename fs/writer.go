// Package fs writes extractions as markdown files.
package fs

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/distill"
	"gopkg.in/yaml.v3"
)

// URLToPath converts an article URL to a relative file path under a
// directory named after the host.
// Example: https://www.example.com/news/council-budget.html → example.com/news/council-budget.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", distill.Errorf(distill.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host == "" {
		return "", distill.Errorf(distill.EINVALID, "URL %q has no host", rawURL)
	}

	p := path.Clean("/" + u.Path)
	if p == "/" {
		return path.Join(host, "index.md"), nil
	}
	if strings.HasSuffix(u.Path, "/") {
		return path.Join(host, p, "index.md"), nil
	}
	p = strings.TrimSuffix(strings.TrimSuffix(p, ".html"), ".htm")
	return path.Join(host, p) + ".md", nil
}

type frontmatter struct {
	Source        string         `yaml:"source"`
	Title         string         `yaml:"title,omitempty"`
	Method        distill.Method `yaml:"method,omitempty"`
	Words         int            `yaml:"words"`
	LikelyArticle bool           `yaml:"likely_article"`
	Extracted     string         `yaml:"extracted"`
}

// FormatExtraction renders the extraction's markdown behind a YAML
// frontmatter block.
func FormatExtraction(e *distill.Extraction, now time.Time) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	if err := enc.Encode(frontmatter{
		Source:        e.URL,
		Title:         e.Title,
		Method:        e.Result.Method,
		Words:         e.Result.WordCount,
		LikelyArticle: e.Quality.LikelyArticle,
		Extracted:     now.Format("2006-01-02"),
	}); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	buf.WriteString("---\n\n")
	buf.WriteString(e.Result.Markdown)
	buf.WriteString("\n")
	return buf.String(), nil
}

// Ensure Writer implements distill.ExtractionWriter at compile time.
var _ distill.ExtractionWriter = (*Writer)(nil)

// Writer writes extractions as markdown files to a directory.
type Writer struct {
	baseDir string
	now     func() time.Time
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir, now: time.Now}
}

// WriteExtraction writes e to disk and returns the file path. The file is
// written beside its destination and renamed into place, so readers never
// see a partial file.
func (w *Writer) WriteExtraction(ctx context.Context, e *distill.Extraction) (string, error) {
	if e == nil {
		return "", distill.Errorf(distill.EINVALID, "extraction required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	relPath, err := URLToPath(e.URL)
	if err != nil {
		return "", err
	}
	content, err := FormatExtraction(e, w.now())
	if err != nil {
		return "", err
	}

	fullPath := filepath.Join(w.baseDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".distill-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return "", err
	}
	return fullPath, nil
}
