package corpus

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/time/rate"

	"github.com/cantuslab/cantus/internal/notation"
	"github.com/cantuslab/cantus/internal/score"
	"github.com/cantuslab/cantus/internal/utils"
)

// DefaultPattern matches the corpus notation files, compressed or not.
const DefaultPattern = "**/*.tiny*"

// Library loads tiny notation sources from a corpus directory or from
// remote URLs.
type Library struct {
	root    string
	client  *resty.Client
	limiter *rate.Limiter
}

// NewLibrary creates a corpus library rooted at dir.
func NewLibrary(dir string) *Library {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 15 * time.Second
	retryClient.Logger = nil

	client := resty.New().
		SetTimeout(30 * time.Second).
		SetHeader("User-Agent", "cantus-corpus/1.0")
	client.SetTransport(retryClient.HTTPClient.Transport)

	return &Library{
		root:    dir,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

// Find walks the corpus and returns relative paths matching the doublestar
// pattern, sorted for stable output.
func (l *Library) Find(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern: %q", pattern)
	}

	var (
		mu      sync.Mutex
		matches []string
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(l.root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if ok, _ := doublestar.Match(pattern, rel); ok {
			mu.Lock()
			matches = append(matches, rel)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus: %w", err)
	}

	sort.Strings(matches)
	return matches, nil
}

// Load reads and parses a corpus file by its relative path. Gzip-compressed
// sources are decompressed transparently.
func (l *Library) Load(relPath string) (*score.Part, error) {
	path, err := l.resolve(relPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}

	return l.parse(data, relPath)
}

// Fetch downloads and parses a notation source from a URL.
func (l *Library) Fetch(ctx context.Context, url string) (*score.Part, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	resp, err := l.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode())
	}

	return l.parse(resp.Body(), url)
}

// parse sniffs the payload, decompresses if needed, and parses notation.
func (l *Library) parse(data []byte, source string) (*score.Part, error) {
	kind := mimetype.Detect(data)

	if kind.Is("application/gzip") || kind.Is("application/x-gzip") {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", source, err)
		}
		defer zr.Close()
		data, err = io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", source, err)
		}
		kind = mimetype.Detect(data)
	}

	if !kind.Is("text/plain") {
		return nil, fmt.Errorf("%s: expected notation text, got %s", source, kind.String())
	}
	if err := utils.ValidateNotation(string(data)); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	part, err := notation.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return part, nil
}

// resolve joins a relative path onto the corpus root, refusing escapes.
func (l *Library) resolve(relPath string) (string, error) {
	if relPath == "" {
		return "", fmt.Errorf("path required")
	}
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes corpus root: %q", relPath)
	}
	return filepath.Join(l.root, clean), nil
}
