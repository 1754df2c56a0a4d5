package corpus

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpusFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeGzipFile(t *testing.T, root, rel, content string) {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	writeCorpusFile(t, root, "bach/melody.tiny", "c4 d e")
	writeCorpusFile(t, root, "folk/tune.tiny", "g4 a b")
	writeCorpusFile(t, root, "folk/notes.txt", "not notation")
	writeGzipFile(t, root, "bach/chorale.tiny.gz", "c4 e g")

	library := NewLibrary(root)

	all, err := library.Find("")
	require.NoError(t, err)
	assert.Equal(t, []string{"bach/chorale.tiny.gz", "bach/melody.tiny", "folk/tune.tiny"}, all)

	bach, err := library.Find("bach/*.tiny")
	require.NoError(t, err)
	assert.Equal(t, []string{"bach/melody.tiny"}, bach)

	nested, err := library.Find("**/*.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"folk/notes.txt"}, nested)
}

func TestFindInvalidPattern(t *testing.T) {
	library := NewLibrary(t.TempDir())
	_, err := library.Find("[")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeCorpusFile(t, root, "melody.tiny", "tinyNotation: 4/4 c4 d e r g")

	library := NewLibrary(root)
	part, err := library.Load("melody.tiny")
	require.NoError(t, err)
	assert.Equal(t, "4/4", part.TimeSignature)
	assert.Len(t, part.Notes(), 4)
}

func TestLoadGzip(t *testing.T) {
	root := t.TempDir()
	writeGzipFile(t, root, "chorale.tiny.gz", "c4 e g c'")

	library := NewLibrary(root)
	part, err := library.Load("chorale.tiny.gz")
	require.NoError(t, err)
	assert.Len(t, part.Notes(), 4)
}

func TestLoadErrors(t *testing.T) {
	root := t.TempDir()
	writeCorpusFile(t, root, "bad.tiny", "c4 !!")
	require.NoError(t, os.WriteFile(filepath.Join(root, "blob.tiny"), []byte{0x89, 'P', 'N', 'G', 0, 0, 0}, 0o644))

	library := NewLibrary(root)

	_, err := library.Load("missing.tiny")
	assert.Error(t, err)

	_, err = library.Load("bad.tiny")
	assert.Error(t, err)

	_, err = library.Load("blob.tiny")
	assert.Error(t, err)

	_, err = library.Load("")
	assert.Error(t, err)

	_, err = library.Load("../outside.tiny")
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("tinyNotation: c4 d e"))
	}))
	defer srv.Close()

	library := NewLibrary(t.TempDir())
	part, err := library.Fetch(context.Background(), srv.URL+"/melody.tiny")
	require.NoError(t, err)
	assert.Len(t, part.Notes(), 3)
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	library := NewLibrary(t.TempDir())
	_, err := library.Fetch(context.Background(), srv.URL+"/missing.tiny")
	assert.Error(t, err)
}
