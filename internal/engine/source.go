package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

type sourceKind int

const (
	sourceLocal sourceKind = iota
	sourceRemote
)

type source struct {
	kind sourceKind
	path string // local path, or remote URL
	ext  string
}

// parseSource classifies uri and checks the file extension is decodable.
func parseSource(uri string) (source, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return source{}, ErrEmptyURI
	}

	var src source
	u, err := url.Parse(uri)
	switch {
	case err != nil || len(u.Scheme) <= 1:
		// plain path, or a Windows drive letter
		src = source{kind: sourceLocal, path: uri, ext: extOf(uri)}
	case u.Scheme == "file":
		src = source{kind: sourceLocal, path: u.Path, ext: extOf(u.Path)}
	case u.Scheme == "http" || u.Scheme == "https":
		src = source{kind: sourceRemote, path: uri, ext: extOf(u.Path)}
	default:
		return source{}, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}

	if src.ext != ".mp3" && src.ext != ".flac" {
		return source{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, src.ext)
	}
	return src, nil
}

func extOf(p string) string {
	return strings.ToLower(filepath.Ext(p))
}

// fetch downloads a remote source to a temporary file.
// The returned cleanup removes it.
func fetch(ctx context.Context, client *http.Client, src source) (string, func(), error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.path, nil)
	if err != nil {
		return "", nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("fetch %s: %s", src.path, resp.Status)
	}

	f, err := os.CreateTemp("", "musichub-*"+src.ext)
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.Remove(f.Name()) }

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return f.Name(), cleanup, nil
}
