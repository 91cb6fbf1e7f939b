package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/cenkalti/backoff/v4"
)

// Fetch errors.
var (
	ErrUnsupportedScheme = errors.New("unsupported uri scheme")
	ErrHTTPStatus        = errors.New("unexpected http status")
)

// isRemote reports whether uri needs the network.
func isRemote(uri string) bool {
	u, err := url.Parse(uri)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// fetch copies the media at uri into dst. Errors that cannot succeed on
// retry are wrapped with backoff.Permanent.
func (w *Workflow) fetch(ctx context.Context, uri string, dst io.Writer) (int64, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return 0, backoff.Permanent(fmt.Errorf("parse media uri: %w", err))
	}

	switch u.Scheme {
	case "http", "https":
		return w.fetchHTTP(ctx, uri, dst)
	case "file", "":
		p := u.Path
		if u.Scheme == "" {
			p = uri
		}
		f, err := w.source.Open(p)
		if errors.Is(err, fs.ErrNotExist) {
			return 0, backoff.Permanent(err)
		}
		if err != nil {
			return 0, err
		}
		defer f.Close()
		return io.Copy(dst, f)
	default:
		return 0, backoff.Permanent(fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme))
	}
}

func (w *Workflow) fetchHTTP(ctx context.Context, uri string, dst io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return 0, backoff.Permanent(err)
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return io.Copy(dst, resp.Body)
	case resp.StatusCode >= 400 && resp.StatusCode < 500 &&
		resp.StatusCode != http.StatusRequestTimeout && resp.StatusCode != http.StatusTooManyRequests:
		return 0, backoff.Permanent(fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status))
	default:
		return 0, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}
}

var unsafeChars = regexp.MustCompile(`[/\\:*?"<>|\x00-\x1f]+`)

// FileName builds "<sanitised title>_<id>.<ext>" for a track.
func FileName(title string, id int64, mediaURI string) string {
	name := unsafeChars.ReplaceAllString(title, "_")
	name = strings.Join(strings.Fields(name), " ")
	name = strings.Trim(name, ". ")
	if name == "" {
		name = "track"
	}

	ext := ".mp3"
	if u, err := url.Parse(mediaURI); err == nil {
		if e := strings.ToLower(path.Ext(u.Path)); e != "" && len(e) <= 5 {
			ext = e
		}
	}
	return name + "_" + strconv.FormatInt(id, 10) + ext
}
