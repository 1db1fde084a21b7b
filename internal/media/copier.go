package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/roach88/splice/internal/schema"
)

// DefaultHTTPTimeout bounds a single download.
const DefaultHTTPTimeout = 30 * time.Second

// Copier copies referenced media into Dir and points clips at the copies.
//
// The copy is named after the last element of the URL. When a file of that
// name already exists in Dir it is reused, so two URLs sharing a base name
// both end up on the first copy.
type Copier struct {
	Dir    string
	Client *resty.Client
	Logger *slog.Logger
}

// NewCopier returns a Copier with an HTTP client bounded by timeout.
func NewCopier(dir string, timeout time.Duration) *Copier {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	client := resty.New()
	client.SetDisableWarn(true)
	client.SetTimeout(timeout)
	client.SetRetryCount(2)
	return &Copier{Dir: dir, Client: client}
}

// CopyResult records what happened to one URL.
type CopyResult struct {
	URL    string `json:"url"`
	Path   string `json:"path,omitempty"`
	Reused bool   `json:"reused,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Copy fetches every distinct URL of c and returns a relinked copy of c.
// A URL that cannot be fetched is logged and reported, and its clips keep
// their original reference.
func (cp *Copier) Copy(ctx context.Context, c schema.Composition) (schema.Composition, []CopyResult, error) {
	src, ok := c.(schema.ClipSource)
	if !ok {
		if clip, isClip := c.(*schema.Clip); isClip {
			src = schema.ClipList{clip}
		} else {
			return nil, nil, schema.NewInvalidArgumentError("copy-media", "cannot copy media of %T", c)
		}
	}

	dir, err := filepath.Abs(cp.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("copy-media: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("copy-media: %w", err)
	}

	logger := cp.logger()
	local := make(map[string]string)
	var results []CopyResult

	for _, u := range URLs(src) {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		res := cp.copyOne(ctx, dir, u)
		if res.Error != "" {
			logger.Warn("media copy failed", "url", u, "error", res.Error)
		} else {
			logger.Debug("media copied", "url", u, "path", res.Path, "reused", res.Reused)
			local[u] = res.Path
		}
		results = append(results, res)
	}

	out, err := edit(c, func(clip *schema.Clip) error {
		if clip.MediaReference.IsMissing() {
			return nil
		}
		if p, ok := local[clip.MediaReference.TargetURL]; ok {
			clip.MediaReference.TargetURL = p
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return out, results, nil
}

func (cp *Copier) copyOne(ctx context.Context, dir, rawURL string) CopyResult {
	res := CopyResult{URL: rawURL}

	u, err := url.Parse(rawURL)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	var name string
	switch u.Scheme {
	case "", "file":
		name = filepath.Base(u.Path)
	case "http", "https":
		name = path.Base(u.Path)
	default:
		res.Error = fmt.Sprintf("unsupported scheme %q", u.Scheme)
		return res
	}
	if name == "" || name == "." || name == "/" {
		res.Error = "url has no file name"
		return res
	}

	res.Path = filepath.Join(dir, name)
	if _, err := os.Stat(res.Path); err == nil {
		res.Reused = true
		return res
	}

	if u.Scheme == "http" || u.Scheme == "https" {
		err = cp.download(ctx, rawURL, res.Path)
	} else {
		err = copyFile(u.Path, res.Path)
	}
	if err != nil {
		res.Path = ""
		res.Error = err.Error()
		return res
	}
	return res
}

func (cp *Copier) download(ctx context.Context, rawURL, dest string) error {
	client := cp.Client
	if client == nil {
		client = NewCopier(cp.Dir, 0).Client
	}
	resp, err := client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(rawURL)
	if err != nil {
		return fmt.Errorf("download %s: %w", rawURL, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		return fmt.Errorf("download %s: %s", rawURL, resp.Status())
	}
	return writeAtomic(dest, body)
}

func copyFile(src, dest string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	return writeAtomic(dest, f)
}

// writeAtomic streams r into a temporary file next to dest and renames it
// into place, so a failed copy never leaves a partial file behind.
func writeAtomic(dest string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".splice-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

func (cp *Copier) logger() *slog.Logger {
	if cp.Logger != nil {
		return cp.Logger
	}
	return slog.Default()
}
