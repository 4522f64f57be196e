// Package logo downloads outlet favicons and stores them as WebP files.
package logo

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"freepress/internal/model"
	"freepress/internal/similarity"

	"github.com/chai2010/webp"
)

// ErrNoDomain means the outlet has no usable website.
var ErrNoDomain = errors.New("logo: outlet has no website domain")

const defaultSource = "https://www.google.com/s2/favicons?domain=%s&sz=%d"

// Config holds logo fetcher settings.
type Config struct {
	Dir     string
	Quality int
	Size    int
	Timeout time.Duration
}

// Logo is one stored image.
type Logo struct {
	Path      string
	SourceURL string
}

type Fetcher struct {
	dir        string
	quality    int
	size       int
	source     string // printf template taking domain and size
	httpClient *http.Client
	encode     func(w io.Writer, m image.Image, opt *webp.Options) error
}

func NewFetcher(cfg Config) *Fetcher {
	quality := cfg.Quality
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	size := cfg.Size
	if size <= 0 {
		size = 128
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		dir = "./logos"
	}
	return &Fetcher{
		dir:        dir,
		quality:    quality,
		size:       size,
		source:     defaultSource,
		httpClient: &http.Client{Timeout: timeout},
		encode:     webp.Encode,
	}
}

// Fetch downloads the favicon for the outlet's domain and writes
// <dir>/<id>.webp.
func (f *Fetcher) Fetch(ctx context.Context, o model.Outlet) (Logo, error) {
	domain, ok := similarity.ExtractDomain(o.Website)
	if !ok {
		return Logo{}, ErrNoDomain
	}
	src := fmt.Sprintf(f.source, domain, f.size)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return Logo{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return Logo{}, fmt.Errorf("fetch logo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Logo{}, fmt.Errorf("logo status=%d body=%s", resp.StatusCode, string(b))
	}
	img, format, err := image.Decode(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return Logo{}, fmt.Errorf("decode image: %w", err)
	}

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return Logo{}, fmt.Errorf("create logo dir: %w", err)
	}
	outPath := filepath.Join(f.dir, o.ID+".webp")
	if err := f.write(outPath, img); err != nil {
		return Logo{}, err
	}
	b := img.Bounds()
	slog.Info("logo: saved", "id", o.ID, "domain", domain, "format", format, "width", b.Dx(), "height", b.Dy(), "path", outPath)
	return Logo{Path: outPath, SourceURL: src}, nil
}

// write encodes img to path. A partially written file is removed.
func (f *Fetcher) write(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create logo file: %w", err)
	}
	if err := f.encode(out, img, &webp.Options{Quality: float32(f.quality)}); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("encode webp: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close logo file: %w", err)
	}
	return nil
}
