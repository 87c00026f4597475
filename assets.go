package godeck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentDownloads bounds the asset-resolution fan-out.
const maxConcurrentDownloads = 8

// Default mapping for locally-served assets: any URL whose path contains
// "app_data/" resolves under the /app_data directory.
const (
	defaultLocalPrefix = "app_data/"
	defaultLocalRoot   = "/app_data"
)

// AssetOptions configures how remote picture sources are resolved.
type AssetOptions struct {
	// Client is used for downloads. Defaults to http.DefaultClient.
	Client *http.Client
	// LocalPrefix is a URL path prefix recognized as locally hosted.
	// URLs whose path contains this prefix are rewritten to a filesystem
	// path under LocalRoot without a network round trip. Empty means the
	// default "app_data/" mapping.
	LocalPrefix string
	// LocalRoot is the filesystem directory the LocalPrefix maps to.
	// Empty means /app_data when LocalPrefix is also empty.
	LocalRoot string
	// Logger receives non-fatal resolution failures. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

func (o AssetOptions) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return http.DefaultClient
}

func (o AssetOptions) localMapping() (prefix, root string) {
	if o.LocalPrefix == "" {
		return defaultLocalPrefix, defaultLocalRoot
	}
	return o.LocalPrefix, o.LocalRoot
}

func (o AssetOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// ResolveAssets returns a copy of doc in which every remote picture source
// has been resolved to a local file path where possible. Downloads into dir
// run concurrently as one batch. A failed download is logged and leaves that
// picture's source unresolved; synthesis later skips the shape. The input
// document is never mutated.
func ResolveAssets(ctx context.Context, doc *PresentationDocument, dir string, opts AssetOptions) (*PresentationDocument, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}

	out := cloneDocument(doc)

	var pending []*PictureModel
	for _, pic := range collectPictures(out) {
		if !pic.Source.Remote {
			continue
		}
		if !strings.HasPrefix(pic.Source.Path, "http://") && !strings.HasPrefix(pic.Source.Path, "https://") {
			// A remote flag on a non-URL path is treated as already local.
			pic.Source.Remote = false
			continue
		}
		if local, ok := rewriteLocalURL(pic.Source.Path, opts); ok {
			pic.Source.Path = local
			pic.Source.Remote = false
			continue
		}
		pending = append(pending, pic)
	}

	if len(pending) == 0 {
		return out, nil
	}

	log := opts.logger()
	client := opts.client()

	// Deduplicate so each distinct URL is fetched once.
	byURL := make(map[string][]*PictureModel)
	for _, pic := range pending {
		byURL[pic.Source.Path] = append(byURL[pic.Source.Path], pic)
	}

	var mu sync.Mutex
	resolved := make(map[string]string)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentDownloads)
	for rawURL := range byURL {
		rawURL := rawURL
		g.Go(func() error {
			local, err := downloadAsset(gctx, client, rawURL, dir)
			if err != nil {
				log.Warn("asset download failed, picture will be skipped",
					"url", rawURL, "error", err)
				return nil
			}
			mu.Lock()
			resolved[rawURL] = local
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for rawURL, pics := range byURL {
		local, ok := resolved[rawURL]
		if !ok {
			continue
		}
		for _, pic := range pics {
			pic.Source.Path = local
			pic.Source.Remote = false
		}
	}

	return out, nil
}

// rewriteLocalURL maps a URL that references the locally-served asset prefix
// to its filesystem path, avoiding a network round trip.
func rewriteLocalURL(rawURL string, opts AssetOptions) (string, bool) {
	prefix, root := opts.localMapping()
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	idx := strings.Index(u.Path, prefix)
	if idx < 0 {
		return "", false
	}
	rel := strings.TrimPrefix(u.Path[idx:], prefix)
	return filepath.Join(root, filepath.FromSlash(rel)), true
}

func downloadAsset(ctx context.Context, client *http.Client, rawURL, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s fetching %s", resp.Status, rawURL)
	}

	local := filepath.Join(dir, downloadFilename(rawURL, resp.Header.Get("Content-Type")))
	f, err := os.Create(local)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", local, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(local)
		return "", fmt.Errorf("failed to write %s: %w", local, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return local, nil
}

// downloadFilename picks a collision-free local name for a downloaded asset:
// a random identifier plus the extension from the URL path, or from the
// response content type when the URL has none.
func downloadFilename(rawURL, contentType string) string {
	ext := ""
	if u, err := url.Parse(rawURL); err == nil {
		ext = path.Ext(u.Path)
	}
	if ext == "" {
		switch {
		case strings.Contains(contentType, "jpeg"):
			ext = ".jpg"
		case strings.Contains(contentType, "gif"):
			ext = ".gif"
		case strings.Contains(contentType, "webp"):
			ext = ".webp"
		case strings.Contains(contentType, "bmp"):
			ext = ".bmp"
		default:
			ext = ".png"
		}
	}
	return uuid.NewString() + ext
}

// cloneDocument makes a copy of doc deep enough that asset resolution never
// mutates the caller's model. The global shape list is cloned once and shared
// by the result, preserving the resolve-once guarantee.
func cloneDocument(doc *PresentationDocument) *PresentationDocument {
	out := &PresentationDocument{
		Name:   doc.Name,
		Shapes: cloneShapes(doc.Shapes),
		Slides: make([]*SlideModel, len(doc.Slides)),
	}
	for i, slide := range doc.Slides {
		if slide == nil {
			continue
		}
		out.Slides[i] = &SlideModel{
			Background: slide.Background,
			Note:       slide.Note,
			Shapes:     cloneShapes(slide.Shapes),
		}
	}
	return out
}

func cloneShapes(shapes []ShapeModel) []ShapeModel {
	if shapes == nil {
		return nil
	}
	out := make([]ShapeModel, len(shapes))
	for i, shape := range shapes {
		if pic, ok := shape.(*PictureModel); ok {
			c := *pic
			out[i] = &c
			continue
		}
		out[i] = shape
	}
	return out
}

// collectPictures returns every picture shape in the document, global shapes
// included.
func collectPictures(doc *PresentationDocument) []*PictureModel {
	var pics []*PictureModel
	for _, shape := range doc.Shapes {
		if pic, ok := shape.(*PictureModel); ok {
			pics = append(pics, pic)
		}
	}
	for _, slide := range doc.Slides {
		if slide == nil {
			continue
		}
		for _, shape := range slide.Shapes {
			if pic, ok := shape.(*PictureModel); ok {
				pics = append(pics, pic)
			}
		}
	}
	return pics
}
