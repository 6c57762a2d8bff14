package drive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DownloadOptions controls how vendor files are pulled from Google Drive.
type DownloadOptions struct {
	FolderID    string
	DownloadDir string
}

// Downloader wraps Service to download the vendor workbooks from one folder.
type Downloader struct {
	service *Service
}

func NewDownloader(s *Service) *Downloader {
	return &Downloader{service: s}
}

// DownloadFolder downloads all non-trashed xlsx files from the given Drive
// folder into DownloadDir, a few at a time, and returns the local paths.
func (d *Downloader) DownloadFolder(ctx context.Context, opts DownloadOptions) ([]string, error) {
	if opts.DownloadDir == "" {
		return nil, fmt.Errorf("download dir is required")
	}
	if err := os.MkdirAll(opts.DownloadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	files, err := d.service.ListFiles(opts.FolderID)
	if err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	paths := make([]string, 0, len(files))
	for _, f := range files {
		if strings.ToLower(filepath.Ext(f.Name)) != ".xlsx" {
			continue
		}
		localPath := filepath.Join(opts.DownloadDir, f.Name)
		paths = append(paths, localPath)

		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			out, err := os.Create(localPath)
			if err != nil {
				return fmt.Errorf("failed to create local file %s: %w", localPath, err)
			}
			if err := d.service.DownloadFile(f.ID, out); err != nil {
				out.Close()
				return fmt.Errorf("failed to download %s: %w", f.Name, err)
			}
			return out.Close()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
