package ingestion

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveSource downloads ingestible files from a Google Drive folder.
type DriveSource struct {
	svc *drive.Service
}

// NewDriveSource builds a Drive client from an OAuth2 access token.
func NewDriveSource(ctx context.Context, accessToken string) (*DriveSource, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("google drive access token not configured")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}
	return &DriveSource{svc: svc}, nil
}

// FetchFolder downloads every supported file in the folder to destDir and
// returns the local paths. Google-native documents (docs, sheets) are skipped;
// only binary files with a supported extension are fetched.
func (d *DriveSource) FetchFolder(ctx context.Context, folderID, destDir string) ([]string, error) {
	query := fmt.Sprintf("'%s' in parents and trashed = false", folderID)
	list, err := d.svc.Files.List().
		Context(ctx).
		Q(query).
		Fields("files(id, name, mimeType)").
		PageSize(100).
		Do()
	if err != nil {
		return nil, fmt.Errorf("listing drive folder %s: %w", folderID, err)
	}

	var paths []string
	for _, f := range list.Files {
		if strings.HasPrefix(f.MimeType, "application/vnd.google-apps") {
			continue
		}
		if !Supported(f.Name) {
			continue
		}
		path, err := d.download(ctx, f.Id, filepath.Join(destDir, f.Name))
		if err != nil {
			return nil, fmt.Errorf("downloading %s: %w", f.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (d *DriveSource) download(ctx context.Context, fileID, dest string) (string, error) {
	resp, err := d.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", err
	}
	return dest, nil
}
