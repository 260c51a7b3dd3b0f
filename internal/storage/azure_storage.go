package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// BlobStorage fetches image bytes from Azure Blob Storage when shared-key
// credentials are configured.
type BlobStorage struct {
	client *azblob.Client
}

// NewBlobStorage builds a shared-key Azure blob client for accountName.
func NewBlobStorage(accountName, accountKey string) (*BlobStorage, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &BlobStorage{client: client}, nil
}

// IsBlobURL reports whether rawURL points at an Azure blob endpoint.
func IsBlobURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(parsed.Host, ".blob.core.windows.net")
}

// Fetch downloads a blob addressed as
// https://<account>.blob.core.windows.net/<container>/<blob path>.
func (s *BlobStorage) Fetch(ctx context.Context, blobURL string) (Source, error) {
	parsed, err := url.Parse(blobURL)
	if err != nil {
		return nil, fmt.Errorf("invalid blob URL: %w", err)
	}

	trimmed := strings.TrimPrefix(parsed.Path, "/")
	containerName, blobName, ok := strings.Cut(trimmed, "/")
	if !ok || containerName == "" || blobName == "" {
		return nil, fmt.Errorf("blob URL %q must include container and blob path", blobURL)
	}

	resp, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading blob: %w", err)
	}

	return &memorySource{name: path.Base(blobName), data: data}, nil
}
