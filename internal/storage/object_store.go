package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/videoingest/backend/internal/models"
)

// ObjectStoreOptions holds the connection settings of the storage container
type ObjectStoreOptions struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Region        string
	Container     string
	PublicBaseURL string
}

// configured reports whether every credential needed to reach the container is present
func (o ObjectStoreOptions) configured() bool {
	return o.Endpoint != "" && o.AccessKey != "" && o.SecretKey != "" && o.Container != ""
}

// ObjectStore uploads artifacts to an S3-compatible container
type ObjectStore struct {
	client     *minio.Client
	container  string
	publicBase string
}

// NewObjectStore creates an ObjectStore. Missing credentials produce an unconfigured
// store rather than an error so that only publishing degrades.
func NewObjectStore(opts ObjectStoreOptions) (*ObjectStore, error) {
	if !opts.configured() {
		return &ObjectStore{container: opts.Container}, nil
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	publicBase := opts.PublicBaseURL
	if publicBase == "" {
		publicBase = strings.TrimRight(client.EndpointURL().String(), "/") + "/" + opts.Container
	}

	return &ObjectStore{
		client:     client,
		container:  opts.Container,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

// Configured reports whether the container can be reached at all
func (s *ObjectStore) Configured() bool {
	return s.client != nil
}

// Container returns the container name
func (s *ObjectStore) Container() string {
	return s.container
}

// Upload stores the local file under objectName and returns its durable URL
func (s *ObjectStore) Upload(ctx context.Context, objectName, localPath, contentType string) (string, error) {
	if !s.Configured() {
		return "", models.ErrStorageUnconfigured
	}

	_, err := s.client.FPutObject(ctx, s.container, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", objectName, err)
	}

	return s.URL(objectName), nil
}

// URL returns the durable URL of objectName
func (s *ObjectStore) URL(objectName string) string {
	return s.publicBase + "/" + url.PathEscape(objectName)
}
