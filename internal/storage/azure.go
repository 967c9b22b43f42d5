package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// AzureStorage is the Azure Blob Storage implementation of Storage.
// All blobs live in a single container.
type AzureStorage struct {
	client    *azblob.Client
	container string
}

// NewAzureStorage connects with the given connection string and ensures the
// container exists.
func NewAzureStorage(ctx context.Context, connString, container string) (*AzureStorage, error) {
	client, err := azblob.NewClientFromConnectionString(connString, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: azure client: %w", err)
	}
	if _, err := client.CreateContainer(ctx, container, nil); err != nil {
		if !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			return nil, fmt.Errorf("storage: create container %q: %w", container, err)
		}
	}
	return &AzureStorage{client: client, container: container}, nil
}

var _ Storage = (*AzureStorage)(nil)

func (s *AzureStorage) Put(ctx context.Context, name string, data io.Reader, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.UploadStream(ctx, s.container, name, data, &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return fmt.Errorf("storage: upload %q: %w", name, err)
	}
	return nil
}

func (s *AzureStorage) Get(ctx context.Context, name string) (*Object, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, name, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage: download %q: %w", name, err)
	}

	obj := &Object{Body: resp.Body, ContentType: "application/octet-stream"}
	if resp.ContentType != nil {
		obj.ContentType = *resp.ContentType
	}
	if resp.ContentLength != nil {
		obj.ContentLength = *resp.ContentLength
	}
	if resp.ETag != nil {
		obj.ETag = string(*resp.ETag)
	}
	return obj, nil
}

func (s *AzureStorage) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteBlob(ctx, s.container, name, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return fmt.Errorf("storage: delete %q: %w", name, err)
	}
	return nil
}
