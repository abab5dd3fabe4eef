// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/genai"
)

// GCSService is an artifact service backed by Google Cloud Storage.
type GCSService struct {
	client *storage.Client
	bucket *storage.BucketHandle
}

var _ Service = (*GCSService)(nil)

// NewGCSService creates a new [GCSService] instance with the given bucket name.
func NewGCSService(ctx context.Context, bucketName string) (*GCSService, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &GCSService{
		client: client,
		bucket: client.Bucket(bucketName),
	}, nil
}

// fileHasUserNamespace checks if the filename has a user namespace.
func (a *GCSService) fileHasUserNamespace(filename string) bool {
	return strings.HasPrefix(filename, "user:")
}

// blobName constructs the blob name in GCS.
func (a *GCSService) blobName(appName, userID, sessionID, filename string, version int) string {
	if a.fileHasUserNamespace(filename) {
		return fmt.Sprintf("%s/%s/user/%s/%d", appName, userID, filename, version)
	}
	return fmt.Sprintf("%s/%s/%s/%s/%d", appName, userID, sessionID, filename, version)
}

// SaveArtifact implements [Service].
func (a *GCSService) SaveArtifact(ctx context.Context, appName, userID, sessionID, filename string, artifact *genai.Part) (int, error) {
	versions, err := a.ListVersions(ctx, appName, userID, sessionID, filename)
	if err != nil {
		return 0, err
	}
	version := len(versions)

	blob := a.bucket.Object(a.blobName(appName, userID, sessionID, filename, version))

	w := blob.NewWriter(ctx)
	w.ContentType = artifact.InlineData.MIMEType
	if _, err := io.Copy(w, bytes.NewReader(artifact.InlineData.Data)); err != nil {
		w.Close()
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}

	return version, nil
}

// LoadArtifact implements [Service].
func (a *GCSService) LoadArtifact(ctx context.Context, appName, userID, sessionID, filename string, version int) (*genai.Part, error) {
	if version < 0 {
		versions, err := a.ListVersions(ctx, appName, userID, sessionID, filename)
		if err != nil {
			return nil, err
		}
		if len(versions) == 0 {
			return nil, nil
		}
		version = versions[len(versions)-1]
	}

	blob := a.bucket.Object(a.blobName(appName, userID, sessionID, filename, version))

	r, err := blob.NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	attrs, err := blob.Attrs(ctx)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return genai.NewPartFromBytes(data, attrs.ContentType), nil
}

// ListArtifactKeys implements [Service].
func (a *GCSService) ListArtifactKeys(ctx context.Context, appName, userID, sessionID string) ([]string, error) {
	eg, egCtx := errgroup.WithContext(ctx)

	collect := func(prefix string, out *[]string) func() error {
		return func() error {
			it := a.bucket.Objects(egCtx, &storage.Query{Prefix: prefix})
			for {
				objAttrs, err := it.Next()
				if err != nil {
					if errors.Is(err, iterator.Done) {
						return nil
					}
					return err
				}
				if pairs := strings.Split(objAttrs.Name, "/"); len(pairs) == 5 {
					*out = append(*out, pairs[3])
				}
			}
		}
	}

	var sessionNames, userNames []string
	eg.Go(collect(fmt.Sprintf("%s/%s/%s/", appName, userID, sessionID), &sessionNames))
	eg.Go(collect(fmt.Sprintf("%s/%s/user/", appName, userID), &userNames))

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	filenames := []string{}
	for _, name := range append(sessionNames, userNames...) {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		filenames = append(filenames, name)
	}
	slices.Sort(filenames)

	return filenames, nil
}

// ListVersions implements [Service].
func (a *GCSService) ListVersions(ctx context.Context, appName, userID, sessionID, filename string) ([]int, error) {
	prefix := a.blobName(appName, userID, sessionID, filename, 0)
	prefix = strings.TrimSuffix(prefix, "0")

	it := a.bucket.Objects(ctx, &storage.Query{Prefix: prefix})

	versions := []int{}
	for {
		objAttrs, err := it.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, err
		}

		parts := strings.Split(objAttrs.Name, "/")
		version, err := strconv.Atoi(parts[len(parts)-1])
		if err != nil {
			continue
		}
		versions = append(versions, version)
	}
	slices.Sort(versions)

	return versions, nil
}

// DeleteArtifact implements [Service].
func (a *GCSService) DeleteArtifact(ctx context.Context, appName, userID, sessionID, filename string) error {
	versions, err := a.ListVersions(ctx, appName, userID, sessionID, filename)
	if err != nil {
		return err
	}

	for _, version := range versions {
		blob := a.bucket.Object(a.blobName(appName, userID, sessionID, filename, version))
		if err := blob.Delete(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the storage client.
func (a *GCSService) Close() error {
	return a.client.Close()
}
