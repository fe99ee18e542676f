// internal/storage/gridfs.go
package storage

import (
	"io"

	"blogswamp/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ImageStore persists uploaded display images in a GridFS bucket,
// keyed by caller-assigned string IDs so user and blog documents can
// reference them directly.
type ImageStore struct {
	bucket *gridfs.Bucket
}

func NewImageStore(bucket *gridfs.Bucket) *ImageStore {
	return &ImageStore{bucket: bucket}
}

// Upload stores one image blob under the given ID
func (s *ImageStore) Upload(id, filename, contentType string, source io.Reader) error {
	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType})
	if err := s.bucket.UploadFromStreamWithID(id, filename, source, opts); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "Failed to store image", err)
	}
	return nil
}

// Open returns a reader over the image blob and its content type. The
// caller closes the reader.
func (s *ImageStore) Open(id string) (io.ReadCloser, string, error) {
	stream, err := s.bucket.OpenDownloadStream(id)
	if err != nil {
		if err == gridfs.ErrFileNotFound {
			return nil, "", utils.NewAppError(utils.ErrNotFound, "Image not found: "+id, nil)
		}
		return nil, "", utils.NewAppError(utils.ErrDatabase, "Failed to open image", err)
	}

	contentType := "application/octet-stream"
	if file := stream.GetFile(); file != nil && file.Metadata != nil {
		var meta struct {
			ContentType string `bson:"contentType"`
		}
		if err := bson.Unmarshal(file.Metadata, &meta); err == nil && meta.ContentType != "" {
			contentType = meta.ContentType
		}
	}

	return stream, contentType, nil
}

// Delete removes the image blob. Deleting a missing image is not an
// error; the referencing document may already have moved on.
func (s *ImageStore) Delete(id string) error {
	err := s.bucket.Delete(id)
	if err != nil && err != gridfs.ErrFileNotFound {
		return utils.NewAppError(utils.ErrDatabase, "Failed to delete image", err)
	}
	return nil
}
