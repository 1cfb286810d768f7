package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blogplatform/internal/apperr"
)

const gridfsPrefix = "gridfs/"

// GridFSStorage хранит файлы в MongoDB GridFS; Path = "gridfs/<ObjectID>".
type GridFSStorage struct {
	client *mongo.Client
	bucket *gridfs.Bucket
	limits Limits
}

func NewGridFSStorage(ctx context.Context, uri, database, bucketName string, limits Limits) (*GridFSStorage, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	bucket, err := gridfs.NewBucket(client.Database(database), options.GridFSBucket().SetName(bucketName))
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create GridFSBucket: %w", err)
	}
	return &GridFSStorage{client: client, bucket: bucket, limits: limits}, nil
}

func (s *GridFSStorage) Save(_ context.Context, u Upload) (*Stored, error) {
	if err := Validate(u, s.limits); err != nil {
		return nil, err
	}
	metadata := bson.M{
		"kind":        string(u.Kind),
		"mime_type":   u.MimeType,
		"uploaded_at": time.Now(),
	}
	stream, err := s.bucket.OpenUploadStream(u.Filename, options.GridFSUpload().SetMetadata(metadata))
	if err != nil {
		return nil, apperr.Wrap(err, "gridfs upload failed")
	}

	size, err := limitedCopy(stream, u.Body, s.limits.maxFor(u.Kind))
	if err != nil {
		_ = stream.Abort()
		return nil, apperr.Wrap(err, "gridfs copy failed")
	}
	if err := stream.Close(); err != nil {
		return nil, apperr.Wrap(err, "gridfs close failed")
	}

	id := stream.FileID.(primitive.ObjectID).Hex()
	return &Stored{
		Filename:     id + ext(u.Filename),
		OriginalName: u.Filename,
		MimeType:     u.MimeType,
		Size:         size,
		Path:         gridfsPrefix + id,
		URL:          "/uploads/" + gridfsPrefix + id,
	}, nil
}

func (s *GridFSStorage) Open(_ context.Context, path string) (io.ReadCloser, error) {
	oid, err := objectID(path)
	if err != nil {
		return nil, err
	}
	stream, err := s.bucket.OpenDownloadStream(oid)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, apperr.NotFound("File not found")
	}
	if err != nil {
		return nil, apperr.Wrap(err, "gridfs download failed")
	}
	return stream, nil
}

func (s *GridFSStorage) Delete(_ context.Context, path string) error {
	if path == "" || !strings.Contains(path, gridfsPrefix) {
		return nil
	}
	oid, err := objectID(path)
	if err != nil {
		return err
	}
	if err := s.bucket.Delete(oid); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
		return apperr.Wrap(err, "gridfs delete failed")
	}
	return nil
}

func (s *GridFSStorage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func objectID(path string) (primitive.ObjectID, error) {
	i := strings.LastIndex(path, gridfsPrefix)
	if i < 0 {
		return primitive.NilObjectID, apperr.Validation("Invalid file path")
	}
	oid, err := primitive.ObjectIDFromHex(path[i+len(gridfsPrefix):])
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("Invalid file path")
	}
	return oid, nil
}
