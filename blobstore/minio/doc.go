// Package minio provides a MinIO (S3-compatible) backed blobstore.Store.
package minio
