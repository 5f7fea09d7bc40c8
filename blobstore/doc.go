// Package blobstore abstracts where survey data lives.
//
// Point-cloud captures from a dive are stored as immutable blobs: on the
// local filesystem next to the project, in memory for tests, or in object
// storage (see the s3 and minio sub-packages) when surveys are processed off
// the boat. Wrap a remote store in a CachingStore when running pairwise
// cascades: every group's blob is opened once per partner, and the cache
// turns the repeats into memory reads. The registration core never touches
// storage directly; it consumes cloud.Loader values built on top of a Store.
package blobstore
