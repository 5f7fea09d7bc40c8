// Package s3 provides an Amazon S3 backed blobstore.Store.
//
// Range requests are used for partial reads, so probing a capture's header
// does not download the whole blob.
package s3
