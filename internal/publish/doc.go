// Package publish uploads the artifacts of a finished run to an S3
// compatible object store.
package publish
