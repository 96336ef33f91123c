// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

import "time"

// Face service constants
const (
	// DefaultSimilarityThreshold is the minimum similarity (percent) for a
	// compare or search match to be reported
	DefaultSimilarityThreshold = 70

	// DefaultSearchMaxFaces is the maximum number of matches returned by a collection search
	DefaultSearchMaxFaces = 2

	// DefaultListPageSize is the page size hint sent with ListFaces; it never bounds the total
	DefaultListPageSize = 2
)

// Object store constants
const (
	// DefaultPresignTTL is how long a presigned GET URL stays valid
	DefaultPresignTTL = 5 * time.Hour

	// S3Scheme prefixes image references that point into the object store (s3://bucket/key)
	S3Scheme = "s3://"
)

// Image constants
const (
	// MaxImageBytes is the largest raw image the face service accepts inline (5 MiB)
	MaxImageBytes = 5 * 1024 * 1024

	// MaxImageSize is the maximum dimension (width or height) used when an
	// image has to be shrunk to fit MaxImageBytes
	MaxImageSize = 1920
)

// HTTP constants
const (
	// ImageFetchTimeout bounds a single download of a URL-referenced image
	ImageFetchTimeout = 30 * time.Second

	// RequestTimeout bounds a whole API request, including batch loads
	RequestTimeout = 5 * time.Minute
)
