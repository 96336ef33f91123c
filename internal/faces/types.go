package faces

import "time"

// S3Ref points at an image object the face service reads directly.
type S3Ref struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// Image is either inline bytes or an object reference. Bytes wins when both are set.
type Image struct {
	Bytes []byte
	S3    *S3Ref
}

// FaceMatch is one target face matched against the source face.
type FaceMatch struct {
	Left       float32 `json:"left"`
	Top        float32 `json:"top"`
	Similarity float32 `json:"similarity"`
}

type CompareResult struct {
	Matches        []FaceMatch `json:"matches"`
	UnmatchedCount int         `json:"unmatched_count"`
}

type CreatedCollection struct {
	ARN              string `json:"arn"`
	StatusCode       int32  `json:"status_code"`
	FaceModelVersion string `json:"face_model_version,omitempty"`
}

type CollectionInfo struct {
	ARN              string    `json:"arn"`
	FaceCount        int64     `json:"face_count"`
	FaceModelVersion string    `json:"face_model_version"`
	CreatedAt        time.Time `json:"created_at"`
}

// IndexResult describes the outcome of indexing one image. FaceID is the
// first indexed face, empty when no face was detected.
type IndexResult struct {
	FaceID          string   `json:"face_id"`
	FaceIDs         []string `json:"face_ids"`
	ExternalImageID string   `json:"external_image_id"`
	Unindexed       int      `json:"unindexed"`
}

type SearchMatch struct {
	FaceID          string  `json:"face_id"`
	ExternalImageID string  `json:"external_image_id"`
	Similarity      float32 `json:"similarity"`
}
