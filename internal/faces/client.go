// Package faces is a thin client over the face recognition service
// (AWS Rekognition). It maps SDK shapes onto small result types and
// never retries.
package faces

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/kozaktomas/face-orchestrator/internal/metrics"
)

// API is the subset of *rekognition.Client used by Client.
type API interface {
	rekognition.ListFacesAPIClient
	CompareFaces(ctx context.Context, params *rekognition.CompareFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.CompareFacesOutput, error)
	CreateCollection(ctx context.Context, params *rekognition.CreateCollectionInput, optFns ...func(*rekognition.Options)) (*rekognition.CreateCollectionOutput, error)
	DescribeCollection(ctx context.Context, params *rekognition.DescribeCollectionInput, optFns ...func(*rekognition.Options)) (*rekognition.DescribeCollectionOutput, error)
	IndexFaces(ctx context.Context, params *rekognition.IndexFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.IndexFacesOutput, error)
	SearchFacesByImage(ctx context.Context, params *rekognition.SearchFacesByImageInput, optFns ...func(*rekognition.Options)) (*rekognition.SearchFacesByImageOutput, error)
}

// Client is safe for concurrent use.
type Client struct {
	api API
}

func New(api API) *Client {
	return &Client{api: api}
}

func toSDKImage(img Image) (*types.Image, error) {
	if len(img.Bytes) > 0 {
		return &types.Image{Bytes: img.Bytes}, nil
	}
	if img.S3 != nil && img.S3.Bucket != "" && img.S3.Key != "" {
		return &types.Image{S3Object: &types.S3Object{
			Bucket: aws.String(img.S3.Bucket),
			Name:   aws.String(img.S3.Key),
		}}, nil
	}
	return nil, errors.New("image has neither bytes nor an object reference")
}

// isNoFaceError reports whether the service rejected an image because it
// contains no detectable face. The service signals this with an
// InvalidParameterException; all other parameters are validated before the call.
func isNoFaceError(err error) bool {
	var invalid *types.InvalidParameterException
	return errors.As(err, &invalid)
}

// Compare matches the largest face in source against every face in target.
// Zero faces on either side is a result with no matches, not an error.
func (c *Client) Compare(ctx context.Context, source, target Image, threshold float32) (*CompareResult, error) {
	src, err := toSDKImage(source)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	tgt, err := toSDKImage(target)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	out, err := c.api.CompareFaces(ctx, &rekognition.CompareFacesInput{
		SourceImage:         src,
		TargetImage:         tgt,
		SimilarityThreshold: aws.Float32(threshold),
	})
	metrics.ObserveRemoteCall("rekognition", "CompareFaces", err)
	if err != nil {
		if isNoFaceError(err) {
			return &CompareResult{Matches: []FaceMatch{}}, nil
		}
		return nil, fmt.Errorf("comparing faces: %w", err)
	}

	result := &CompareResult{
		Matches:        make([]FaceMatch, 0, len(out.FaceMatches)),
		UnmatchedCount: len(out.UnmatchedFaces),
	}
	for _, m := range out.FaceMatches {
		match := FaceMatch{Similarity: aws.ToFloat32(m.Similarity)}
		if m.Face != nil && m.Face.BoundingBox != nil {
			match.Left = aws.ToFloat32(m.Face.BoundingBox.Left)
			match.Top = aws.ToFloat32(m.Face.BoundingBox.Top)
		}
		result.Matches = append(result.Matches, match)
	}
	return result, nil
}

func (c *Client) CreateCollection(ctx context.Context, collectionID string) (*CreatedCollection, error) {
	out, err := c.api.CreateCollection(ctx, &rekognition.CreateCollectionInput{
		CollectionId: aws.String(collectionID),
	})
	metrics.ObserveRemoteCall("rekognition", "CreateCollection", err)
	if err != nil {
		return nil, fmt.Errorf("creating collection %s: %w", collectionID, err)
	}
	return &CreatedCollection{
		ARN:              aws.ToString(out.CollectionArn),
		StatusCode:       aws.ToInt32(out.StatusCode),
		FaceModelVersion: aws.ToString(out.FaceModelVersion),
	}, nil
}

func (c *Client) DescribeCollection(ctx context.Context, collectionID string) (*CollectionInfo, error) {
	out, err := c.api.DescribeCollection(ctx, &rekognition.DescribeCollectionInput{
		CollectionId: aws.String(collectionID),
	})
	metrics.ObserveRemoteCall("rekognition", "DescribeCollection", err)
	if err != nil {
		return nil, fmt.Errorf("describing collection %s: %w", collectionID, err)
	}
	return &CollectionInfo{
		ARN:              aws.ToString(out.CollectionARN),
		FaceCount:        aws.ToInt64(out.FaceCount),
		FaceModelVersion: aws.ToString(out.FaceModelVersion),
		CreatedAt:        aws.ToTime(out.CreationTimestamp),
	}, nil
}

// IndexFace adds every face found in the referenced object to the collection.
// The service reads the object itself; the image is never downloaded here.
func (c *Client) IndexFace(ctx context.Context, collectionID string, ref S3Ref) (*IndexResult, error) {
	img, err := toSDKImage(Image{S3: &ref})
	if err != nil {
		return nil, err
	}

	externalID := ExternalImageID(ref.Key)
	out, err := c.api.IndexFaces(ctx, &rekognition.IndexFacesInput{
		CollectionId:        aws.String(collectionID),
		Image:               img,
		ExternalImageId:     aws.String(externalID),
		DetectionAttributes: []types.Attribute{types.AttributeAll},
	})
	metrics.ObserveRemoteCall("rekognition", "IndexFaces", err)
	if err != nil {
		return nil, fmt.Errorf("indexing %s/%s into %s: %w", ref.Bucket, ref.Key, collectionID, err)
	}

	result := &IndexResult{
		FaceIDs:         make([]string, 0, len(out.FaceRecords)),
		ExternalImageID: externalID,
		Unindexed:       len(out.UnindexedFaces),
	}
	for _, rec := range out.FaceRecords {
		if rec.Face == nil {
			continue
		}
		result.FaceIDs = append(result.FaceIDs, aws.ToString(rec.Face.FaceId))
	}
	if len(result.FaceIDs) > 0 {
		result.FaceID = result.FaceIDs[0]
	}
	return result, nil
}

// SearchByImage returns up to maxFaces collection faces similar to the
// largest face in img. An empty collection or an image without a face
// yields an empty slice.
func (c *Client) SearchByImage(ctx context.Context, collectionID string, img Image, threshold float32, maxFaces int32) ([]SearchMatch, error) {
	sdkImg, err := toSDKImage(img)
	if err != nil {
		return nil, err
	}

	out, err := c.api.SearchFacesByImage(ctx, &rekognition.SearchFacesByImageInput{
		CollectionId:       aws.String(collectionID),
		Image:              sdkImg,
		FaceMatchThreshold: aws.Float32(threshold),
		MaxFaces:           aws.Int32(maxFaces),
	})
	metrics.ObserveRemoteCall("rekognition", "SearchFacesByImage", err)
	if err != nil {
		if isNoFaceError(err) {
			return []SearchMatch{}, nil
		}
		return nil, fmt.Errorf("searching collection %s: %w", collectionID, err)
	}

	matches := make([]SearchMatch, 0, len(out.FaceMatches))
	for _, m := range out.FaceMatches {
		match := SearchMatch{Similarity: aws.ToFloat32(m.Similarity)}
		if m.Face != nil {
			match.FaceID = aws.ToString(m.Face.FaceId)
			match.ExternalImageID = aws.ToString(m.Face.ExternalImageId)
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// ListFaces drains every page of the collection. pageSize is only a hint
// for the page length and never bounds the total.
func (c *Client) ListFaces(ctx context.Context, collectionID string, pageSize int32) ([]string, error) {
	input := &rekognition.ListFacesInput{CollectionId: aws.String(collectionID)}
	if pageSize > 0 {
		input.MaxResults = aws.Int32(pageSize)
	}
	paginator := rekognition.NewListFacesPaginator(c.api, input)

	ids := []string{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		metrics.ObserveRemoteCall("rekognition", "ListFaces", err)
		if err != nil {
			return nil, fmt.Errorf("listing faces in %s: %w", collectionID, err)
		}
		for _, f := range page.Faces {
			ids = append(ids, aws.ToString(f.FaceId))
		}
	}
	return ids, nil
}
