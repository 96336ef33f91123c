package orchestrator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/kozaktomas/face-orchestrator/internal/constants"
	"github.com/kozaktomas/face-orchestrator/internal/faces"
	"github.com/kozaktomas/face-orchestrator/internal/imaging"
	"github.com/kozaktomas/face-orchestrator/internal/metrics"
)

// maxDownloadBytes caps URL downloads before normalization shrinks them.
const maxDownloadBytes = 64 << 20

// ParseS3Ref splits "s3://bucket/key" into its parts.
func ParseS3Ref(ref string) (faces.S3Ref, error) {
	rest, ok := strings.CutPrefix(ref, constants.S3Scheme)
	if !ok {
		return faces.S3Ref{}, validationError("%q is not an %s reference", ref, constants.S3Scheme)
	}
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return faces.S3Ref{}, validationError("%q must have the form %sbucket/key", ref, constants.S3Scheme)
	}
	return faces.S3Ref{Bucket: bucket, Key: key}, nil
}

// fetchImage loads an http(s) URL or s3://bucket/key reference fully into
// memory and normalizes it for the face service.
func (o *Orchestrator) fetchImage(ctx context.Context, ref string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(ref, constants.S3Scheme) {
		s3ref, perr := ParseS3Ref(ref)
		if perr != nil {
			return nil, perr
		}
		data, err = o.store.Download(ctx, s3ref.Bucket, s3ref.Key)
	} else {
		data, err = o.download(ctx, ref)
	}
	if err != nil {
		return nil, classify(err)
	}

	normalized, err := imaging.Normalize(data, o.settings.MaxImageBytes)
	if err != nil {
		return nil, validationError("image %s: %v", ref, err)
	}
	return normalized, nil
}

func (o *Orchestrator) download(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, validationError("image reference %q must be an http(s) URL or %sbucket/key", rawURL, constants.S3Scheme)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ImageFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrTransport, err)
	}

	resp, err := o.http.Do(req)
	metrics.ObserveRemoteCall("http", "GetImage", err)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %w", ErrTransport, u.Redacted(), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: image %s", ErrNotFound, u.Redacted())
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: fetching %s: status %d", ErrTransport, u.Redacted(), resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrTransport, u.Redacted(), err)
	}
	if len(data) > maxDownloadBytes {
		return nil, validationError("image %s exceeds %d bytes", u.Redacted(), maxDownloadBytes)
	}
	return data, nil
}
