package designgen

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	DefaultThumbnailSize = 256
	maxImageBytes        = 20 << 20
)

var ErrMalformedImage = errors.New("malformed image reference")

// imageProcessor checks provider output and derives the preview used in the cart.
type imageProcessor struct {
	thumbnailSize int
}

// process returns the image reference to store and a PNG thumbnail data URI.
// HTTPS URLs are passed through without a thumbnail.
func (p imageProcessor) process(ref string) (string, string, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case strings.HasPrefix(ref, "data:"):
	case strings.HasPrefix(ref, "https://"):
		if u, err := url.Parse(ref); err != nil || u.Host == "" {
			return "", "", fmt.Errorf("%w: invalid url", ErrMalformedImage)
		}
		return ref, "", nil
	default:
		return "", "", fmt.Errorf("%w: unsupported scheme", ErrMalformedImage)
	}

	data, err := decodeDataURI(ref)
	if err != nil {
		return "", "", err
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrMalformedImage, err)
	}

	size := p.thumbnailSize
	if size <= 0 {
		size = DefaultThumbnailSize
	}
	thumb := imaging.Fit(img, size, size, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return "", "", fmt.Errorf("encode thumbnail: %w", err)
	}
	return ref, "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// decodeDataURI decodes a data:image/<fmt>;base64,<payload> reference.
func decodeDataURI(ref string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing payload", ErrMalformedImage)
	}
	mime, encoding, _ := strings.Cut(header, ";")
	if !strings.HasPrefix(mime, "image/") {
		return nil, fmt.Errorf("%w: media type %q", ErrMalformedImage, mime)
	}
	if encoding != "base64" {
		return nil, fmt.Errorf("%w: expected base64 encoding", ErrMalformedImage)
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > maxImageBytes {
		return nil, fmt.Errorf("%w: image too large", ErrMalformedImage)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImage, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedImage)
	}
	return data, nil
}
