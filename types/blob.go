package types

import (
	"github.com/florianilch/oairequest/request"
)

// DefaultContentType is assumed for binary responses without a Content-Type header.
const DefaultContentType = "application/octet-stream"

// Blob is opaque binary content together with its media type.
type Blob struct {
	Data        []byte
	ContentType string
}

// Upload is a file sent as a multipart part.
type Upload struct {
	Filename string
	Content  Blob
}

// DecodeBlob takes the raw response bytes as they are. The content type comes from the
// response header.
func DecodeBlob(resp request.Response) (Blob, error) {
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = DefaultContentType
	}
	return Blob{Data: resp.Body, ContentType: contentType}, nil
}
