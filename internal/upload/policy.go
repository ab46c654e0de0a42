package upload

import (
	"fmt"
	"mime"
	"mime/multipart"
)

// Policy is the per-asset-kind upload acceptance policy: a size ceiling
// and a content-type allow-list. Check is a pure predicate over the
// declared request metadata; nothing is read from disk or network before
// it passes.
type Policy struct {
	MaxBytes     int64
	AllowedTypes []string
}

// RejectionError is a policy violation. Handlers map it to a 400.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return e.Reason
}

// Check validates the declared size and content type of a multipart file
// part against the policy.
func (p Policy) Check(header *multipart.FileHeader) error {
	if header == nil {
		return &RejectionError{Reason: "file is missing"}
	}

	if header.Size > p.MaxBytes {
		return &RejectionError{Reason: fmt.Sprintf("file exceeds the maximum allowed size of %d bytes", p.MaxBytes)}
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		return &RejectionError{Reason: "missing Content-Type for file"}
	}

	for _, allowed := range p.AllowedTypes {
		if contentType == allowed {
			return nil
		}
	}

	return &RejectionError{Reason: fmt.Sprintf("content type %s is not allowed", contentType)}
}

// ExtForMediaType maps a content type to a file extension, preferring
// the registered extension and falling back to common media types.
func ExtForMediaType(mediaType string) string {
	switch mediaType {
	case "video/mp4":
		return ".mp4"
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	}

	extensions, err := mime.ExtensionsByType(mediaType)
	if err == nil && len(extensions) > 0 {
		return extensions[0]
	}
	return ".bin"
}
