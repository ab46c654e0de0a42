package upload

import (
	"errors"
	"mime/multipart"
	"net/textproto"
	"testing"
)

func videoHeader(size int64, contentType string) *multipart.FileHeader {
	h := &multipart.FileHeader{
		Filename: "clip.mp4",
		Header:   textproto.MIMEHeader{},
		Size:     size,
	}
	if contentType != "" {
		h.Header.Set("Content-Type", contentType)
	}
	return h
}

func TestPolicyCheck(t *testing.T) {
	policy := Policy{
		MaxBytes:     1 << 30,
		AllowedTypes: []string{"video/mp4"},
	}

	tests := []struct {
		name   string
		header *multipart.FileHeader
		reject bool
	}{
		{"valid mp4", videoHeader(5<<20, "video/mp4"), false},
		{"exactly at ceiling", videoHeader(1<<30, "video/mp4"), false},
		{"missing file", nil, true},
		{"over ceiling", videoHeader((1<<30)+1, "video/mp4"), true},
		{"missing content type", videoHeader(5<<20, ""), true},
		{"disallowed type", videoHeader(5<<20, "video/avi"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Check(tt.header)
			if tt.reject {
				var rejection *RejectionError
				if !errors.As(err, &rejection) {
					t.Fatalf("Check() = %v, want RejectionError", err)
				}
			} else if err != nil {
				t.Fatalf("Check() = %v, want nil", err)
			}
		})
	}
}

func TestThumbnailPolicy(t *testing.T) {
	policy := Policy{
		MaxBytes:     10 << 20,
		AllowedTypes: []string{"image/jpeg", "image/png"},
	}

	if err := policy.Check(videoHeader(1<<20, "image/png")); err != nil {
		t.Errorf("png should be accepted: %v", err)
	}
	if err := policy.Check(videoHeader(1<<20, "image/gif")); err == nil {
		t.Error("gif should be rejected")
	}
	if err := policy.Check(videoHeader((10<<20)+1, "image/jpeg")); err == nil {
		t.Error("oversize thumbnail should be rejected")
	}
}

func TestExtForMediaType(t *testing.T) {
	tests := []struct {
		mediaType string
		want      string
	}{
		{"video/mp4", ".mp4"},
		{"image/jpeg", ".jpg"},
		{"image/png", ".png"},
	}

	for _, tt := range tests {
		if got := ExtForMediaType(tt.mediaType); got != tt.want {
			t.Errorf("ExtForMediaType(%q) = %q, want %q", tt.mediaType, got, tt.want)
		}
	}
}
