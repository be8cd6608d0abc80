package validator

import (
	"strings"
	"testing"
)

func TestEmail(t *testing.T) {
	valid := []string{"a@b.co", "alice.smith+tag@example.com"}
	for _, email := range valid {
		if err := Email(email); err != nil {
			t.Errorf("Email(%q) = %v, want nil", email, err)
		}
	}

	invalid := []string{"", "no-at-sign", "@example.com", "a@b", strings.Repeat("x", 250) + "@example.com"}
	for _, email := range invalid {
		if err := Email(email); err == nil {
			t.Errorf("Email(%q) = nil, want error", email)
		}
	}
}

func TestBucketName(t *testing.T) {
	valid := []string{"data", "my-bucket.prod", "a1b"}
	for _, name := range valid {
		if err := BucketName(name); err != nil {
			t.Errorf("BucketName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "ab", "UPPER", "ends-with-dash-", "-starts", strings.Repeat("a", 64)}
	for _, name := range invalid {
		if err := BucketName(name); err == nil {
			t.Errorf("BucketName(%q) = nil, want error", name)
		}
	}
}

func TestContentType(t *testing.T) {
	if err := ContentType(""); err != nil {
		t.Errorf("empty content type should be allowed, got %v", err)
	}
	if err := ContentType("application/json"); err != nil {
		t.Errorf("ContentType(application/json) = %v, want nil", err)
	}
	if err := ContentType("not a mime type;;;"); err == nil {
		t.Error("malformed content type accepted")
	}
}

func TestKeyPrefix(t *testing.T) {
	valid := []string{"", "tenant-a", "tenant-a/projects"}
	for _, prefix := range valid {
		if err := KeyPrefix(prefix); err != nil {
			t.Errorf("KeyPrefix(%q) = %v, want nil", prefix, err)
		}
	}

	invalid := []string{`a\b`, "a/../b", strings.Repeat("p", 1025)}
	for _, prefix := range invalid {
		if err := KeyPrefix(prefix); err == nil {
			t.Errorf("KeyPrefix(%q) = nil, want error", prefix)
		}
	}
}
