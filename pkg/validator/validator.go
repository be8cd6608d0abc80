// Package validator holds input validation shared by the service layer.
package validator

import (
	"fmt"
	"mime"
	"regexp"
	"strings"
)

const (
	minEmailLength    = 3
	maxEmailLength    = 255
	minBucketNameLen  = 3
	maxBucketNameLen  = 63
	maxContentTypeLen = 255
	maxKeyPrefixLen   = 1024

	errEmailEmptyFmt           = "email cannot be empty"
	errEmailLengthFmt          = "email must be between %d and %d characters"
	errEmailInvalidFmt         = "invalid email format"
	errBucketNameLengthFmt     = "bucket name must be between %d and %d characters"
	errBucketNameInvalidFmt    = "bucket name must contain only lowercase letters, digits, dots and hyphens"
	errContentTypeMaxLengthFmt = "content type must not exceed %d characters"
	errContentTypeInvalidFmt   = "invalid content type"
	errKeyPrefixMaxLengthFmt   = "key prefix must not exceed %d characters"
	errKeyPrefixBackslashFmt   = "key prefix cannot contain backslashes"
	errKeyPrefixTraversalFmt   = "key prefix cannot contain path traversal"
)

var (
	emailRegex      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	bucketNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]*[a-z0-9]$`)
)

func Email(email string) error {
	if email == "" {
		return fmt.Errorf(errEmailEmptyFmt)
	}
	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return fmt.Errorf(errEmailLengthFmt, minEmailLength, maxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf(errEmailInvalidFmt)
	}
	return nil
}

func BucketName(name string) error {
	if len(name) < minBucketNameLen || len(name) > maxBucketNameLen {
		return fmt.Errorf(errBucketNameLengthFmt, minBucketNameLen, maxBucketNameLen)
	}
	if !bucketNameRegex.MatchString(name) {
		return fmt.Errorf(errBucketNameInvalidFmt)
	}
	return nil
}

func ContentType(contentType string) error {
	if contentType == "" {
		return nil
	}
	if len(contentType) > maxContentTypeLen {
		return fmt.Errorf(errContentTypeMaxLengthFmt, maxContentTypeLen)
	}
	if _, _, err := mime.ParseMediaType(contentType); err != nil {
		return fmt.Errorf(errContentTypeInvalidFmt)
	}
	return nil
}

func KeyPrefix(prefix string) error {
	if len(prefix) > maxKeyPrefixLen {
		return fmt.Errorf(errKeyPrefixMaxLengthFmt, maxKeyPrefixLen)
	}
	if strings.Contains(prefix, `\`) {
		return fmt.Errorf(errKeyPrefixBackslashFmt)
	}
	for _, segment := range strings.Split(prefix, "/") {
		if segment == ".." {
			return fmt.Errorf(errKeyPrefixTraversalFmt)
		}
	}
	return nil
}
