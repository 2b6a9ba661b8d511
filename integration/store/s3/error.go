package s3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

var (
	// ErrInvalidConfig is returned when Bucket or Region is missing.
	ErrInvalidConfig = errors.New("s3: bucket and region are required")

	// ErrPaginatorNil is returned when a mock client is used without a
	// paginator factory.
	ErrPaginatorNil = errors.New("s3: paginator is nil, provide WithPaginatorFactory for mock clients")
)

// isNoSuchKey reports whether err means the object is absent.
func isNoSuchKey(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey"
}

// classifyError wraps S3 failures with the failed operation while keeping
// context errors and API codes inspectable.
func classifyError(err error, operation string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("s3 %s: %w", operation, err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("s3 %s failed (code: %s): %w", operation, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("s3 %s failed: %w", operation, err)
}
