package minio

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/minio/minio-go/v7"

	"github.com/jmgilman/go/target/errors"
)

// classify maps a MinIO error response to an error code.
func classify(err error) errors.ErrorCode {
	if err == nil {
		return errors.CodeUnknown
	}

	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return errors.CodeNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return errors.CodePermissionDenied
	case "InvalidObjectName", "XMinioInvalidObjectName", "InvalidBucketName":
		return errors.CodeInvalidInput
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return errors.CodeNotFound
	case http.StatusForbidden:
		return errors.CodePermissionDenied
	}

	return errors.Classify(err)
}

// translate wraps a MinIO error with its code and binds it to op and path.
// Context cancellation and already classified errors pass through.
func translate(op, p string, err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var e errors.Error
	if errors.As(err, &e) {
		return err
	}
	return errors.PathError(classify(err), op, p, err)
}
