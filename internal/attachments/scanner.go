package attachments

import (
	"context"

	"github.com/creatorlane/creatorlane-backend/pkg/enums"
)

// Scanner inspects an uploaded object and returns a verdict. Implementations
// wrap whatever engine the deployment uses; the service only consumes the
// verdict.
type Scanner interface {
	Scan(ctx context.Context, bucket, object string) (enums.ScanStatus, error)
}

// PassthroughScanner marks every object clean. Used when AV scanning is
// switched off via feature flag.
type PassthroughScanner struct{}

func (PassthroughScanner) Scan(ctx context.Context, bucket, object string) (enums.ScanStatus, error) {
	return enums.ScanStatusClean, nil
}
