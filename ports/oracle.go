package ports

import (
	"context"

	"tribunal/domain/verdict"
)

// Oracle is the external judgment service. Implementations perform one
// outbound call per invocation, never retry, and return either a fully
// validated judgment or a typed failure (core.ErrOracleUnavailable /
// core.ErrOracleResponseInvalid). Persistence is the caller's concern.
type Oracle interface {
	Judge(ctx context.Context, systemRole, briefing string) (*verdict.Judgment, error)
}

// TextExtractor extracts plain text from raw document content. Used by the
// background document pipeline for binary formats.
type TextExtractor interface {
	Extract(ctx context.Context, content, fileType string) (string, error)
}
