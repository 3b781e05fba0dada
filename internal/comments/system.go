package comments

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/chorus/pkg/pagination"
)

// System defines the public contract for comment domain operations.
type System interface {
	Handler() *Handler

	// Insert stores one new comment per text for videoID in a single transaction.
	// Texts are not deduplicated against existing rows.
	Insert(ctx context.Context, videoID string, texts []string) ([]Comment, error)

	// AnnotateNext claims the oldest unannotated comment, annotates it with fn,
	// and commits. Returns ErrNoneUnannotated when nothing is left to claim.
	AnnotateNext(ctx context.Context, fn AnnotateFunc) (*Comment, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Comment], error)

	Find(ctx context.Context, id uuid.UUID) (*Comment, error)
	Summarize(ctx context.Context, videoID string) (*Summary, error)
}
