package journal

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/jarida/core"
)

// Entry is one diary entry, owned by exactly one student. Entries are
// immutable once written; the aggregator only ever reads them.
type Entry struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Emotion   string    `json:"emotion,omitempty"`
	Content   Content   `json:"content"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewEntry contains information needed to create a new Entry.
type NewEntry struct {
	Title   string  `json:"title" validate:"required"`
	Emotion string  `json:"emotion"`
	Content Content `json:"content"`
}

func (ne *NewEntry) Validate(validate *validator.Validate) error {
	ne.Title = core.CleanString(ne.Title)
	ne.Emotion = core.CleanString(ne.Emotion, true /* lower */)
	return validate.Struct(ne)
}
