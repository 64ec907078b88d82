package issue

import "time"

// Port is the interface that must be implemented by issue adapters.
type Port interface {

	// ListOpenItems returns one page of open issues/pull-requests
	// (in the host's default ordering). An empty slice means that there is
	// no more page to fetch.
	ListOpenItems(page int, perPage int) ([]*Item, error)

	// ListCommentsSince returns the comments posted on the given item
	// at or after the given time.
	ListCommentsSince(number int, since time.Time) ([]*Comment, error)

	// ListLabelEvents returns the "label added" events of the given item's
	// history.
	ListLabelEvents(number int) ([]*LabelEvent, error)

	// AddLabel adds the given label to the given item.
	AddLabel(number int, label string) error

	// RemoveLabel removes the given label from the given item
	// (the adapter is responsible for transport-escaping the label name).
	RemoveLabel(number int, label string) error

	// AddComment posts a comment on the given item.
	AddComment(number int, body string) error

	// Close transitions the given item to the closed state.
	Close(number int) error
}
