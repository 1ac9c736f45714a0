package domain

import (
	"github.com/storyweave/syndication/internal/errors"
)

// Content collaborator errors.
var (
	// ErrContentNotFound indicates the content item does not exist on the platform.
	ErrContentNotFound = errors.Wrap(errors.ErrNotFound, "content item not found")
)
