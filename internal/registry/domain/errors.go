package domain

import (
	"github.com/storyweave/syndication/internal/errors"
)

// Destination site registry errors.
var (
	// ErrSiteNotFound indicates a destination site with the specified slug or ID was not found.
	ErrSiteNotFound = errors.Wrap(errors.ErrNotFound, "destination site not found")

	// ErrSiteAlreadyExists indicates a destination site with the same slug is already registered.
	ErrSiteAlreadyExists = errors.Wrap(errors.ErrConflict, "destination site already exists")
)
