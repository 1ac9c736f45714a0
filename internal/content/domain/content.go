// Package domain defines the read-only content collaborator boundary.
// Content items are authored and owned by the surrounding platform; this
// subsystem only reads their body and cultural sensitivity metadata.
package domain

import (
	"time"
)

// ContentType identifies the kind of content item being syndicated.
type ContentType string

const (
	ContentTypeStory      ContentType = "story"
	ContentTypeMediaAsset ContentType = "media_asset"
	ContentTypeGallery    ContentType = "gallery"
)

// IsValid reports whether the content type is one of the supported kinds.
func (t ContentType) IsValid() bool {
	switch t {
	case ContentTypeStory, ContentTypeMediaAsset, ContentTypeGallery:
		return true
	}
	return false
}

// SensitivityLevel is the content item's own cultural sensitivity
// classification, assigned by the platform's cultural governance process.
// Levels form a total order: public < community < restricted.
type SensitivityLevel string

const (
	SensitivityPublic     SensitivityLevel = "public"
	SensitivityCommunity  SensitivityLevel = "community"
	SensitivityRestricted SensitivityLevel = "restricted"
)

// sensitivityRank maps each level to its position in the total order.
var sensitivityRank = map[SensitivityLevel]int{
	SensitivityPublic:     0,
	SensitivityCommunity:  1,
	SensitivityRestricted: 2,
}

// Rank returns the level's position in the total order. Unknown levels rank
// above restricted so that malformed data always fails closed.
func (l SensitivityLevel) Rank() int {
	if rank, ok := sensitivityRank[l]; ok {
		return rank
	}
	return len(sensitivityRank)
}

// StricterThan reports whether l requires a higher permission ceiling than other.
func (l SensitivityLevel) StricterThan(other SensitivityLevel) bool {
	return l.Rank() > other.Rank()
}

// IsValid reports whether the level is a known sensitivity classification.
func (l SensitivityLevel) IsValid() bool {
	_, ok := sensitivityRank[l]
	return ok
}

// ContentItem is the platform-owned content record as seen by this subsystem.
// All fields are read-only here.
type ContentItem struct {
	ContentType      ContentType
	ContentID        string
	Title            string
	Summary          string
	Body             string
	MediaURLs        []string
	ViewCount        int64
	ShareCount       int64
	SensitivityLevel SensitivityLevel
	UpdatedAt        time.Time
}
