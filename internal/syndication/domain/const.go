// Package domain defines the syndication consent and capability token domain models.
// A consent record is the authoritative grant of read-only access for one
// (content item, destination site) pair; capability tokens are opaque bearer
// credentials bound to a consent and never outlive it.
package domain

import (
	contentDomain "github.com/storyweave/syndication/internal/content/domain"
)

// ConsentStatus represents the lifecycle state of a consent record.
// Transitions: pending -> active (explicit approval or trusted-site
// auto-approval), active -> revoked (one-way, terminal), active -> expired
// (lazy, once the configured TTL elapses).
type ConsentStatus string

const (
	ConsentStatusPending ConsentStatus = "pending"
	ConsentStatusActive  ConsentStatus = "active"
	ConsentStatusRevoked ConsentStatus = "revoked"
	ConsentStatusExpired ConsentStatus = "expired"
)

// PermissionLevel is the cultural sensitivity ceiling a consent is allowed to
// expose. It shares the total order of content sensitivity levels:
// public < community < restricted.
type PermissionLevel string

const (
	PermissionLevelPublic     PermissionLevel = "public"
	PermissionLevelCommunity  PermissionLevel = "community"
	PermissionLevelRestricted PermissionLevel = "restricted"
)

// permissionRank maps each level to its position in the total order.
var permissionRank = map[PermissionLevel]int{
	PermissionLevelPublic:     0,
	PermissionLevelCommunity:  1,
	PermissionLevelRestricted: 2,
}

// IsValid reports whether the level is a known permission level.
func (l PermissionLevel) IsValid() bool {
	_, ok := permissionRank[l]
	return ok
}

// Covers reports whether a consent at this level may expose content at the
// given sensitivity. The comparison is a strict total-order check with no
// field-level exceptions: unknown permission levels rank below public so that
// malformed grants always fail closed.
func (l PermissionLevel) Covers(sensitivity contentDomain.SensitivityLevel) bool {
	rank, ok := permissionRank[l]
	if !ok {
		return false
	}
	return rank >= sensitivity.Rank()
}

// AccessOutcome classifies the result of a gateway content request for the audit trail.
type AccessOutcome string

const (
	AccessOutcomeGranted              AccessOutcome = "granted"
	AccessOutcomeDeniedInvalidToken   AccessOutcome = "denied_invalid_token"
	AccessOutcomeDeniedRevoked        AccessOutcome = "denied_revoked"
	AccessOutcomeDeniedCulturalPolicy AccessOutcome = "denied_cultural_policy"
)
