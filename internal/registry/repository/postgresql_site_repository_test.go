package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/storyweave/syndication/internal/errors"
	registryDomain "github.com/storyweave/syndication/internal/registry/domain"
)

func newSQLMock(t *testing.T) (*PostgreSQLSiteRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() }) //nolint:errcheck

	return NewPostgreSQLSiteRepository(db), mock
}

func TestPostgreSQLSiteRepository_Create(t *testing.T) {
	repo, mock := newSQLMock(t)

	site := &registryDomain.DestinationSite{
		ID:        uuid.Must(uuid.NewV7()),
		Slug:      "justicehub",
		Name:      "JusticeHub",
		Status:    registryDomain.SiteStatusActive,
		TrustTier: registryDomain.TrustTierStandard,
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO destination_sites").
		WithArgs(site.ID, site.Slug, site.Name, site.Status, site.TrustTier, site.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), site)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLSiteRepository_Create_DuplicateSlug(t *testing.T) {
	repo, mock := newSQLMock(t)

	site := &registryDomain.DestinationSite{
		ID:        uuid.Must(uuid.NewV7()),
		Slug:      "justicehub",
		Name:      "JusticeHub",
		Status:    registryDomain.SiteStatusActive,
		TrustTier: registryDomain.TrustTierStandard,
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO destination_sites").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), site)
	assert.ErrorIs(t, err, registryDomain.ErrSiteAlreadyExists)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestPostgreSQLSiteRepository_GetBySlug(t *testing.T) {
	repo, mock := newSQLMock(t)

	siteID := uuid.Must(uuid.NewV7())
	createdAt := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "slug", "name", "status", "trust_tier", "created_at"}).
		AddRow(siteID, "justicehub", "JusticeHub", "active", "trusted", createdAt)

	mock.ExpectQuery("SELECT id, slug, name, status, trust_tier, created_at").
		WithArgs("justicehub").
		WillReturnRows(rows)

	site, err := repo.GetBySlug(context.Background(), "justicehub")
	require.NoError(t, err)

	assert.Equal(t, siteID, site.ID)
	assert.Equal(t, "justicehub", site.Slug)
	assert.Equal(t, registryDomain.SiteStatusActive, site.Status)
	assert.True(t, site.AutoApproves())
}

func TestPostgreSQLSiteRepository_GetBySlug_NotFound(t *testing.T) {
	repo, mock := newSQLMock(t)

	mock.ExpectQuery("SELECT id, slug, name, status, trust_tier, created_at").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug", "name", "status", "trust_tier", "created_at"}))

	site, err := repo.GetBySlug(context.Background(), "nope")
	assert.Nil(t, site)
	assert.ErrorIs(t, err, registryDomain.ErrSiteNotFound)
}

func TestPostgreSQLSiteRepository_UpdateStatus(t *testing.T) {
	repo, mock := newSQLMock(t)
	siteID := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE destination_sites SET status").
			WithArgs(registryDomain.SiteStatusSuspended, siteID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(context.Background(), siteID, registryDomain.SiteStatusSuspended)
		assert.NoError(t, err)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec("UPDATE destination_sites SET status").
			WithArgs(registryDomain.SiteStatusSuspended, siteID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(context.Background(), siteID, registryDomain.SiteStatusSuspended)
		assert.ErrorIs(t, err, registryDomain.ErrSiteNotFound)
	})
}
