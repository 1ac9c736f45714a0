package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	contentDomain "github.com/storyweave/syndication/internal/content/domain"
	"github.com/storyweave/syndication/internal/syndication/domain"
	"github.com/storyweave/syndication/internal/syndication/http/dto"
	"github.com/storyweave/syndication/internal/syndication/http/mocks"
	"github.com/storyweave/syndication/internal/syndication/usecase"
)

func setupConsentHandler(t *testing.T) (*ConsentHandler, *mocks.MockConsentUseCase, *mocks.MockRevocationUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	consentUseCase := &mocks.MockConsentUseCase{}
	revocationUseCase := &mocks.MockRevocationUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewConsentHandler(consentUseCase, revocationUseCase, logger), consentUseCase, revocationUseCase
}

func sampleConsent(status domain.ConsentStatus) *domain.Consent {
	return &domain.Consent{
		ID:                uuid.Must(uuid.NewV7()),
		ContentType:       contentDomain.ContentTypeStory,
		ContentID:         "S1",
		DestinationSiteID: uuid.Must(uuid.NewV7()),
		Status:            status,
		Permissions:       domain.Permissions{AllowFullContent: true},
		PermissionLevel:   domain.PermissionLevelCommunity,
		AttributionText:   "Story by Aunty M, Gadigal Country",
		CreatedAt:         time.Now().UTC(),
	}
}

func sampleCreateRequest() dto.CreateConsentRequest {
	return dto.CreateConsentRequest{
		ContentType:     "story",
		ContentID:       "S1",
		DestinationSlug: "justicehub",
		Permissions:     dto.PermissionsRequest{AllowFullContent: true},
		PermissionLevel: "community",
		AttributionText: "Story by Aunty M, Gadigal Country",
		RequestReason:   "community housing campaign",
	}
}

func TestConsentHandler_CreateHandler(t *testing.T) {
	t.Run("Success_Pending", func(t *testing.T) {
		handler, consentUseCase, _ := setupConsentHandler(t)

		consent := sampleConsent(domain.ConsentStatusPending)
		consentUseCase.On("CreateConsent", mock.Anything, mock.AnythingOfType("usecase.CreateConsentInput")).
			Return(&usecase.CreateConsentOutput{Consent: consent}, nil)

		c, w := createTestContext(http.MethodPost, "/v1/syndication/consent", sampleCreateRequest())
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.CreateConsentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, consent.ID.String(), response.Consent.ID)
		assert.Equal(t, "pending", response.Consent.Status)
		assert.Empty(t, response.Token)
		assert.False(t, response.AutoApproved)
	})

	t.Run("Success_AutoApprovedIncludesToken", func(t *testing.T) {
		handler, consentUseCase, _ := setupConsentHandler(t)

		consent := sampleConsent(domain.ConsentStatusActive)
		consentUseCase.On("CreateConsent", mock.Anything, mock.AnythingOfType("usecase.CreateConsentInput")).
			Return(&usecase.CreateConsentOutput{
				Consent:      consent,
				PlainToken:   "one-time-token-value",
				AutoApproved: true,
			}, nil)

		c, w := createTestContext(http.MethodPost, "/v1/syndication/consent", sampleCreateRequest())
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.CreateConsentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "one-time-token-value", response.Token)
		assert.True(t, response.AutoApproved)
	})

	t.Run("Error_Conflict", func(t *testing.T) {
		handler, consentUseCase, _ := setupConsentHandler(t)

		existing := sampleConsent(domain.ConsentStatusActive)
		consentUseCase.On("CreateConsent", mock.Anything, mock.AnythingOfType("usecase.CreateConsentInput")).
			Return(nil, &domain.ConsentConflictError{Existing: existing})

		c, w := createTestContext(http.MethodPost, "/v1/syndication/consent", sampleCreateRequest())
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)

		var response struct {
			Error           string              `json:"error"`
			ExistingConsent dto.ConsentResponse `json:"existing_consent"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "consent_already_exists", response.Error)
		assert.Equal(t, existing.ID.String(), response.ExistingConsent.ID)
	})

	t.Run("Error_UnknownDestination", func(t *testing.T) {
		handler, consentUseCase, _ := setupConsentHandler(t)

		consentUseCase.On("CreateConsent", mock.Anything, mock.AnythingOfType("usecase.CreateConsentInput")).
			Return(nil, domain.ErrUnknownDestination)

		c, w := createTestContext(http.MethodPost, "/v1/syndication/consent", sampleCreateRequest())
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "unknown_destination")
	})

	t.Run("Error_MissingFields", func(t *testing.T) {
		handler, _, _ := setupConsentHandler(t)

		req := sampleCreateRequest()
		req.AttributionText = ""

		c, w := createTestContext(http.MethodPost, "/v1/syndication/consent", req)
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestConsentHandler_GetHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, consentUseCase, _ := setupConsentHandler(t)

		consent := sampleConsent(domain.ConsentStatusActive)
		consentUseCase.On("GetConsent", mock.Anything, "S1", "justicehub").Return(consent, nil)

		c, w := createTestContext(http.MethodGet, "/v1/syndication/consent?content_id=S1&destination_site_slug=justicehub", nil)
		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.GetConsentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.True(t, response.Exists)
		require.NotNil(t, response.Consent)
		assert.Equal(t, consent.ID.String(), response.Consent.ID)
	})

	t.Run("Error_MissingQuery", func(t *testing.T) {
		handler, _, _ := setupConsentHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/syndication/consent?content_id=S1", nil)
		handler.GetHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Success_NoLiveConsent", func(t *testing.T) {
		handler, consentUseCase, _ := setupConsentHandler(t)

		consentUseCase.On("GetConsent", mock.Anything, "S1", "justicehub").
			Return(nil, domain.ErrConsentNotFound)

		c, w := createTestContext(http.MethodGet, "/v1/syndication/consent?content_id=S1&destination_site_slug=justicehub", nil)
		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.GetConsentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.False(t, response.Exists)
		assert.Nil(t, response.Consent)
	})

	t.Run("Error_UnknownDestination", func(t *testing.T) {
		handler, consentUseCase, _ := setupConsentHandler(t)

		consentUseCase.On("GetConsent", mock.Anything, "S1", "nope").
			Return(nil, domain.ErrUnknownDestination)

		c, w := createTestContext(http.MethodGet, "/v1/syndication/consent?content_id=S1&destination_site_slug=nope", nil)
		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "unknown_destination")
	})
}

func TestConsentHandler_ApproveHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, consentUseCase, _ := setupConsentHandler(t)

		consent := sampleConsent(domain.ConsentStatusActive)
		consentUseCase.On("ApproveConsent", mock.Anything, consent.ID).
			Return(&usecase.ApproveConsentOutput{Consent: consent, PlainToken: "one-time-token"}, nil)

		c, w := createTestContext(http.MethodPost, "/v1/syndication/consent/"+consent.ID.String()+"/approve", nil)
		c.Params = gin.Params{{Key: "id", Value: consent.ID.String()}}
		handler.ApproveHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ApproveConsentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "one-time-token", response.Token)
		assert.Equal(t, "active", response.Consent.Status)
	})

	t.Run("Error_InvalidTransition", func(t *testing.T) {
		handler, consentUseCase, _ := setupConsentHandler(t)

		consentID := uuid.Must(uuid.NewV7())
		consentUseCase.On("ApproveConsent", mock.Anything, consentID).
			Return(nil, domain.ErrInvalidTransition)

		c, w := createTestContext(http.MethodPost, "/v1/syndication/consent/"+consentID.String()+"/approve", nil)
		c.Params = gin.Params{{Key: "id", Value: consentID.String()}}
		handler.ApproveHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_transition")
	})

	t.Run("Error_BadID", func(t *testing.T) {
		handler, _, _ := setupConsentHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/syndication/consent/nope/approve", nil)
		c.Params = gin.Params{{Key: "id", Value: "nope"}}
		handler.ApproveHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestConsentHandler_RevokeHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, _, revocationUseCase := setupConsentHandler(t)

		consent := sampleConsent(domain.ConsentStatusRevoked)
		revocationUseCase.On("RevokeConsent", mock.Anything, consent.ID, "family request").
			Return(&usecase.RevokeConsentOutput{Consent: consent, TokensRevoked: 2}, nil)

		c, w := createTestContext(
			http.MethodPost,
			"/v1/syndication/consent/"+consent.ID.String()+"/revoke",
			dto.RevokeConsentRequest{Reason: "family request"},
		)
		c.Params = gin.Params{{Key: "id", Value: consent.ID.String()}}
		handler.RevokeHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.RevokeConsentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, int64(2), response.TokensRevoked)
		assert.Equal(t, consent.ID.String(), response.ConsentID)
		assert.Equal(t, "revoked", response.Status)
	})

	t.Run("Success_IdempotentRepeat", func(t *testing.T) {
		handler, _, revocationUseCase := setupConsentHandler(t)

		consent := sampleConsent(domain.ConsentStatusRevoked)
		revocationUseCase.On("RevokeConsent", mock.Anything, consent.ID, "again").
			Return(&usecase.RevokeConsentOutput{Consent: consent, TokensRevoked: 0}, nil)

		c, w := createTestContext(
			http.MethodPost,
			"/v1/syndication/consent/"+consent.ID.String()+"/revoke",
			dto.RevokeConsentRequest{Reason: "again"},
		)
		c.Params = gin.Params{{Key: "id", Value: consent.ID.String()}}
		handler.RevokeHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.RevokeConsentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, int64(0), response.TokensRevoked)
	})

	t.Run("Error_MissingReason", func(t *testing.T) {
		handler, _, _ := setupConsentHandler(t)

		consentID := uuid.Must(uuid.NewV7())
		c, w := createTestContext(
			http.MethodPost,
			"/v1/syndication/consent/"+consentID.String()+"/revoke",
			dto.RevokeConsentRequest{},
		)
		c.Params = gin.Params{{Key: "id", Value: consentID.String()}}
		handler.RevokeHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
