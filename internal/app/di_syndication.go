package app

import (
	"fmt"

	contentRepository "github.com/storyweave/syndication/internal/content/repository"
	eventsRepository "github.com/storyweave/syndication/internal/events/repository"
	eventsUsecase "github.com/storyweave/syndication/internal/events/usecase"
	registryRepository "github.com/storyweave/syndication/internal/registry/repository"
	registryUsecase "github.com/storyweave/syndication/internal/registry/usecase"
	syndicationRepository "github.com/storyweave/syndication/internal/syndication/repository"
	"github.com/storyweave/syndication/internal/syndication/service"
	syndicationUsecase "github.com/storyweave/syndication/internal/syndication/usecase"
)

// SiteRepository returns the destination site repository instance.
func (c *Container) SiteRepository() (registryUsecase.SiteRepository, error) {
	c.siteRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["siteRepo"] = err
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.siteRepo = registryRepository.NewMySQLSiteRepository(db)
		case "postgres":
			c.siteRepo = registryRepository.NewPostgreSQLSiteRepository(db)
		default:
			c.initErrors["siteRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["siteRepo"]; exists {
		return nil, err
	}
	return c.siteRepo, nil
}

// ContentRepository returns the content item repository instance.
func (c *Container) ContentRepository() (syndicationUsecase.ContentRepository, error) {
	c.contentRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["contentRepo"] = err
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.contentRepo = contentRepository.NewMySQLContentRepository(db)
		case "postgres":
			c.contentRepo = contentRepository.NewPostgreSQLContentRepository(db)
		default:
			c.initErrors["contentRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["contentRepo"]; exists {
		return nil, err
	}
	return c.contentRepo, nil
}

// ConsentRepository returns the consent repository instance.
func (c *Container) ConsentRepository() (syndicationUsecase.ConsentRepository, error) {
	c.consentRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["consentRepo"] = err
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.consentRepo = syndicationRepository.NewMySQLConsentRepository(db)
		case "postgres":
			c.consentRepo = syndicationRepository.NewPostgreSQLConsentRepository(db)
		default:
			c.initErrors["consentRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["consentRepo"]; exists {
		return nil, err
	}
	return c.consentRepo, nil
}

// TokenRepository returns the capability token repository instance.
func (c *Container) TokenRepository() (syndicationUsecase.TokenRepository, error) {
	c.tokenRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["tokenRepo"] = err
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.tokenRepo = syndicationRepository.NewMySQLTokenRepository(db)
		case "postgres":
			c.tokenRepo = syndicationRepository.NewPostgreSQLTokenRepository(db)
		default:
			c.initErrors["tokenRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["tokenRepo"]; exists {
		return nil, err
	}
	return c.tokenRepo, nil
}

// AuditEntryRepository returns the access audit repository instance.
func (c *Container) AuditEntryRepository() (syndicationUsecase.AuditEntryRepository, error) {
	c.auditRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["auditRepo"] = err
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.auditRepo = syndicationRepository.NewMySQLAuditEntryRepository(db)
		case "postgres":
			c.auditRepo = syndicationRepository.NewPostgreSQLAuditEntryRepository(db)
		default:
			c.initErrors["auditRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["auditRepo"]; exists {
		return nil, err
	}
	return c.auditRepo, nil
}

// EventRepository returns the lifecycle event repository instance.
func (c *Container) EventRepository() (eventsUsecase.EventRepository, error) {
	c.eventRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["eventRepo"] = err
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.eventRepo = eventsRepository.NewMySQLEventRepository(db)
		case "postgres":
			c.eventRepo = eventsRepository.NewPostgreSQLEventRepository(db)
		default:
			c.initErrors["eventRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["eventRepo"]; exists {
		return nil, err
	}
	return c.eventRepo, nil
}

// TokenService returns the capability token generation service.
func (c *Container) TokenService() service.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = service.NewTokenService()
	})
	return c.tokenService
}

// SiteUseCase returns the destination site management use case.
func (c *Container) SiteUseCase() (registryUsecase.SiteUseCase, error) {
	c.siteUseCaseInit.Do(func() {
		siteRepo, err := c.SiteRepository()
		if err != nil {
			c.initErrors["siteUseCase"] = err
			return
		}
		c.siteUseCase = registryUsecase.NewSiteUseCase(siteRepo)
	})
	if err, exists := c.initErrors["siteUseCase"]; exists {
		return nil, err
	}
	return c.siteUseCase, nil
}

// ConsentUseCase returns the consent lifecycle use case.
func (c *Container) ConsentUseCase() (syndicationUsecase.ConsentUseCase, error) {
	c.consentUseCaseInit.Do(func() {
		useCase, err := c.initConsentUseCase()
		if err != nil {
			c.initErrors["consentUseCase"] = err
			return
		}
		c.consentUseCase = useCase
	})
	if err, exists := c.initErrors["consentUseCase"]; exists {
		return nil, err
	}
	return c.consentUseCase, nil
}

// TokenUseCase returns the capability token use case.
func (c *Container) TokenUseCase() (syndicationUsecase.TokenUseCase, error) {
	c.tokenUseCaseInit.Do(func() {
		useCase, err := c.initTokenUseCase()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
			return
		}
		c.tokenUseCase = useCase
	})
	if err, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, err
	}
	return c.tokenUseCase, nil
}

// RevocationUseCase returns the revocation use case.
func (c *Container) RevocationUseCase() (syndicationUsecase.RevocationUseCase, error) {
	c.revocationUseCaseInit.Do(func() {
		useCase, err := c.initRevocationUseCase()
		if err != nil {
			c.initErrors["revocationUseCase"] = err
			return
		}
		c.revocationUseCase = useCase
	})
	if err, exists := c.initErrors["revocationUseCase"]; exists {
		return nil, err
	}
	return c.revocationUseCase, nil
}

// GatewayUseCase returns the content access gateway use case.
func (c *Container) GatewayUseCase() (syndicationUsecase.GatewayUseCase, error) {
	c.gatewayUseCaseInit.Do(func() {
		useCase, err := c.initGatewayUseCase()
		if err != nil {
			c.initErrors["gatewayUseCase"] = err
			return
		}
		c.gatewayUseCase = useCase
	})
	if err, exists := c.initErrors["gatewayUseCase"]; exists {
		return nil, err
	}
	return c.gatewayUseCase, nil
}

func (c *Container) initConsentUseCase() (syndicationUsecase.ConsentUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, err
	}
	consentRepo, err := c.ConsentRepository()
	if err != nil {
		return nil, err
	}
	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, err
	}
	siteRepo, err := c.SiteRepository()
	if err != nil {
		return nil, err
	}
	contentRepo, err := c.ContentRepository()
	if err != nil {
		return nil, err
	}
	eventRepo, err := c.EventRepository()
	if err != nil {
		return nil, err
	}

	useCase := syndicationUsecase.NewConsentUseCase(
		syndicationUsecase.ConsentConfig{
			TTL:                     c.config.ConsentTTL,
			AutoApproveTrustedSites: c.config.AutoApproveTrustedSites,
		},
		txManager,
		consentRepo,
		tokenRepo,
		siteRepo,
		contentRepo,
		eventRepo,
		c.TokenService(),
	)

	if c.config.MetricsEnabled {
		bm, err := c.BusinessMetrics()
		if err != nil {
			return nil, err
		}
		useCase = syndicationUsecase.NewConsentUseCaseWithMetrics(useCase, bm)
	}

	return useCase, nil
}

func (c *Container) initTokenUseCase() (syndicationUsecase.TokenUseCase, error) {
	consentRepo, err := c.ConsentRepository()
	if err != nil {
		return nil, err
	}
	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, err
	}
	siteRepo, err := c.SiteRepository()
	if err != nil {
		return nil, err
	}

	useCase := syndicationUsecase.NewTokenUseCase(consentRepo, siteRepo, tokenRepo, c.TokenService())

	if c.config.MetricsEnabled {
		bm, err := c.BusinessMetrics()
		if err != nil {
			return nil, err
		}
		useCase = syndicationUsecase.NewTokenUseCaseWithMetrics(useCase, bm)
	}

	return useCase, nil
}

func (c *Container) initRevocationUseCase() (syndicationUsecase.RevocationUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, err
	}
	consentRepo, err := c.ConsentRepository()
	if err != nil {
		return nil, err
	}
	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, err
	}
	eventRepo, err := c.EventRepository()
	if err != nil {
		return nil, err
	}

	useCase := syndicationUsecase.NewRevocationUseCase(txManager, consentRepo, tokenRepo, eventRepo)

	if c.config.MetricsEnabled {
		bm, err := c.BusinessMetrics()
		if err != nil {
			return nil, err
		}
		useCase = syndicationUsecase.NewRevocationUseCaseWithMetrics(useCase, bm)
	}

	return useCase, nil
}

func (c *Container) initGatewayUseCase() (syndicationUsecase.GatewayUseCase, error) {
	tokenUseCase, err := c.TokenUseCase()
	if err != nil {
		return nil, err
	}
	contentRepo, err := c.ContentRepository()
	if err != nil {
		return nil, err
	}
	auditRepo, err := c.AuditEntryRepository()
	if err != nil {
		return nil, err
	}

	useCase := syndicationUsecase.NewGatewayUseCase(tokenUseCase, contentRepo, auditRepo, c.Logger())

	if c.config.MetricsEnabled {
		bm, err := c.BusinessMetrics()
		if err != nil {
			return nil, err
		}
		useCase = syndicationUsecase.NewGatewayUseCaseWithMetrics(useCase, bm)
	}

	return useCase, nil
}
