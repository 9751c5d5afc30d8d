package services

import (
	"strings"
	"sync"

	"github.com/gookit/validate"

	"cptrack/internal/models"
	"cptrack/internal/providers"
	"cptrack/internal/store"
)

type IdentityServiceInterface interface {
	Get() models.HandleMap
	Set(platform, handle string) error
}

// IdentityService owns the platform → handle mapping. Writes are
// validated and persisted synchronously; there is no delete, only
// overwrite.
type IdentityService struct {
	mu      sync.RWMutex
	handles models.HandleMap
	store   store.StoreInterface
	logger  providers.Logger
}

type handleInput struct {
	Platform string `validate:"required|in:codeforces,leetcode,codechef,github" json:"platform"`
	Username string `validate:"required|minLen:3" json:"username"`
}

func NewIdentityService(fs store.StoreInterface, logger providers.Logger) IdentityServiceInterface {
	s := &IdentityService{
		handles: make(models.HandleMap),
		store:   fs,
		logger:  logger,
	}

	var persisted models.HandleMap
	ok, err := fs.Load(store.HandlesFile, &persisted)
	if err != nil {
		// A broken handles file only loses the mapping, never the daemon.
		logger.Errorf(providers.TypeApp, "Unable to restore handles: %s", err)
	} else if ok {
		s.handles = persisted
		logger.Infof(providers.TypeApp, "Restored %d handle(s)", len(persisted))
	}
	return s
}

func (s *IdentityService) Get() models.HandleMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handles.Clone()
}

func (s *IdentityService) Set(platform, handle string) error {
	in := handleInput{
		Platform: strings.ToLower(strings.TrimSpace(platform)),
		Username: strings.TrimSpace(handle),
	}

	v := validate.Struct(&in)
	if !v.Validate() {
		for field, messages := range v.Errors {
			for _, reason := range messages {
				return &models.ValidationError{
					Field:  strings.ToLower(field),
					Reason: reason,
				}
			}
		}
	}

	p, err := models.ParsePlatform(in.Platform)
	if err != nil {
		return &models.ValidationError{Field: "platform", Reason: err.Error()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Persist first; the in-memory map must never report a handle that
	// would vanish on restart.
	next := s.handles.Clone()
	next[p] = in.Username
	if err := s.store.Save(store.HandlesFile, next); err != nil {
		return err
	}
	s.handles = next
	s.logger.Infof(providers.TypeApp, "Handle for %s updated", p)
	return nil
}

// ProvideConfiguredCount exposes the configured-platform count to the
// metrics provider without a package cycle.
func ProvideConfiguredCount(s IdentityServiceInterface) providers.ConfiguredPlatformsFunc {
	return func() int {
		return len(s.Get().Configured())
	}
}
