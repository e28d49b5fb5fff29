package langid

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/gncorpora/internal/cache"
	"github.com/ppiankov/gncorpora/internal/model"
	"github.com/ppiankov/gncorpora/internal/worker"
)

// New builds the identifier described by cfg. Remote providers are rate
// limited and, when caching is enabled, cached. The outermost layer gates on
// the target language code.
func New(cfg *model.Config, logger *slog.Logger) (Identifier, error) {
	if logger == nil {
		logger = slog.Default()
	}

	lc := cfg.LangID
	timeout := time.Duration(lc.Timeout) * time.Second

	var id Identifier
	switch strings.ToLower(lc.Provider) {
	case "", "none":
		return None{}, nil

	case "http":
		p, err := NewHTTPIdentifier(HTTPConfig{
			Endpoint:   lc.Endpoint,
			APIKey:     lc.APIKey,
			K:          lc.K,
			Timeout:    timeout,
			HTTPProxy:  lc.HTTPProxy,
			HTTPSProxy: lc.HTTPSProxy,
		})
		if err != nil {
			return nil, err
		}
		id = p

	case "openai":
		p, err := NewOpenAIIdentifier(OpenAIConfig{
			APIKey:     lc.APIKey,
			BaseURL:    lc.Endpoint,
			Model:      lc.Model,
			Timeout:    timeout,
			HTTPProxy:  lc.HTTPProxy,
			HTTPSProxy: lc.HTTPSProxy,
		})
		if err != nil {
			return nil, err
		}
		id = p

	default:
		return nil, fmt.Errorf("%w: %s (supported: none, http, openai)", ErrUnknownProvider, lc.Provider)
	}

	id = NewLimited(id, worker.NewLimiter(lc.RequestsPerSecond, lc.Burst))

	if cfg.Cache.Enabled {
		diskDir := ""
		if cfg.Cache.Dir != "" {
			diskDir = filepath.Join(cfg.Cache.Dir, "langid")
		}
		c := cache.NewLayeredCache(
			time.Duration(cfg.Cache.MemoryTTLMinutes)*time.Minute,
			diskDir,
			time.Duration(cfg.Cache.DiskTTLHours)*time.Hour,
		)
		namespace := fmt.Sprintf("%s|%s|%s|%d", lc.Provider, lc.Endpoint, lc.Model, lc.K)
		id = NewCached(id, c, namespace, 0, logger)
	}

	logger.Debug("language identification enabled", "provider", id.Name(), "target", cfg.Language.Code)

	return NewTarget(id, cfg.Language.Code), nil
}
