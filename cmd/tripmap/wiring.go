// README: Builds the shared service graph (datasets, generator, proximity backend, sessions) from config.
package main

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"tripmap/internal/ai"
	"tripmap/internal/config"
	"tripmap/internal/infra"
	"tripmap/internal/maps"
	"tripmap/internal/modules/dataset"
	"tripmap/internal/modules/proximity"
	"tripmap/internal/modules/selection"
	"tripmap/internal/session"
)

type app struct {
	static    *dataset.StaticProvider
	generator *dataset.RemoteProvider
	finder    proximity.Finder
	sessions  *session.Manager

	gemini *ai.GeminiProvider
	redis  *redis.Client
}

func newGenerator(ctx context.Context, c *config.Config) (*dataset.RemoteProvider, *ai.GeminiProvider, error) {
	gemini, err := ai.NewGeminiProvider(ctx, ai.GeminiConfig{
		APIKey:            c.Gemini.APIKey,
		Model:             c.Gemini.Model,
		Temperature:       c.Gemini.Temperature,
		MaxOutputTokens:   c.Gemini.MaxOutputTokens,
		RequestsPerMinute: c.Gemini.RequestsPerMinute,
	})
	if err != nil {
		return nil, nil, eris.Wrap(err, "gemini init")
	}
	if c.Gemini.APIKey == "" {
		zap.L().Warn("gemini api key not set; plan generation will report a configuration error")
	}

	var locator dataset.CenterLocator
	if c.Maps.APIKey != "" {
		geo, err := maps.NewGeocodeService(c.Maps.APIKey)
		if err != nil {
			gemini.Close()
			return nil, nil, eris.Wrap(err, "maps init")
		}
		locator = geo
	}
	return dataset.NewRemoteProvider(gemini, locator), gemini, nil
}

func newApp(ctx context.Context, c *config.Config) (*app, error) {
	static, err := dataset.NewStaticProvider(c.Dataset.Static)
	if err != nil {
		return nil, eris.Wrap(err, "static datasets")
	}

	a := &app{static: static}
	a.generator, a.gemini, err = newGenerator(ctx, c)
	if err != nil {
		return nil, err
	}

	switch c.Proximity.Backend {
	case "redis":
		a.redis, err = infra.NewRedis(ctx, c.Redis.Addr)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.finder = proximity.NewRedisStore(a.redis)
	default:
		a.finder = proximity.MemoryFinder{}
	}

	a.sessions, err = session.NewManager(session.Deps{
		Static:    static,
		Generator: a.generator,
		Finder:    a.finder,
		Policy: proximity.Policy{
			RadiusKm: c.Proximity.RadiusKm,
			MaxCount: c.Proximity.MaxCount,
		},
		Renderer:        selection.LogRenderer{Log: zap.L()},
		GenerateTimeout: c.Gemini.Timeout(),
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	zap.L().Info("service wired",
		zap.String("static_default", static.Default()),
		zap.Strings("static", static.Names()),
		zap.String("proximity_backend", c.Proximity.Backend),
		zap.Bool("geocoding", c.Maps.APIKey != ""),
	)
	return a, nil
}

func (a *app) Close() {
	if a.gemini != nil {
		a.gemini.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			zap.L().Warn("close redis", zap.Error(err))
		}
	}
}
