package main

import (
	"context"
	"log/slog"
	"net/http"

	"vaccine-slot-scraper/config"
	"vaccine-slot-scraper/metrics"
	"vaccine-slot-scraper/scraper"
	"vaccine-slot-scraper/scraper/doctolib"
	"vaccine-slot-scraper/scraper/keldoc"
	"vaccine-slot-scraper/scraper/maiia"
	"vaccine-slot-scraper/scraper/ordoclic"
	"vaccine-slot-scraper/services"
	"vaccine-slot-scraper/sources"
	"vaccine-slot-scraper/storage"
	"vaccine-slot-scraper/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var PlatformModule = fx.Module("platforms",
	fx.Provide(
		NewDoctolibGetter,
		NewFetchers,
		NewRegistry,
	),
)

var IngestionModule = fx.Module("ingestion",
	fx.Provide(
		NewSourceClient,
		NewSources,
		services.DefaultRegions,
	),
)

var PublishModule = fx.Module("publish",
	fx.Provide(
		NewStores,
		NewExporter,
		fx.Annotate(NewRecorder, fx.As(new(services.RunRecorder))),
	),
)

var Module = fx.Options(
	fx.Provide(uuid.New, NewRunner),
	PlatformModule,
	IngestionModule,
	PublishModule,
)

// NewDoctolibGetter prefers a headless browser and falls back to plain HTTP
// when Chrome cannot be started.
func NewDoctolibGetter(lc fx.Lifecycle, cfg *config.Config) doctolib.Getter {
	b, err := doctolib.NewBrowser(cfg.Browser.Headless, cfg.Browser.Timeout, cfg.PlatformRPS, cfg.PlatformBurst)
	if err != nil {
		utils.Warn("Chrome unavailable, Doctolib falls back to plain HTTP: %v", err)
		return doctolib.HTTPGetter{Client: platformClient(cfg)}
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			b.Close()
			return nil
		},
	})
	return b
}

// platformClient gives each platform its own token bucket.
func platformClient(cfg *config.Config) *http.Client {
	return utils.NewLimitedHTTPClient(cfg.RequestTimeout, cfg.PlatformRPS, cfg.PlatformBurst)
}

func NewFetchers(cfg *config.Config, getter doctolib.Getter) scraper.Fetchers {
	return scraper.Fetchers{
		Doctolib: doctolib.NewFetcher(cfg.Platform.DoctolibURL, getter),
		Keldoc:   keldoc.NewFetcher(cfg.Platform.KeldocURL, platformClient(cfg)),
		Maiia:    maiia.NewFetcher(cfg.Platform.MaiiaURL, platformClient(cfg)),
		Ordoclic: ordoclic.NewFetcher(cfg.Platform.OrdoclicURL, platformClient(cfg)),
	}
}

func NewRegistry(f scraper.Fetchers) *scraper.Registry {
	return scraper.NewRegistry(scraper.DefaultPlatforms(f)...)
}

type sourceClient struct{ *http.Client }

func NewSourceClient(cfg *config.Config) sourceClient {
	return sourceClient{utils.NewHTTPClient(cfg.RequestTimeout)}
}

// NewSources lists the venue feeds in iteration order.
func NewSources(cfg *config.Config, c sourceClient) []sources.Source {
	src := cfg.Sources
	list := []sources.Source{
		sources.NewCSVFeed(src.CentersFeedURL, c.Client),
		sources.NewRemoteSnapshot("doctolib-centres", src.DoctolibCentersURL, src.DoctolibCentersPath, c.Client),
	}
	if src.OrdoclicEnabled {
		list = append(list, ordoclic.NewCenters(cfg.Platform.OrdoclicURL, platformClient(cfg)))
	}
	list = append(list, sources.NewRemoteSnapshot("maiia-centres", src.MaiiaCentersURL, src.MaiiaCentersPath, c.Client))
	return list
}

func NewStores(lc fx.Lifecycle, cfg *config.Config, runID uuid.UUID) ([]storage.Store, error) {
	stores := []storage.Store{storage.NewFileStore(cfg.OutputPath, config.RegionPlaceholder)}

	if cfg.Postgres.DSN != "" {
		ctx := context.Background()
		pg, err := storage.NewPostgresStore(ctx, cfg.Postgres.DSN, runID)
		if err != nil {
			return nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				pg.Close()
				return nil
			},
		})
		stores = append(stores, pg)
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			},
			OnStop: func(_ context.Context) error {
				return client.Close()
			},
		})
		stores = append(stores, storage.NewRedisStore(client, cfg.Redis.Prefix))
	}

	return stores, nil
}

func NewExporter(logger *slog.Logger, stores []storage.Store) *services.Exporter {
	return services.NewExporter(logger, stores...)
}

func NewRecorder(cfg *config.Config) *metrics.Recorder {
	return metrics.NewRecorder(cfg.Metrics.PushgatewayURL, cfg.Metrics.Job)
}

func NewRunner(
	cfg *config.Config,
	registry *scraper.Registry,
	srcs []sources.Source,
	regions services.Regions,
	exporter *services.Exporter,
	recorder services.RunRecorder,
	logger *slog.Logger,
	runID uuid.UUID,
) *services.Runner {
	return services.NewRunner(
		services.RunnerConfig{
			PoolSize:         cfg.PoolSize,
			BlockedThreshold: cfg.BlockedThreshold,
			Location:         cfg.Location(),
		},
		registry, srcs, regions, exporter, recorder, logger, runID,
	)
}
