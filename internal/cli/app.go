package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kbukum/httptargets/component"
	"github.com/kbukum/httptargets/config"
	"github.com/kbukum/httptargets/di"
	"github.com/kbukum/httptargets/httpclient"
	"github.com/kbukum/httptargets/logger"
	"github.com/kbukum/httptargets/observability"
)

const (
	serviceName = "httptargets"
	envPrefix   = "HTTPTARGETS"
)

// Config is the configuration file layout read by the command line.
type Config struct {
	config.ServiceConfig `mapstructure:",squash"`

	HTTPClient httpclient.Config `yaml:"httpclient" mapstructure:"httpclient"`
}

// ApplyDefaults fills unset values.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.HTTPClient.ApplyDefaults()
}

// Validate checks the service section. The httpclient section is validated
// when the component starts.
func (c *Config) Validate() error {
	return c.ServiceConfig.Validate()
}

func loadConfig(opts *rootOptions) (*Config, error) {
	cfg := &Config{}
	loaderOpts := []config.LoaderOption{
		config.WithEnvPrefix(envPrefix),
		config.WithDecodeHook(httpclient.DecodeHook()),
	}
	if opts.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.configFile))
	}
	if opts.envFile != "" {
		loaderOpts = append(loaderOpts, config.WithEnvFile(opts.envFile))
	}

	if err := config.LoadConfig(serviceName, cfg, loaderOpts...); err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	cfg.ApplyDefaults()
	if opts.userAgent != "" && !hasHeader(cfg.HTTPClient.Headers, "User-Agent") {
		if cfg.HTTPClient.Headers == nil {
			cfg.HTTPClient.Headers = map[string]string{}
		}
		cfg.HTTPClient.Headers["User-Agent"] = opts.userAgent
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

// app is one started instance of the http targets component together with
// the telemetry providers it reports to.
type app struct {
	cfg       *Config
	log       *logger.Logger
	container di.Container
	registry  *component.Registry
	comp      *httpclient.Component
	shutdown  []func(context.Context) error
}

func startApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Init(&cfg.Logging)

	a := &app{
		cfg:       cfg,
		log:       logger.WithComponent("cli"),
		container: di.NewContainer(),
		registry:  component.NewRegistry(),
	}

	features, err := a.initTelemetry(ctx, opts.otlpEndpoint)
	if err != nil {
		return nil, err
	}

	if err := a.container.RegisterSingleton(di.Keys.Config, cfg); err != nil {
		return nil, err
	}
	if err := a.container.RegisterSingleton(di.Keys.Logger, logger.GetGlobalLogger()); err != nil {
		return nil, err
	}

	a.comp = httpclient.NewComponent(cfg.HTTPClient,
		httpclient.WithComponents(a.container),
		httpclient.WithFeature(features...),
	)
	if err := a.registry.Register(a.comp); err != nil {
		return nil, err
	}
	if err := a.registry.StartAll(ctx); err != nil {
		_ = a.stopTelemetry(ctx)
		return nil, err
	}
	if err := a.container.RegisterSingleton(di.Keys.HTTPTargets, a.comp.Targets()); err != nil {
		_ = a.close(ctx)
		return nil, err
	}

	a.log.Debug("http targets started", logger.Fields(
		logger.FieldCount, len(a.comp.Targets().Targets()),
	))
	return a, nil
}

func (a *app) initTelemetry(ctx context.Context, endpoint string) ([]httpclient.Feature, error) {
	features := []httpclient.Feature{httpclient.RequestIDFeature(""), httpclient.LoggingFeature()}
	if endpoint == "" {
		return features, nil
	}

	tcfg := observability.DefaultTracerConfig(a.cfg.Name)
	tcfg.Endpoint = endpoint
	tcfg.Environment = a.cfg.Environment
	if a.cfg.Version != "" {
		tcfg.ServiceVersion = a.cfg.Version
	}
	tp, err := observability.InitTracer(ctx, tcfg)
	if err != nil {
		return nil, err
	}
	a.shutdown = append(a.shutdown, tp.Shutdown)

	mcfg := observability.DefaultMeterConfig(a.cfg.Name)
	mcfg.Endpoint = endpoint
	mcfg.Environment = a.cfg.Environment
	mcfg.ServiceVersion = tcfg.ServiceVersion
	mp, err := observability.InitMeter(ctx, mcfg)
	if err != nil {
		_ = a.stopTelemetry(ctx)
		return nil, err
	}
	a.shutdown = append(a.shutdown, mp.Shutdown)

	return append(features, observability.TracingFeature(), observability.MetricsFeature()), nil
}

func (a *app) targets() *httpclient.HTTPTargets {
	return a.comp.Targets()
}

func (a *app) stopTelemetry(ctx context.Context) error {
	var errs []error
	for i := len(a.shutdown) - 1; i >= 0; i-- {
		errs = append(errs, a.shutdown[i](ctx))
	}
	a.shutdown = nil
	return errors.Join(errs...)
}

// close stops the components and flushes telemetry.
func (a *app) close(ctx context.Context) error {
	return errors.Join(a.registry.StopAll(ctx), a.stopTelemetry(ctx))
}
