package bserve

import (
	"context"

	"github.com/advdv/bconduit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// App wraps an fx.App for lifecycle management.
type App struct {
	app *fx.App
}

// AppConfig holds configuration for the app.
type AppConfig struct {
	ServiceConfig
	FxOptions []fx.Option
}

// Option configures the App.
type Option func(*AppConfig)

// WithFx adds fx options for dependency injection.
func WithFx(fxOpts ...fx.Option) Option {
	return func(c *AppConfig) {
		c.FxOptions = append(c.FxOptions, fxOpts...)
	}
}

// WithMiddleware wraps the handler with middleware, in [bconduit.Wrap] order. The access log is
// always the outermost middleware.
func WithMiddleware(m ...bconduit.Middleware) Option {
	return func(c *AppConfig) {
		c.Middleware = append(c.Middleware, m...)
	}
}

// FxOptions returns the fx options that make up the app. The handler is either a
// [bconduit.Handler] or a constructor that returns one; constructor arguments are resolved
// from the graph, including the environment E.
func FxOptions[E Environment](handler any, opts ...Option) []fx.Option {
	var cfg AppConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	baseOpts := make([]fx.Option, 0, 14+len(cfg.FxOptions))
	baseOpts = append(baseOpts, []fx.Option{
		fx.NopLogger,
		fx.Provide(ParseEnv[E]()),
		fx.Provide(func(e E) Environment { return e }),
		fx.Provide(func(e E) (*zap.Logger, error) { return NewLogger(e) }),
		fx.Provide(NewTracerProvider),
		fx.Provide(NewPropagator),
		fx.Provide(NewRegistry),
		fx.Provide(NewHTTPTransport),
		fx.Provide(NewHTTPClient),
		fx.Provide(NewRuntime[E]),
		fx.Provide(func() *Listeners { return &Listeners{} }),
		fx.Supply(cfg.ServiceConfig),
		provideHandler(handler),
		fx.Provide(NewService),
		fx.Provide(NewServer),
		fx.Invoke(startServerHook),
		fx.Invoke(startMetricsHook),
	}...)

	return append(baseOpts, cfg.FxOptions...)
}

func provideHandler(handler any) fx.Option {
	if h, ok := handler.(bconduit.Handler); ok {
		return fx.Provide(func() bconduit.Handler { return h })
	}
	return fx.Provide(handler)
}

// NewApp creates a batteries-included app that serves the handler.
//
// Example:
//
//	bserve.NewApp[Env](NewHandler,
//	    bserve.WithFx(fx.Provide(NewStore)),
//	).Run()
func NewApp[E Environment](handler any, opts ...Option) *App {
	return &App{
		app: fx.New(FxOptions[E](handler, opts...)...),
	}
}

// Err returns the error that occurred while building the app, if any.
func (a *App) Err() error {
	return a.app.Err()
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() {
	a.app.Run()
}

// Start starts the application and blocks until ctx is done, then stops it.
func (a *App) Start(ctx context.Context) error {
	if err := a.app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.app.StopTimeout())
	defer cancel()

	return a.app.Stop(stopCtx)
}
