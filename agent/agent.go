package agent

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/mohitkumar/flowmvc/analytics"
	"github.com/mohitkumar/flowmvc/config"
	"github.com/mohitkumar/flowmvc/executor"
	"github.com/mohitkumar/flowmvc/flash"
	"github.com/mohitkumar/flowmvc/flow"
	"github.com/mohitkumar/flowmvc/logger"
	"github.com/mohitkumar/flowmvc/metadata"
	"github.com/mohitkumar/flowmvc/mvc"
	"github.com/mohitkumar/flowmvc/persistence"
	"github.com/mohitkumar/flowmvc/persistence/memory"
	"github.com/mohitkumar/flowmvc/persistence/redis"
	"github.com/mohitkumar/flowmvc/rest"
	"go.uber.org/zap"
)

type Agent struct {
	Config              config.Config
	metadataStorage     metadata.MetadataStorage
	executionRepository persistence.ExecutionRepository
	flashStorage        persistence.FlashStorage
	collector           analytics.FlowDataCollector
	metadataService     metadata.MetadataService
	registry            *flow.Registry
	flowExecutor        *executor.FlowExecutorImpl
	flashManager        *flash.SessionFlashMapManager
	adapter             *mvc.FlowHandlerAdapter
	httpServer          *rest.Server
	closers             []io.Closer
	shutdown            bool
	shutdownLock        sync.Mutex
}

func New(config config.Config) (*Agent, error) {
	a := &Agent{
		Config: config,
	}
	setup := []func() error{
		a.setupStorage,
		a.setupAnalytics,
		a.setupFlowRegistry,
		a.setupFlowExecutor,
		a.setupFlowHandlerAdapter,
		a.setupHttpServer,
	}
	for _, fn := range setup {
		if err := fn(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Agent) setupStorage() error {
	mvcConfig := a.Config.MvcConfig
	switch a.Config.StorageType {
	case config.STORAGE_TYPE_REDIS:
		conf := redis.Config{
			Addrs:     a.Config.RedisConfig.Addrs,
			Namespace: a.Config.RedisConfig.Namespace,
		}
		metadataStorage := redis.NewRedisMetadataStorage(conf)
		if err := metadataStorage.Ping(context.Background()); err != nil {
			return fmt.Errorf("redis not reachable at %v %w", conf.Addrs, err)
		}
		executionRepository := redis.NewRedisExecutionRepository(conf, mvcConfig.ExecutionTimeout)
		flashStorage := redis.NewRedisFlashStorage(conf)
		a.metadataStorage = metadataStorage
		a.executionRepository = executionRepository
		a.flashStorage = flashStorage
		a.closers = append(a.closers, metadataStorage, executionRepository, flashStorage)
	case config.STORAGE_TYPE_INMEM:
		cleanup := a.Config.InMemoryConfig.CleanupInterval
		a.metadataStorage = memory.NewMetadataStorage()
		a.executionRepository = memory.NewExecutionRepository(mvcConfig.ExecutionTimeout, cleanup)
		a.flashStorage = memory.NewFlashStorage(cleanup)
	default:
		return fmt.Errorf("unsupported storage type %s", a.Config.StorageType)
	}
	logger.Info("storage configured", zap.String("type", string(a.Config.StorageType)))
	return nil
}

func (a *Agent) setupAnalytics() error {
	var err error
	a.collector, err = analytics.NewDataCollector(a.Config.AnalyticsConfig)
	return err
}

func (a *Agent) setupFlowRegistry() error {
	a.metadataService = metadata.NewMetadataService(a.metadataStorage, flow.Validate)
	a.registry = flow.NewRegistry(a.metadataService)
	if a.Config.FlowDirectory != "" {
		return a.registry.LoadDirectory(a.Config.FlowDirectory)
	}
	return nil
}

func (a *Agent) setupFlowExecutor() error {
	a.flowExecutor = executor.NewFlowExecutor(a.registry, a.executionRepository, a.collector)
	return nil
}

func (a *Agent) setupFlowHandlerAdapter() error {
	mvcConfig := a.Config.MvcConfig
	opts := []mvc.Option{
		mvc.WithRedirectHttp10Compatible(mvcConfig.RedirectHttp10Compatible),
		mvc.WithHosts(mvcConfig.Hosts...),
	}
	if mvcConfig.SaveOutputToFlashScope {
		a.flashManager = flash.NewSessionFlashMapManager(a.flashStorage, mvcConfig.FlashTimeout)
		opts = append(opts, mvc.WithFlashMapManager(a.flashManager), mvc.WithSaveOutputToFlashScopeOnRedirect(true))
	}
	a.adapter = mvc.NewFlowHandlerAdapter(a.flowExecutor, opts...)
	return nil
}

func (a *Agent) setupHttpServer() error {
	var err error
	a.httpServer, err = rest.NewServer(a.Config.HttpPort, a.Config.MvcConfig, a.metadataService, a.registry, a.adapter, a.flashManager)
	return err
}

// Registry exposes the flow registry so flows written in Go can be registered.
func (a *Agent) Registry() *flow.Registry {
	return a.registry
}

func (a *Agent) Start() error {
	go func() {
		if err := a.httpServer.Start(); err != nil {
			logger.Error("http server failed", zap.Error(err))
			_ = a.Shutdown()
		}
	}()
	return nil
}

func (a *Agent) Shutdown() error {
	logger.Info("shutting down server")
	a.shutdownLock.Lock()
	defer a.shutdownLock.Unlock()
	if a.shutdown {
		return nil
	}
	a.shutdown = true

	shutdown := []func() error{
		a.httpServer.Stop,
		func() error {
			for _, c := range a.closers {
				if err := c.Close(); err != nil {
					return err
				}
			}
			return nil
		},
		func() error {
			if s, ok := a.collector.(interface{ Sync() error }); ok {
				return s.Sync()
			}
			return nil
		},
	}
	for _, fn := range shutdown {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}
