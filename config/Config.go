package config

import (
	"time"

	"github.com/mohitkumar/flowmvc/analytics"
)

type StorageType string

const STORAGE_TYPE_REDIS StorageType = "redis"
const STORAGE_TYPE_INMEM StorageType = "memory"

const DEFAULT_EXECUTION_TIMEOUT = 30 * time.Minute
const DEFAULT_FLASH_TIMEOUT = 180 * time.Second

type Config struct {
	RedisConfig     RedisStorageConfig
	InMemoryConfig  InmemStorageConfig
	HttpPort        int
	StorageType     StorageType
	MvcConfig       MvcConfig
	FlowDirectory   string
	AnalyticsConfig analytics.DataCollectorConfig
	LogLevel        string
}

// MvcConfig controls how flow requests are mapped and how redirects are emitted.
type MvcConfig struct {
	ContextPath              string
	ServletPath              string
	RedirectHttp10Compatible bool
	SaveOutputToFlashScope   bool
	Hosts                    []string
	ExecutionTimeout         time.Duration
	FlashTimeout             time.Duration
}

type RedisStorageConfig struct {
	Addrs     []string
	Namespace string
}

type InmemStorageConfig struct {
	CleanupInterval time.Duration
}

func Default() Config {
	return Config{
		HttpPort:    8080,
		StorageType: STORAGE_TYPE_INMEM,
		RedisConfig: RedisStorageConfig{
			Addrs:     []string{"localhost:6379"},
			Namespace: "flowmvc",
		},
		InMemoryConfig: InmemStorageConfig{
			CleanupInterval: 10 * time.Minute,
		},
		MvcConfig: MvcConfig{
			ServletPath:              "/app",
			RedirectHttp10Compatible: true,
			ExecutionTimeout:         DEFAULT_EXECUTION_TIMEOUT,
			FlashTimeout:             DEFAULT_FLASH_TIMEOUT,
		},
		LogLevel: "info",
	}
}
