package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mohitkumar/flowmvc/agent"
	"github.com/mohitkumar/flowmvc/analytics"
	"github.com/mohitkumar/flowmvc/config"
	"github.com/mohitkumar/flowmvc/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type cfg struct {
	config.Config
}
type cli struct {
	cfg cfg
}

func setupFlags(cmd *cobra.Command) error {
	cmd.Flags().String("config-file", "", "Path to config file.")
	cmd.Flags().Int("http-port", 8080, "http port for flow and metadata endpoints")
	cmd.Flags().String("context-path", "", "context path the application is mounted under")
	cmd.Flags().String("servlet-path", "/app", "path flow requests are mapped to, empty for default mapping")
	cmd.Flags().String("storage-impl", "memory", "implementation of underline storage, memory or redis")
	cmd.Flags().String("redis-addr", "localhost:6379", "comma separated list of redis host:port")
	cmd.Flags().String("namespace", "flowmvc", "namespace used in storage")
	cmd.Flags().Bool("redirect-http10", true, "send 302 instead of 303 redirects")
	cmd.Flags().Bool("flash-output", false, "save flow output to flash scope on redirect")
	cmd.Flags().String("hosts", "", "comma separated list of hosts that are not remote")
	cmd.Flags().Duration("execution-timeout", config.DEFAULT_EXECUTION_TIMEOUT, "time a paused flow execution is kept")
	cmd.Flags().Duration("flash-timeout", config.DEFAULT_FLASH_TIMEOUT, "time a flash map is kept")
	cmd.Flags().String("flow-dir", "", "directory of flow definitions loaded at startup")
	cmd.Flags().String("analytics-file", "", "file flow lifecycle events are written to")
	cmd.Flags().String("log-level", "info", "log level")
	return viper.BindPFlags(cmd.Flags())
}

func (c *cli) setupConfig(cmd *cobra.Command, args []string) error {
	var err error

	configFile, err := cmd.Flags().GetString("config-file")
	if err != nil {
		return err
	}
	viper.SetConfigFile(configFile)

	if err = viper.ReadInConfig(); err != nil {
		// it's ok if config file doesn't exist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configFile != "" {
			return err
		}
	}

	c.cfg.Config = config.Default()
	c.cfg.HttpPort = viper.GetInt("http-port")
	c.cfg.StorageType = config.StorageType(viper.GetString("storage-impl"))
	c.cfg.RedisConfig.Addrs = strings.Split(viper.GetString("redis-addr"), ",")
	c.cfg.RedisConfig.Namespace = viper.GetString("namespace")
	c.cfg.MvcConfig.ContextPath = viper.GetString("context-path")
	c.cfg.MvcConfig.ServletPath = viper.GetString("servlet-path")
	c.cfg.MvcConfig.RedirectHttp10Compatible = viper.GetBool("redirect-http10")
	c.cfg.MvcConfig.SaveOutputToFlashScope = viper.GetBool("flash-output")
	if hosts := viper.GetString("hosts"); hosts != "" {
		c.cfg.MvcConfig.Hosts = strings.Split(hosts, ",")
	}
	c.cfg.MvcConfig.ExecutionTimeout = viper.GetDuration("execution-timeout")
	c.cfg.MvcConfig.FlashTimeout = viper.GetDuration("flash-timeout")
	c.cfg.FlowDirectory = viper.GetString("flow-dir")
	if file := viper.GetString("analytics-file"); file != "" {
		c.cfg.AnalyticsConfig = analytics.DataCollectorConfig{
			FileName:      file,
			CollectorType: analytics.LOG_FILE_DATA_COLLECTOR,
		}
	}
	c.cfg.LogLevel = viper.GetString("log-level")
	logger.SetLevel(c.cfg.LogLevel)
	return nil
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	var err error
	agent, err := agent.New(c.cfg.Config)
	if err != nil {
		return err
	}
	err = agent.Start()
	if err != nil {
		return err
	}
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	defer logger.Sync()
	return agent.Shutdown()
}

func main() {
	cli := &cli{}

	cmd := &cobra.Command{
		Use:     "flowmvc",
		PreRunE: cli.setupConfig,
		RunE:    cli.run,
	}

	if err := setupFlags(cmd); err != nil {
		log.Fatal(err)
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
