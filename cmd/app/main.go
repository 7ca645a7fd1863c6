package main

import (
	"flag"
	"log"
	"os"

	"ReconFlow/internal/di"
	"ReconFlow/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return err
	}
	log.Printf("starting env=%s clickhouse=%s db=%s", cfg.Environment, cfg.ClickHouse.Host, cfg.ClickHouse.Database)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		return err
	}
	log.Printf("kafka: brokers=%v records=%s anomalies=%s",
		cfg.Kafka.Brokers, cfg.Kafka.RecordsTopic, cfg.Kafka.AnomaliesTopic)

	// Blocks until SIGINT/SIGTERM, then shuts the stack down in order.
	return app.Run()
}
