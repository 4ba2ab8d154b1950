package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/m3rciful/trackerbot/core/cmd"
	"github.com/m3rciful/trackerbot/internal/app"
)

func main() {
	// Optional local overrides; production relies on real env vars.
	_ = godotenv.Load()

	err := cmd.Run(cmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (cmd.ConfigCarrier, error) {
			return app.LoadConfig(path)
		},
		Bootstrap: func(cfg cmd.ConfigCarrier) (cmd.TelegramApp, error) {
			return app.Bootstrap(cfg.(*app.Config))
		},
	})
	if err != nil {
		log.Fatalf("trackerbot: %v", err)
	}
}
