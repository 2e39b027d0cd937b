package main

import (
	"context"
	"flag"
	"log"
	"os"

	"PriceTrack/internal/di"
	"PriceTrack/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	mode := flag.String("mode", "serve", "run mode: serve or import")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	cfg.Defaults()

	log.Printf("env=%s table=%s db=%s", cfg.Environment, cfg.StatCan.TableID, cfg.Mongo.Database)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	switch *mode {
	case "import":
		if err := app.RunImport(context.Background()); err != nil {
			log.Printf("import error: %v", err)
			os.Exit(1)
		}
	case "serve":
		if err := app.Run(); err != nil {
			log.Printf("app error: %v", err)
			os.Exit(1)
		}
	default:
		log.Fatalf("unknown mode %q (want serve or import)", *mode)
	}
}
