package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/Garsondee/Gravity-Siege/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "settings file (default: ./gravity-siege.yaml if present)")
	flag.Parse()

	cfg, err := game.LoadSettings(configPath)
	if err != nil {
		log.Fatal(err)
	}
	g, err := game.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(g.Metrics().Registry, promhttp.HandlerOpts{}))
		go func() {
			log.Printf("[Metrics] serving on %s/metrics", cfg.Metrics.Addr)
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				log.Printf("[Metrics] %v", err)
			}
		}()
	}

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
