// Command server runs the authoritative tick loop: a fixed-rate ticker
// drives pkg/server.Server.RunTick over a TCP transport, exposing
// Prometheus metrics over HTTP and shutting down gracefully on SIGINT/SIGTERM.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cascad-cs2d/netcore/pkg/collision"
	"github.com/cascad-cs2d/netcore/pkg/logging"
	"github.com/cascad-cs2d/netcore/pkg/metrics"
	"github.com/cascad-cs2d/netcore/pkg/network"
	"github.com/cascad-cs2d/netcore/pkg/server"
	"github.com/cascad-cs2d/netcore/pkg/simcore"
)

var (
	listenAddr  = flag.String("listen", ":7777", "TCP address to listen on")
	metricsAddr = flag.String("metrics-addr", ":9100", "Address to serve /metrics on")
)

func main() {
	flag.Parse()

	log := logging.NewLoggerFromEnv().WithField("component", "server")

	world := collision.NewWorld(nil, simcore.Vec2{X: simcore.PlayerSize / 2, Y: simcore.PlayerSize / 2})
	spawnPoints := []simcore.Vec2{
		{X: 0, Y: 0}, {X: 400, Y: 0}, {X: 0, Y: 400}, {X: 400, Y: 400},
	}

	reg := prometheus.NewRegistry()
	m := metrics.NewServer(reg)

	cfg := network.DefaultServerConfig()
	cfg.Address = *listenAddr
	transport := network.NewServer(cfg)
	if err := transport.Start(); err != nil {
		log.WithError(err).Fatal("failed to start transport")
	}

	srv := server.NewServer(transport, world, log, m, spawnPoints)

	httpSrv := &http.Server{Addr: *metricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("metrics server stopped")
		}
	}()

	go func() {
		for err := range transport.Errors() {
			log.WithError(err).Debug("transport error")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Duration(simcore.TickDT * float64(time.Second)))
	defer ticker.Stop()

	log.WithField("addr", *listenAddr).Info("server listening")

	for {
		select {
		case <-ticker.C:
			srv.RunTick(simcore.TickDT)
		case <-ctx.Done():
			log.Info("shutting down")
			_ = httpSrv.Close()
			_ = transport.Stop()
			return
		}
	}
}
