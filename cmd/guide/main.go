package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"main/internal/journal"
	"main/internal/link"
	"main/internal/obs"
	"main/internal/ops"
	"main/internal/schema"
	"main/pkg/conn"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON config")
	addrOverride := flag.String("addr", "", "Guidance service address (overrides config)")
	pyroscopeAddr := flag.String("pyroscope", "", "Pyroscope server address (empty=disabled)")
	statusInterval := flag.Duration("status-interval", 15*time.Second, "Status log interval")
	flag.Parse()

	if err := run(*configPath, *addrOverride, *pyroscopeAddr, *statusInterval); err != nil {
		log.Fatalf("guide: %v", err)
	}
}

func run(configPath, addrOverride, pyroscopeAddr string, statusInterval time.Duration) error {
	var (
		cfg ops.Loaded
		err error
	)
	if configPath != "" {
		cfg, err = ops.Load(configPath)
	} else {
		cfg, err = ops.Resolve(ops.FileConfig{Server: ops.ServerConfig{Addr: addrOverride}})
	}
	if err != nil {
		return err
	}
	if addrOverride != "" {
		cfg.Link.Addr = addrOverride
	}

	if pyroscopeAddr != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "guide/link",
			ServerAddress:   pyroscopeAddr,
			Tags: map[string]string{
				"env": "local",
			},
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileInuseObjects,
			},
		})
		if err != nil {
			return err
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	metrics := obs.NewMetrics()
	cfg.Link.Metrics = metrics

	client, err := link.New(link.NewWSDialer(), cfg.Link)
	if err != nil {
		return err
	}

	var envelopeJournal *journal.Journal
	if cfg.JournalEnabled {
		pg, err := conn.New(cfg.Postgres)
		if err != nil {
			return err
		}
		defer func() {
			_ = pg.Close()
		}()
		envelopeJournal, err = journal.New(pg.DB())
		if err != nil {
			return err
		}
	}

	auth := cfg.Auth
	client.On(link.Listeners{
		OnConnect: func() {
			logs.Info("guidance service connected")
			client.Authenticate(schema.AuthRequest{
				Token:    auth.Token,
				DeviceID: auth.DeviceID,
			})
		},
		OnDisconnect: func(reason string) {
			logs.Infof("guidance service disconnected: %s", reason)
		},
		OnError: func(err error) {
			logs.Errorf("link error: %v", err)
		},
		OnReconnect: func(attempt int) {
			logs.Infof("reconnecting, attempt %d", attempt)
		},
		OnGuidanceResponse: func(resp schema.GuidanceResponse) {
			logs.Infof("guidance: %s (confidence %.2f)", resp.Guidance, resp.Confidence)
		},
		OnMessage: func(env schema.Envelope) {
			if envelopeJournal == nil {
				return
			}
			if err := envelopeJournal.RecordInbound(env); err != nil {
				logs.Warnf("journal inbound %s: %v", env.Type, err)
			}
		},
		OnSend: func(env schema.Envelope) {
			if envelopeJournal == nil {
				return
			}
			if err := envelopeJournal.RecordOutbound(env); err != nil {
				logs.Warnf("journal outbound %s: %v", env.Type, err)
			}
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client.Connect()
	defer client.Disconnect()

	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sys.Shutdown():
			return nil
		case <-ticker.C:
			snap := metrics.Snapshot()
			logs.Infof("link status: state=%s auth=%v queued=%d sent=%d received=%d reconnects=%d",
				client.State(), client.Authenticated(), client.QueuedCount(),
				snap.Sent, snap.Received, snap.Reconnects,
			)
		}
	}
}
