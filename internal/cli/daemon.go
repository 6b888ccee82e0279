package cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agent-aura/aura/internal/codexwatch"
	"github.com/agent-aura/aura/internal/config"
	"github.com/agent-aura/aura/internal/debugserver"
	"github.com/agent-aura/aura/internal/event"
	"github.com/agent-aura/aura/internal/ipc"
	"github.com/agent-aura/aura/internal/logging"
	"github.com/agent-aura/aura/internal/procwatch"
	"github.com/agent-aura/aura/internal/registry"
)

const procwatchInterval = 5 * time.Second

func newDaemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the Aura background daemon",
		RunE:  runDaemon,
	}
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()
	if verboseCount == 0 {
		log.SetLevel(logging.ParseLevel(cfg.LogLevel))
	}

	reg := registry.New(cfg.StaleAfter)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var wg sync.WaitGroup

	srv := ipc.NewServer(cfg.SocketPath, reg.Apply)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.ListenAndServe(ctx); err != nil {
			log.Warnf("ipc server stopped: %v", err)
		}
	}()

	watcher := codexwatch.New(cfg.CodexHome, func(ev event.AgentEvent) { reg.Apply(ev) })
	watcher.DiscoverWindow = cfg.DiscoverWindow
	watcher.RescanInterval = cfg.RescanInterval
	watcher.BootstrapReplayLines = cfg.BootstrapReplayLines
	wg.Add(1)
	go func() {
		defer wg.Done()
		watcher.Start(ctx)
	}()

	if cfg.DebugServer.Enabled {
		sampler := procwatch.NewSampler(procwatchInterval)
		wg.Add(1)
		go func() {
			defer wg.Done()
			sampler.Run(ctx)
		}()

		dbg := debugserver.New(cfg.DebugServer.Host, cfg.DebugServer.Port, reg, sampler)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := dbg.ListenAndServe(ctx); err != nil {
				log.Warnf("debug server stopped: %v", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for {
		select {
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				reloaded, err := loadConfig()
				if err != nil {
					log.Warnf("config reload failed: %v", err)
					continue
				}
				for _, change := range config.Diff(cfg, reloaded) {
					log.Infof("config change: %s", change)
				}
				if verboseCount == 0 {
					log.SetLevel(logging.ParseLevel(reloaded.LogLevel))
				}
				cfg = reloaded
			default:
				log.Infof("shutting down")
				cancel()
				wg.Wait()
				return nil
			}
		case <-ctx.Done():
			wg.Wait()
			return nil
		}
	}
}
