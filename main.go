package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"Emberveil/commands"
	"Emberveil/internal/config"
	"Emberveil/internal/game"
	"Emberveil/internal/logger"
	"Emberveil/internal/store"
	"Emberveil/internal/web"
)

const archiveInterval = time.Hour

func main() {
	configPath := flag.String("config", "", "Path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Setup("info", "text").Error("load configuration", "error", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg.Log.Level, cfg.Log.Format)

	content, err := config.LoadContent(cfg.ContentPath)
	if err != nil {
		log.Error("load world content", "path", cfg.ContentPath, "error", err)
		os.Exit(1)
	}
	world, err := game.LoadWorld(content)
	if err != nil {
		log.Error("build world", "error", err)
		os.Exit(1)
	}
	if cfg.LockWait > 0 {
		world.SetLockWait(cfg.LockWait)
	}

	accounts, err := game.NewAccountManager(filepath.Join(cfg.DataDir, "accounts.json"))
	if err != nil {
		log.Error("open accounts", "error", err)
		os.Exit(1)
	}
	accounts.SetAdminAccount(cfg.AdminAccount)

	var players game.PlayerStore
	var source store.ProfileSource
	if cfg.Redis.Enabled {
		rs := store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		players = rs
		source = rs
		log.Info("player store", "backend", "redis", "addr", cfg.Redis.Addr)
	} else {
		fs, err := store.NewFileStore(filepath.Join(cfg.DataDir, "players"))
		if err != nil {
			log.Error("open player store", "error", err)
			os.Exit(1)
		}
		players = fs
		source = fs
		log.Info("player store", "backend", "file", "dir", filepath.Join(cfg.DataDir, "players"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var archiver *store.Archiver
	if cfg.Archive.Enabled {
		archiver, err = store.NewArchiver(cfg.Archive.Path)
		if err != nil {
			log.Error("open archive", "error", err)
			os.Exit(1)
		}
		go func() {
			ticker := time.NewTicker(archiveInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					path, err := archiver.Snapshot(source)
					if err != nil {
						log.Error("archive snapshot", "error", err)
						continue
					}
					log.Info("archive snapshot written", "path", path)
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	sessions := game.NewSessions(world, players, commands.Dispatch, log)

	errc := make(chan error, 2)
	go func() {
		ws := web.NewServer(sessions, accounts, log)
		errc <- ws.ListenAndServe(cfg.WebAddr)
	}()
	go func() {
		telnet := game.NewTelnetServer(cfg.TelnetAddr, sessions, accounts, log)
		telnet.TLS = cfg.TLS.Enabled
		telnet.CertFile = cfg.TLS.CertFile
		telnet.KeyFile = cfg.TLS.KeyFile
		errc <- telnet.ListenAndServe()
	}()

	exitCode := 0
	select {
	case err := <-errc:
		log.Error("server failed", "error", err)
		exitCode = 1
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}
	stop()

	if archiver != nil {
		path, err := archiver.Snapshot(source)
		if err != nil {
			log.Error("final archive snapshot", "error", err)
		} else {
			log.Info("final archive snapshot written", "path", path)
		}
	}
	os.Exit(exitCode)
}
