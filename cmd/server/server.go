package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jianghu-rpg/jianghu-api/internal/config"
	"github.com/jianghu-rpg/jianghu-api/internal/dispatcher"
	"github.com/jianghu-rpg/jianghu-api/internal/errors"
	"github.com/jianghu-rpg/jianghu-api/internal/game/clanwar"
	"github.com/jianghu-rpg/jianghu-api/internal/game/combat"
	"github.com/jianghu-rpg/jianghu-api/internal/game/cooldown"
	"github.com/jianghu-rpg/jianghu-api/internal/game/equipment"
	"github.com/jianghu-rpg/jianghu-api/internal/handlers/httpapi"
	"github.com/jianghu-rpg/jianghu-api/internal/logger"
	"github.com/jianghu-rpg/jianghu-api/internal/notifier"
	"github.com/jianghu-rpg/jianghu-api/internal/orchestrators/game"
	"github.com/jianghu-rpg/jianghu-api/internal/pkg/clock"
	"github.com/jianghu-rpg/jianghu-api/internal/pkg/idgen"
	"github.com/jianghu-rpg/jianghu-api/internal/pkg/proclock"
	"github.com/jianghu-rpg/jianghu-api/internal/pkg/rng"
	"github.com/jianghu-rpg/jianghu-api/internal/redis"
	"github.com/jianghu-rpg/jianghu-api/internal/repositories/merchant"
	"github.com/jianghu-rpg/jianghu-api/internal/repositories/snapshot"
	"github.com/jianghu-rpg/jianghu-api/internal/spawner"
	"github.com/jianghu-rpg/jianghu-api/internal/world"
	"github.com/jianghu-rpg/jianghu-api/internal/worldevents"
)

var configPath string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the game engine",
	Long:  `Start the game engine: load the world snapshot, run the background timers, and serve the HTTP surface.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().StringVar(&configPath, "config", "", "path to config file")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(cfg.Log)
	defer func() { _ = log.Sync() }()

	lock, err := proclock.Acquire(cfg.LockFile)
	if err != nil {
		return errors.Wrap(err, "another instance appears to be running")
	}
	defer func() { _ = lock.Release() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	clk := clock.New()
	roller := rng.New(seed)

	redisClient, err := redis.NewClient(cfg.RedisAddr, nil)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	var snapshots snapshot.Repository
	switch cfg.Storage {
	case "redis":
		snapshots, err = snapshot.NewRedis(&snapshot.RedisConfig{Client: redisClient, Logger: log})
	default:
		snapshots, err = snapshot.NewFile(&snapshot.FileConfig{Path: cfg.SnapshotPath, Logger: log})
	}
	if err != nil {
		return err
	}

	st := world.New()
	snap, err := snapshots.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load world snapshot")
	}
	st.Restore(snap)

	sender := notifier.NewRateLimited(&notifier.LogSender{Logger: log}, cfg.SendRate)
	operator := notifier.NewOperator(sender, cfg.AdminID, log)

	gate := cooldown.New(clk)
	resolver := combat.NewResolver(roller)
	equipGen := equipment.New(roller, idgen.NewUUID("item"))
	clanWars, err := clanwar.New(&clanwar.Config{
		Resolver:  resolver,
		Equipment: equipGen,
		RNG:       roller,
		Clock:     clk,
	})
	if err != nil {
		return err
	}

	svc, err := game.New(&game.Config{
		World:     st,
		Snapshots: snapshots,
		Gate:      gate,
		Resolver:  resolver,
		Equipment: equipGen,
		ClanWars:  clanWars,
		RNG:       roller,
		ClanIDs:   idgen.NewUUID("clan"),
		Logger:    log,
		Operator:  operator,
		AdminID:   cfg.AdminID,
	})
	if err != nil {
		return err
	}

	disp, err := dispatcher.New(&dispatcher.Config{
		Service:  svc,
		Sender:   sender,
		Logger:   log,
		Operator: operator,
	})
	if err != nil {
		return err
	}

	spawn, err := spawner.New(&spawner.Config{
		World:    st,
		Sender:   sender,
		Clock:    clk,
		RNG:      roller,
		IDGen:    idgen.NewUUID("monster"),
		Logger:   log,
		Interval: cfg.SpawnInterval,
	})
	if err != nil {
		return err
	}
	// Monsters restored from the snapshot have no expiry timer; retire
	// the ones whose lifetime already passed before the ticks take over.
	spawn.SweepExpired()
	go spawn.Run(ctx)
	go worldevents.New(st, sender, roller, log).Run(ctx)

	merchants, err := merchant.NewRedis(&merchant.RedisConfig{Client: redisClient, Clock: clk})
	if err != nil {
		return err
	}
	api, err := httpapi.New(&httpapi.Config{
		Merchants:     merchants,
		BotToken:      cfg.BotToken,
		JWTSecret:     cfg.JWTSecret,
		AdminPassword: cfg.AdminPassword,
		StaticDir:     cfg.StaticDir,
		Clock:         clk,
		Logger:        log,
	})
	if err != nil {
		return err
	}

	router := api.Router()
	// Inbound chat lines arrive over HTTP; the chat transport that
	// produces them lives outside this process.
	router.POST("/webhook", func(c *gin.Context) {
		var msg dispatcher.Message
		if err := c.ShouldBindJSON(&msg); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid message"})
			return
		}
		go disp.Handle(ctx, msg)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	serveErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-serveErr:
		log.Error("http server failed", zap.Error(err))
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown incomplete", zap.Error(err))
	}

	if err := snapshots.Save(shutdownCtx, st.Snapshot()); err != nil {
		log.Error("failed to save final snapshot", zap.Error(err))
	} else {
		log.Info("world snapshot saved")
	}
	return nil
}
