package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	intconfig "github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/config"
	router "github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/http"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/services"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	intconfig.ConnectDB(env.MySQLDSN)
	defer intconfig.CloseDB()

	r, sweepable := router.NewRouter(env)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	if sweepable != nil {
		sweeper := services.Sweeper{Target: sweepable, Interval: env.SweepInterval}
		go sweeper.Run(sweepCtx)
	}

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		// The PSE rail may take up to 90s to answer; leave headroom.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("booking core listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly")
}
