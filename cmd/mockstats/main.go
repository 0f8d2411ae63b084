package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/cloudradar-monitoring/statsboard"
)

func main() {
	listenPtr := flag.String("l", "localhost:9200", "address to listen on")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := statsboard.NewMockStatsServer(*listenPtr)
	if err := srv.Serve(ctx); err != nil {
		log.Fatal(err)
	}
}
