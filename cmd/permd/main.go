package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	permdcmd "github.com/netgovern/netgovern/internal/cmd/permd"
)

func main() {
	cfg, err := permdcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[PERMD] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := permdcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
