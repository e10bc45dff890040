package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrdg/saxophone/audio"
	"github.com/mrdg/saxophone/server"
	"github.com/spf13/cobra"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := audio.NewContext(sampleRate)
	synth, err := newSynth(ctx)
	if err != nil {
		return err
	}
	sink, err := audio.NewSink(sampleRate, ctx)
	if err != nil {
		return err
	}
	defer sink.Stop()
	if err := sink.Start(); err != nil {
		return err
	}

	sigCtx, stop := signalContext()
	defer stop()
	srv := server.New(server.Config{Addr: listenAddr, Velocity: velocity}, ctx, synth)
	return srv.Run(sigCtx)
}
