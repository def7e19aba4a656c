// ABOUTME: Entry point for the wavetag waveform tagging tool
// ABOUTME: Parses CLI flags, sets up logging, and starts the TUI
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/wavetag/wavetag-go/internal/app"
	"github.com/wavetag/wavetag-go/internal/discovery"
	"github.com/wavetag/wavetag-go/internal/remote"
	"github.com/wavetag/wavetag-go/internal/ui"
	"github.com/wavetag/wavetag-go/internal/version"
	"github.com/wavetag/wavetag-go/pkg/audio/output"
)

var (
	filePath     = flag.String("file", envDefault("WAVETAG_FILE", ""), "Audio file to load (mp3/wav/flac/ogg)")
	transcript   = flag.String("transcript", envDefault("WAVETAG_TRANSCRIPT", ""), "Transcript text file for word markers")
	logFile      = flag.String("log-file", envDefault("WAVETAG_LOG_FILE", "wavetag.log"), "Log file path")
	noTUI        = flag.Bool("no-tui", false, "Disable TUI, keep the remote bridge and stream logs")
	audioBackend = flag.String("audio-backend", envDefault("WAVETAG_AUDIO_BACKEND", "malgo"), "Audio backend: malgo or oto")
	remoteAddr   = flag.String("remote-addr", envDefault("WAVETAG_REMOTE_ADDR", ""), "Remote bridge listen address (e.g. :8937), empty to disable")
	remotePort   = flag.Int("remote-port", 8937, "Port announced over mDNS for the remote bridge")
	advertise    = flag.Bool("advertise", false, "Advertise the remote bridge via mDNS")
)

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// .env wins over built-in defaults, flags win over both
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}
	flag.Parse()

	useTUI := !*noTUI

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI owns the terminal, so logs go only to the file
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("Starting %s %s", version.Product, version.Version)

	out, err := output.New(*audioBackend)
	if err != nil {
		log.Fatalf("audio backend: %v", err)
	}

	ctrl := app.New(out)
	defer func() { _ = ctrl.Close() }()

	if *filePath != "" {
		if err := ctrl.LoadFile(*filePath); err != nil {
			log.Fatalf("failed to load %s: %v", *filePath, err)
		}
	}

	if *transcript != "" {
		text, err := os.ReadFile(*transcript)
		if err != nil {
			log.Fatalf("failed to read transcript: %v", err)
		}
		ctrl.SetTranscript(string(text))
	}

	var bridge *remote.Server
	if *remoteAddr != "" {
		bridge = remote.NewServer(ctrl)
		go func() {
			if err := bridge.ListenAndServe(*remoteAddr); err != nil {
				log.Printf("Remote bridge error: %v", err)
			}
		}()
		defer func() { _ = bridge.Close() }()

		if *advertise {
			hostname, err := os.Hostname()
			if err != nil {
				hostname = "unknown"
			}
			adv, err := discovery.Advertise(fmt.Sprintf("%s-wavetag", hostname), *remotePort)
			if err != nil {
				log.Printf("mDNS advertisement failed: %v", err)
			} else {
				defer adv.Shutdown()
			}
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if useTUI {
		prog := ui.Run(ctrl)
		if _, err := prog.Run(); err != nil {
			log.Fatalf("TUI error: %v", err)
		}
	} else {
		log.Printf("TUI disabled, waiting for shutdown signal")
		<-sigChan
		log.Printf("Shutdown signal received")
	}

	log.Printf("Stopped")
}
