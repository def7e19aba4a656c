// ABOUTME: Headless probe for audio files and marker generation
// ABOUTME: Decodes a file, prints its properties, and exports even-spaced markers
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/wavetag/wavetag-go/internal/marker"
	"github.com/wavetag/wavetag-go/pkg/audio/decode"
)

var (
	filePath   = flag.String("file", "", "Audio file to probe (mp3/wav/flac/ogg)")
	transcript = flag.String("transcript", "", "Transcript text file for even-spaced marker export")
)

func main() {
	flag.Parse()

	if *filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	buf, err := decode.LoadFile(*filePath)
	if err != nil {
		log.Fatalf("decode failed: %v", err)
	}

	fmt.Printf("file:      %s\n", *filePath)
	fmt.Printf("frames:    %d\n", buf.FrameCount())
	fmt.Printf("rate:      %d Hz\n", buf.SampleRate())
	fmt.Printf("duration:  %.3f s\n", buf.DurationMs()/1000)

	if *transcript == "" {
		return
	}

	text, err := os.ReadFile(*transcript)
	if err != nil {
		log.Fatalf("failed to read transcript: %v", err)
	}

	store := marker.NewStore()
	words := marker.SplitWords(string(text))
	store.GenerateEven(words, buf.DurationMs())

	fmt.Printf("words:     %d\n", len(words))
	fmt.Printf("positions: %s\n", store.ExportPositions())
}
