package main

import (
	"fmt"
	"os"
	"time"

	"github.com/emanuelegiona/gesturepad/internal/appconfig"
	"github.com/emanuelegiona/gesturepad/internal/export"
	"github.com/emanuelegiona/gesturepad/internal/fuse"
	"github.com/emanuelegiona/gesturepad/internal/gcloud"
	"github.com/emanuelegiona/gesturepad/internal/identify"
	"github.com/emanuelegiona/gesturepad/internal/logging"
	"github.com/spf13/cobra"
)

func loadAppConfig() appconfig.AppConfig {
	cfg := loadConfig()
	ac, err := appconfig.Load(cfg.AppConfigPath)
	if err != nil {
		logging.Fatalf("Could not load application config: %s", err)
	}
	return ac
}

func transcribeCmd() *cobra.Command {
	var language string
	cmd := &cobra.Command{
		Use:   "transcribe <audio file>",
		Short: "Transcribe a dictation recording with word timestamps",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			client, err := gcloud.NewSpeechClient(cmd.Context(), loadAppConfig(), language)
			if err != nil {
				logging.Fatalf("Could not create speech client: %s", err)
			}
			op, err := client.ProcessAudio(cmd.Context(), args[0])
			if err != nil {
				logging.Fatalf("Could not submit audio: %s", err)
			}
			words, transcript, err := client.Words(cmd.Context(), op, 2*time.Second)
			if err != nil {
				logging.Fatalf("Recognition failed: %s", err)
			}
			fmt.Println(transcript)
			for _, w := range words {
				fmt.Printf("%s (start: %.3f, end: %.3f)\n", w.Text, w.Start, w.End)
			}
		},
	}
	cmd.Flags().StringVar(&language, "language", "en-US", "Language used in the audio file")
	return cmd
}

func classifyCmd() *cobra.Command {
	var threshold float64
	cmd := &cobra.Command{
		Use:   "classify <image> [image...]",
		Short: "Classify gesture frames against the trained AutoML model",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			client, err := gcloud.NewGestureClient(cmd.Context(), loadAppConfig(), threshold)
			if err != nil {
				logging.Fatalf("Could not create gesture client: %s", err)
			}
			gestures, err := client.ProcessImages(cmd.Context(), args)
			if err != nil {
				logging.Fatalf("Classification failed: %s", err)
			}
			for i, g := range gestures {
				fmt.Printf("%s: %s\n", args[i], g)
			}
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0.8, "Score threshold for predictions")
	return cmd
}

func gesturesCmd() *cobra.Command {
	var (
		outDir string
		fps    float64
		stable int
	)
	cmd := &cobra.Command{
		Use:   "gestures <frame directory>",
		Short: "Detect stable gesture frames in MediaPipe output frames",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			identifier, err := identify.New(args[0], identify.Options{FPS: fps, StableFrames: stable})
			if err != nil {
				logging.Fatalf("Could not open frame directory: %s", err)
			}
			detected, err := identifier.Process()
			if err != nil {
				logging.Fatalf("Detection failed: %s", err)
			}
			fmt.Printf("Stable gestures found: %d\n", len(detected))
			if outDir == "" {
				return
			}
			paths, err := identify.WriteFrames(outDir, detected)
			if err != nil {
				logging.Fatalf("Could not write gesture frames: %s", err)
			}
			for _, p := range paths {
				fmt.Println(p)
			}
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory for detected gesture frames")
	cmd.Flags().Float64Var(&fps, "fps", 30, "Frames per second of the source video")
	cmd.Flags().IntVar(&stable, "stable-frames", 3, "Frames required to detect a gesture")
	return cmd
}

// composeCmd runs the whole backend chain: transcribe the audio, detect and
// classify gestures in the frames, fuse both streams and render the document.
func composeCmd() *cobra.Command {
	var (
		format    string
		outFile   string
		fps       float64
		tolerance float64
		threshold float64
		language  string
	)
	cmd := &cobra.Command{
		Use:   "compose <audio file> <frame directory>",
		Short: "Produce a formatted document from a dictation recording and its gesture frames",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			ac := loadAppConfig()

			var f export.Format
			switch format {
			case "html":
				f = export.NewHTML()
			case "md", "markdown":
				f = export.NewMarkdown()
			default:
				logging.Fatalf("Unknown format '%s', expected 'html' or 'md'", format)
			}

			speechClient, err := gcloud.NewSpeechClient(ctx, ac, language)
			if err != nil {
				logging.Fatalf("Could not create speech client: %s", err)
			}
			op, err := speechClient.ProcessAudio(ctx, args[0])
			if err != nil {
				logging.Fatalf("Could not submit audio: %s", err)
			}

			// Detect and classify gestures while recognition runs remotely.
			identifier, err := identify.New(args[1], identify.Options{FPS: fps})
			if err != nil {
				logging.Fatalf("Could not open frame directory: %s", err)
			}
			detected, err := identifier.Process()
			if err != nil {
				logging.Fatalf("Detection failed: %s", err)
			}

			frameDir, err := os.MkdirTemp("", "gesturepad-frames-")
			if err != nil {
				logging.Fatalf("Could not create temp directory: %s", err)
			}
			defer func() {
				_ = os.RemoveAll(frameDir)
			}()
			framePaths, err := identify.WriteFrames(frameDir, detected)
			if err != nil {
				logging.Fatalf("Could not write gesture frames: %s", err)
			}

			var events []fuse.GestureEvent
			if len(framePaths) > 0 {
				gestureClient, err := gcloud.NewGestureClient(ctx, ac, threshold)
				if err != nil {
					logging.Fatalf("Could not create gesture client: %s", err)
				}
				gestures, err := gestureClient.ProcessImages(ctx, framePaths)
				if err != nil {
					logging.Fatalf("Classification failed: %s", err)
				}
				for i, g := range gestures {
					if g == fuse.NoGesture {
						continue
					}
					event, err := fuse.NewGestureEvent(g, detected[i].Time, threshold)
					if err != nil {
						logging.Fatalf("Invalid gesture event: %s", err)
					}
					events = append(events, event)
				}
			}

			words, _, err := speechClient.Words(ctx, op, 2*time.Second)
			if err != nil {
				logging.Fatalf("Recognition failed: %s", err)
			}

			fuser, err := fuse.NewFuser(tolerance)
			if err != nil {
				logging.Fatalf("Invalid tolerance: %s", err)
			}
			tokens, err := fuser.Fuse(words, events)
			if err != nil {
				logging.Fatalf("Fusion failed: %s", err)
			}

			document := export.Render(f, tokens)
			if outFile == "" {
				fmt.Println(document)
				return
			}
			if err = os.WriteFile(outFile, []byte(document), 0644); err != nil {
				logging.Fatalf("Could not write document: %s", err)
			}
			logging.Infof("Wrote document to %s", outFile)
		},
	}
	cmd.Flags().StringVar(&format, "format", "md", "Output format: html or md")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Output file (default: stdout)")
	cmd.Flags().Float64Var(&fps, "fps", 30, "Frames per second of the source video")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0.5, "Synchronization tolerance in seconds")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.8, "Score threshold for predictions")
	cmd.Flags().StringVar(&language, "language", "en-US", "Language used in the audio file")
	return cmd
}
