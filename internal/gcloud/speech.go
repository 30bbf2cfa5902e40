package gcloud

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/emanuelegiona/gesturepad/internal/appconfig"
	"github.com/emanuelegiona/gesturepad/internal/fuse"
	"github.com/emanuelegiona/gesturepad/internal/logging"
	"google.golang.org/api/option"
	speech "google.golang.org/api/speech/v1"
)

const defaultLanguage = "en-US"

// SpeechClient wraps asynchronous, timestamp-enabled word recognition with
// Google Cloud Speech-to-Text.
type SpeechClient struct {
	svc      *speech.Service
	language string
}

func NewSpeechClient(ctx context.Context, cfg appconfig.AppConfig, language string) (*SpeechClient, error) {
	if cfg.Credentials == "" {
		return nil, fmt.Errorf("no credentials configured; run configure first")
	}
	if language == "" {
		language = defaultLanguage
	}

	svc, err := speech.NewService(ctx, option.WithCredentialsFile(cfg.Credentials))
	if err != nil {
		return nil, fmt.Errorf("could not create speech service: %w", err)
	}
	return &SpeechClient{svc: svc, language: language}, nil
}

// ProcessAudio submits an audio file for long-running recognition and returns
// the operation to poll. The 'default' model is the one optimized for
// long-form audio and dictation.
func (c *SpeechClient) ProcessAudio(ctx context.Context, audioPath string) (*speech.Operation, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return nil, fmt.Errorf("invalid audio file '%s': %w", audioPath, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("audio path '%s' is not a regular file", audioPath)
	}

	content, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("could not read audio file '%s': %w", audioPath, err)
	}

	req := &speech.LongRunningRecognizeRequest{
		Config: &speech.RecognitionConfig{
			Model:                 "default",
			EnableWordTimeOffsets: true,
			LanguageCode:          c.language,
		},
		Audio: &speech.RecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(content),
		},
	}

	op, err := c.svc.Speech.Longrunningrecognize(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("could not start recognition for '%s': %w", audioPath, err)
	}
	logging.Debugf("Started recognition operation %s", op.Name)
	return op, nil
}

// Words polls the operation until it completes and returns the recognized
// words with their time offsets, plus the whole transcript.
func (c *SpeechClient) Words(ctx context.Context, op *speech.Operation, pollInterval time.Duration) ([]fuse.Word, string, error) {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}

	for !op.Done {
		select {
		case <-ctx.Done():
			return nil, "", ctx.Err()
		case <-time.After(pollInterval):
		}
		var err error
		op, err = c.svc.Operations.Get(op.Name).Context(ctx).Do()
		if err != nil {
			return nil, "", fmt.Errorf("could not poll operation '%s': %w", op.Name, err)
		}
	}
	if op.Error != nil {
		return nil, "", fmt.Errorf("recognition failed: %s", op.Error.Message)
	}

	var resp speech.LongRunningRecognizeResponse
	if err := json.Unmarshal(op.Response, &resp); err != nil {
		return nil, "", fmt.Errorf("could not decode recognition response: %w", err)
	}
	if len(resp.Results) == 0 || len(resp.Results[0].Alternatives) == 0 {
		return nil, "", fmt.Errorf("recognition returned no results")
	}

	best := resp.Results[0].Alternatives[0]
	words := make([]fuse.Word, 0, len(best.Words))
	for _, w := range best.Words {
		start, err := parseOffset(w.StartTime)
		if err != nil {
			return nil, "", err
		}
		end, err := parseOffset(w.EndTime)
		if err != nil {
			return nil, "", err
		}
		word, err := fuse.NewWord(w.Word, start, end)
		if err != nil {
			return nil, "", fmt.Errorf("invalid word timing for '%s': %w", w.Word, err)
		}
		words = append(words, word)
	}
	return words, best.Transcript, nil
}

// parseOffset converts the API's duration strings ("3.100s") to seconds.
func parseOffset(offset string) (float64, error) {
	if offset == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(offset)
	if err != nil {
		return 0, fmt.Errorf("could not parse time offset '%s': %w", offset, err)
	}
	return d.Seconds(), nil
}
