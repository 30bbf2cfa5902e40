package gcloud

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"

	"github.com/emanuelegiona/gesturepad/internal/appconfig"
	"github.com/emanuelegiona/gesturepad/internal/fuse"
	"github.com/emanuelegiona/gesturepad/internal/logging"
	automl "google.golang.org/api/automl/v1"
	"google.golang.org/api/option"
)

const defaultPredictionThreshold = 0.8

// GestureClient classifies gesture frames against the trained AutoML Vision
// model.
type GestureClient struct {
	svc       *automl.Service
	model     string
	threshold float64
}

func NewGestureClient(ctx context.Context, cfg appconfig.AppConfig, threshold float64) (*GestureClient, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("prediction threshold must be within the range [0,1], got %f", threshold)
	}
	if cfg.Credentials == "" {
		return nil, fmt.Errorf("no credentials configured; run configure first")
	}
	if cfg.ProjectID == "" || cfg.Location == "" || cfg.ModelID == "" {
		return nil, fmt.Errorf("project, location and model must all be configured")
	}

	svc, err := automl.NewService(ctx, option.WithCredentialsFile(cfg.Credentials))
	if err != nil {
		return nil, fmt.Errorf("could not create automl service: %w", err)
	}
	return &GestureClient{
		svc:       svc,
		model:     fmt.Sprintf("projects/%s/locations/%s/models/%s", cfg.ProjectID, cfg.Location, cfg.ModelID),
		threshold: threshold,
	}, nil
}

// ProcessImages classifies a batch of gesture frames. The result keeps the
// input ordering; unreadable frames classify as NoGesture instead of failing
// the whole batch.
func (c *GestureClient) ProcessImages(ctx context.Context, imagePaths []string) ([]fuse.Gesture, error) {
	gestures := make([]fuse.Gesture, len(imagePaths))
	for i, path := range imagePaths {
		gestures[i] = fuse.NoGesture

		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			logging.Debugf("Skipping unreadable frame '%s'", path)
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			logging.Debugf("Skipping unreadable frame '%s': %s", path, err)
			continue
		}

		req := &automl.GoogleCloudAutomlV1PredictRequest{
			Payload: &automl.GoogleCloudAutomlV1ExamplePayload{
				Image: &automl.GoogleCloudAutomlV1Image{
					ImageBytes: base64.StdEncoding.EncodeToString(content),
				},
			},
			Params: map[string]string{
				"score_threshold": strconv.FormatFloat(c.threshold, 'f', -1, 64),
			},
		}

		resp, err := c.svc.Projects.Locations.Models.Predict(c.model, req).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("could not classify frame '%s': %w", path, err)
		}
		for _, payload := range resp.Payload {
			gestures[i] = fuse.ParseGesture(payload.DisplayName)
		}
	}
	return gestures, nil
}
