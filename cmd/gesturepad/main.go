package main

import (
	"fmt"
	"os"

	"github.com/emanuelegiona/gesturepad/internal/appconfig"
	"github.com/emanuelegiona/gesturepad/internal/config"
	"github.com/emanuelegiona/gesturepad/internal/gcloud"
	"github.com/emanuelegiona/gesturepad/internal/logging"
	"github.com/emanuelegiona/gesturepad/internal/mediapipe"
	"github.com/emanuelegiona/gesturepad/internal/provision"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "gesturepad",
		Short: "Provisioning and processing toolchain for the GesturePad multimodal editor",
	}

	var debug bool
	rootCmd.PersistentFlags().
		BoolVarP(&debug, "debug", "d", false, "Enable debug output")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.SetDebug(debug)
	}

	var provisionCmd = &cobra.Command{
		Use:   "provision",
		Short: "Run the full provisioning pipeline (libs, pip, mediapipe, patch)",
		Run: func(cmd *cobra.Command, args []string) {
			srv := newService()
			if err := srv.RunAll(cmd.Context()); err != nil {
				logging.Fatalf("Provisioning failed: %s", err)
			}
		},
	}

	for _, stage := range provision.Stages() {
		provisionCmd.AddCommand(&cobra.Command{
			Use:   stage,
			Short: fmt.Sprintf("Run only the '%s' stage", stage),
			Run: func(cmd *cobra.Command, args []string) {
				srv := newService()
				if err := srv.RunStage(cmd.Context(), stage); err != nil {
					logging.Fatalf("Stage failed: %s", err)
				}
			},
		})
	}

	var verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Check that every patched file matches its vendored source",
		Run: func(cmd *cobra.Command, args []string) {
			srv := newService()
			if err := srv.Verify(); err != nil {
				logging.Fatalf("Verification failed: %s", err)
			}
		},
	}

	var watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Re-apply patches whenever a vendored file changes",
		Run: func(cmd *cobra.Command, args []string) {
			srv := newService()
			if err := srv.WatchPatches(cmd.Context()); err != nil {
				logging.Fatalf("Watcher stopped: %s", err)
			}
		},
	}

	var statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show the last outcome of every stage and the applied patches",
		Run: func(cmd *cobra.Command, args []string) {
			srv := newService()
			runs, records, err := srv.Status(cmd.Context())
			if err != nil {
				logging.Fatalf("Could not read status: %s", err)
			}
			if len(runs) == 0 {
				fmt.Println("No provisioning runs recorded yet.")
				return
			}
			for _, run := range runs {
				line := fmt.Sprintf("%-10s %-8s %s", run.Stage, run.Status, run.StartedAt.Format("2006-01-02 15:04:05"))
				if run.Detail != "" {
					line += " (" + run.Detail + ")"
				}
				fmt.Println(line)
			}
			for _, rec := range records {
				fmt.Printf("patched    %s %s\n", rec.SHA256[:12], rec.Destination)
			}
		},
	}

	var (
		mediapipeDir string
		credentials  string
		projectID    string
		location     string
		modelID      string
	)
	var configureCmd = &cobra.Command{
		Use:   "configure",
		Short: "Update the application config (data/config.json)",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			ac, err := appconfig.Load(cfg.AppConfigPath)
			if err != nil {
				logging.Fatalf("Could not load application config: %s", err)
			}

			if mediapipeDir != "" {
				if err = ac.SetMediaPipeDir(mediapipeDir); err != nil {
					logging.Fatalf("Could not configure MediaPipe directory: %s", err)
				}
			}
			if credentials != "" {
				if err = gcloud.ValidateCredentials(cmd.Context(), credentials); err != nil {
					logging.Fatalf("Could not configure credentials: %s", err)
				}
				if err = ac.SetCredentialsPath(credentials); err != nil {
					logging.Fatalf("Could not configure credentials: %s", err)
				}
			}
			if projectID != "" {
				ac.ProjectID = projectID
			}
			if location != "" {
				ac.Location = location
			}
			if modelID != "" {
				ac.ModelID = modelID
			}

			if err = ac.Save(cfg.AppConfigPath); err != nil {
				logging.Fatalf("Could not save application config: %s", err)
			}
			fmt.Println("Configuration complete.")
		},
	}
	configureCmd.Flags().StringVar(&mediapipeDir, "mediapipe-dir", "", "Absolute path to the MediaPipe installation directory")
	configureCmd.Flags().StringVar(&credentials, "credentials", "", "Absolute path to the Google Cloud credentials file")
	configureCmd.Flags().StringVar(&projectID, "project", "", "Google Cloud project id")
	configureCmd.Flags().StringVar(&location, "location", "", "Google Cloud model location")
	configureCmd.Flags().StringVar(&modelID, "model", "", "AutoML model id")

	var buildCmd = &cobra.Command{
		Use:   "build",
		Short: "Compile the multi-hand tracking target in the patched checkout",
		Run: func(cmd *cobra.Command, args []string) {
			helper := newHelper()
			if err := helper.Build(cmd.Context()); err != nil {
				logging.Fatalf("Build failed: %s", err)
			}
		},
	}

	var inputVideo, outputVideo string
	var processCmd = &cobra.Command{
		Use:   "process",
		Short: "Run the tracking graph over a recorded video",
		Run: func(cmd *cobra.Command, args []string) {
			helper := newHelper()
			if err := helper.Process(cmd.Context(), inputVideo, outputVideo); err != nil {
				logging.Fatalf("Processing failed: %s", err)
			}
		},
	}
	processCmd.Flags().StringVarP(&inputVideo, "input", "i", "", "Path to the recorded video")
	processCmd.Flags().StringVarP(&outputVideo, "output", "o", "", "Path for the landmark-annotated output video")
	_ = processCmd.MarkFlagRequired("input")
	_ = processCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(
		provisionCmd, verifyCmd, watchCmd, statusCmd, configureCmd, buildCmd, processCmd,
		transcribeCmd(), classifyCmd(), gesturesCmd(), composeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig() config.Config {
	cfg, err := config.Get()
	if err != nil {
		logging.Fatalf("Could not load config: %s", err)
	}
	return cfg
}

func newService() *provision.Service {
	return provision.NewService(loadConfig())
}

func newHelper() *mediapipe.Helper {
	cfg := loadConfig()
	ac, err := appconfig.Load(cfg.AppConfigPath)
	if err != nil {
		logging.Fatalf("Could not load application config: %s", err)
	}
	dir := ac.MediaPipeDir
	if dir == "" {
		dir = cfg.MediaPipeDir()
	}
	helper, err := mediapipe.NewHelper(dir)
	if err != nil {
		logging.Fatalf("Could not open MediaPipe checkout: %s", err)
	}
	return helper
}
