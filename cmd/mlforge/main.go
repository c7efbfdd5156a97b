// Command mlforge drives the lifecycle of a generated artifact tree:
// provision creates the cloud resources the tree references, deploy
// submits a pipeline run, deprovision tears the environment down, and
// monitor attaches model monitoring. Generation itself happens in Go code
// through mlforge.Generate, so there is no generate subcommand.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/mlforge-labs/mlforge-go"
	"github.com/mlforge-labs/mlforge-go/internal/platform/env"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	baseDir := env.String("MLFORGE_BASE_DIR", "MLForge")

	var err error
	switch os.Args[1] {
	case "provision":
		err = runProvision(ctx, logger, baseDir, os.Args[2:])
	case "deploy":
		err = runDeploy(ctx, logger, baseDir, os.Args[2:])
	case "deprovision":
		err = runDeprovision(ctx, logger, baseDir, os.Args[2:])
	case "monitor":
		err = runMonitor(logger, baseDir, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error(os.Args[1]+" failed", "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: mlforge <provision|deploy|deprovision|monitor> [flags]")
}

func runProvision(ctx context.Context, logger *slog.Logger, baseDir string, args []string) error {
	fs := flag.NewFlagSet("provision", flag.ExitOnError)
	dir := fs.String("base-dir", baseDir, "artifact tree root")
	ensureBucket := fs.Bool("ensure-bucket", false, "create the storage bucket through the object-store endpoint first")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return mlforge.Provision(ctx, mlforge.ProvisionOptions{
		BaseDir:      *dir,
		Logger:       logger,
		EnsureBucket: *ensureBucket,
	})
}

func runDeploy(ctx context.Context, logger *slog.Logger, baseDir string, args []string) error {
	fs := flag.NewFlagSet("deploy", flag.ExitOnError)
	dir := fs.String("base-dir", baseDir, "artifact tree root")
	precheck := fs.Bool("precheck-bucket", false, "verify the storage bucket exists before submitting")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return mlforge.Deploy(ctx, mlforge.DeployOptions{
		BaseDir:        *dir,
		Logger:         logger,
		PrecheckBucket: *precheck,
	})
}

func runDeprovision(ctx context.Context, logger *slog.Logger, baseDir string, args []string) error {
	fs := flag.NewFlagSet("deprovision", flag.ExitOnError)
	dir := fs.String("base-dir", baseDir, "artifact tree root")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return mlforge.Deprovision(ctx, mlforge.DeprovisionOptions{BaseDir: *dir, Logger: logger})
}

func runMonitor(logger *slog.Logger, baseDir string, args []string) error {
	fs := flag.NewFlagSet("monitor", flag.ExitOnError)
	dir := fs.String("base-dir", baseDir, "artifact tree root")
	displayName := fs.String("job-display-name", "", "monitoring job display name")
	endpoint := fs.String("model-endpoint", "", "endpoint resource name of the served model")
	location := fs.String("location", "", "monitoring job location")
	interval := fs.Int("interval", 0, "monitoring interval in hours")
	sampleRate := fs.Float64("sample-rate", 0, "prediction sampling rate")
	targetField := fs.String("target-field", "", "target field of the training dataset")
	trainingDataset := fs.String("training-dataset", "", "training dataset used for skew detection")
	alertEmails := fs.String("alert-emails", "", "comma-separated alert recipients")
	autoRetrain := fs.Bool("auto-retrain", false, "retrain the pipeline on anomaly alerts")
	skew := fs.String("skew-thresholds", "", "comma-separated feature=threshold pairs")
	drift := fs.String("drift-thresholds", "", "comma-separated feature=threshold pairs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	skewThresholds, err := parseThresholds(*skew)
	if err != nil {
		return fmt.Errorf("parse skew-thresholds: %w", err)
	}
	driftThresholds, err := parseThresholds(*drift)
	if err != nil {
		return fmt.Errorf("parse drift-thresholds: %w", err)
	}

	err = mlforge.Monitor(mlforge.MonitorOptions{
		BaseDir:            *dir,
		JobDisplayName:     *displayName,
		ModelEndpoint:      *endpoint,
		MonitoringLocation: *location,
		MonitoringInterval: *interval,
		SampleRate:         *sampleRate,
		TargetField:        *targetField,
		TrainingDataset:    *trainingDataset,
		AlertEmails:        splitList(*alertEmails),
		AutoRetrain:        *autoRetrain,
		SkewThresholds:     skewThresholds,
		DriftThresholds:    driftThresholds,
	})
	if err != nil {
		return err
	}
	logger.Info("monitoring block updated", "endpoint", *endpoint)
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseThresholds(s string) (map[string]float64, error) {
	if s == "" {
		return nil, nil
	}
	out := make(map[string]float64)
	for _, pair := range strings.Split(s, ",") {
		feature, raw, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, fmt.Errorf("entry %q is not feature=threshold", pair)
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("threshold for %s: %w", feature, err)
		}
		out[feature] = value
	}
	return out, nil
}
