package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/devicelab-dev/humanflow/pkg/config"
	"github.com/devicelab-dev/humanflow/pkg/core"
	appiumdriver "github.com/devicelab-dev/humanflow/pkg/driver/appium"
	"github.com/devicelab-dev/humanflow/pkg/driver/mock"
	"github.com/devicelab-dev/humanflow/pkg/executor"
	"github.com/devicelab-dev/humanflow/pkg/flow"
	"github.com/devicelab-dev/humanflow/pkg/logger"
	"github.com/devicelab-dev/humanflow/pkg/report"
	"github.com/devicelab-dev/humanflow/pkg/server"
	"github.com/devicelab-dev/humanflow/pkg/wait"
	"github.com/urfave/cli/v2"
)

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "Run a flow file on a device",
	ArgsUsage: "<flow-file>",
	Description: `Run a single flow file against a connected device.

Reports are written to the output directory:
  - Default: ./reports/<timestamp>/
  - With --output: <output>/<timestamp>/
  - With --output and --flatten: <output>/ (no timestamp subfolder)

Examples:
  # Basic usage
  humanflow run login.yaml

  # With environment variables
  humanflow run login.yaml -e USER=test -e PASS=secret

  # Against a remote Appium server
  humanflow --appium-url "https://hub.provider.com/wd/hub" run login.yaml

  # Dry run without a device
  humanflow --driver mock run login.yaml`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to config.yaml (default: ./config.yaml if present)",
		},
		&cli.StringSliceFlag{
			Name:    "env",
			Aliases: []string{"e"},
			Usage:   "Environment variables (KEY=VALUE)",
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "Output directory for reports (default: ./reports)",
		},
		&cli.BoolFlag{
			Name:  "flatten",
			Usage: "Don't create timestamp subfolder (requires --output)",
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "Jitter seed for reproducible pacing (0 = time-based)",
		},
		&cli.IntFlag{
			Name:  "timeout",
			Usage: "Whole-run deadline in seconds (0 = none)",
		},
	},
	Action: runFlow,
}

func runFlow(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one flow file, got %d arguments", c.NArg())
	}
	flowPath := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	outputDir, err := resolveOutputDir(c.String("output"), c.Bool("flatten"))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	logPath := filepath.Join(outputDir, "humanflow.log")
	if err := logger.Init(logPath, c.Bool("verbose")); err != nil {
		fmt.Printf("Warning: Failed to initialize logger: %v\n", err)
	}
	defer logger.Close()

	logger.Info("=== Run started ===")
	logger.Info("Flow: %s", flowPath)
	logger.Info("Output directory: %s", outputDir)
	logger.Info("Driver: %s", c.String("driver"))

	f, err := flow.ParseFile(flowPath)
	if err != nil {
		logger.Error("Flow parsing failed: %v", err)
		return err
	}
	f.ApplyEnv(mergeEnv(cfg.Env, parseEnvVars(c.StringSlice("env"))))
	if err := f.Validate(); err != nil {
		logger.Error("Flow validation failed: %v", err)
		return err
	}
	applyConfigDefaults(f, cfg, c.Int("timeout"))

	// Cancellation is honored between steps; the step in flight
	// always runs to its own completion.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		sig, ok := <-sigCh
		if !ok {
			return
		}
		logger.Info("Received signal %v, stopping after current step...", sig)
		fmt.Fprintf(os.Stderr, "\nReceived %v, stopping after current step...\n", sig)
		cancel()
	}()

	factory, srv, err := buildDriverFactory(ctx, c, cfg, f)
	if err != nil {
		logger.Error("Driver setup failed: %v", err)
		return err
	}
	if srv != nil {
		defer func() {
			if err := srv.Stop(); err != nil {
				logger.Error("Failed to stop Appium server: %v", err)
			}
		}()
	}

	seed := cfg.Seed
	if c.IsSet("seed") {
		seed = c.Int64("seed")
	}
	poller := &wait.Poller{
		Interval: time.Duration(cfg.PollIntervalMs) * time.Millisecond,
	}
	exec := executor.NewActionExecutor(poller, cfg.Delays, seed)
	orch := executor.NewOrchestrator(exec, executor.RunnerConfig{
		OnStepComplete: printStepOutcome,
	})

	fmt.Printf("\nRunning %s (%d steps)\n\n", flowName(f, flowPath), len(f.Steps))
	result := orch.Run(ctx, factory, f)

	rep := report.FromResult(result,
		report.Device{
			ID:       cfg.Device.UDID,
			Name:     cfg.Device.Name,
			Platform: cfg.Device.Platform,
		},
		report.App{ID: f.Config.AppID},
		report.RunnerInfo{Version: Version, Driver: c.String("driver")},
	)
	reportPath, werr := report.Write(outputDir, rep)
	if werr != nil {
		logger.Error("Failed to write report: %v", werr)
		fmt.Fprintf(os.Stderr, "Warning: failed to write report: %v\n", werr)
	} else {
		logger.Info("Report written to %s", reportPath)
	}

	printRunSummary(result, reportPath)
	logger.Info("=== Run finished: %s ===", result.Status)

	if result.Status == core.RunFailure {
		return fmt.Errorf("run failed: %s", result.Error)
	}
	return nil
}

// loadConfig reads the workspace config and applies CLI overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromDir(".")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// applyConfigDefaults fills flow-level gaps from the workspace config.
func applyConfigDefaults(f *flow.Flow, cfg *config.Config, timeoutSec int) {
	if cfg.ElementTimeoutMs > 0 {
		for i := range f.Steps {
			if f.Steps[i].TimeoutMs == 0 {
				f.Steps[i].TimeoutMs = cfg.ElementTimeoutMs
			}
		}
	}
	if timeoutSec > 0 {
		f.Config.TimeoutMs = timeoutSec * 1000
	} else if f.Config.TimeoutMs == 0 {
		f.Config.TimeoutMs = cfg.RunTimeoutMs
	}
}

// buildDriverFactory sets up the requested driver. For the appium
// driver it may spawn a local server first; the returned manager is
// non-nil only when the server was started by us.
func buildDriverFactory(ctx context.Context, c *cli.Context, cfg *config.Config, f *flow.Flow) (core.DriverFactory, *server.Manager, error) {
	switch c.String("driver") {
	case "mock":
		return newMockFactory(f), nil, nil

	case "appium", "":
		serverURL := c.String("appium-url")
		var srv *server.Manager
		if serverURL == "" {
			serverURL = cfg.ServerURL()
			if cfg.Appium.AutoStart {
				mgr := server.NewManager(cfg.Appium.Host, cfg.Appium.Port)
				if err := mgr.EnsureRunning(ctx); err != nil {
					return nil, nil, fmt.Errorf("appium server not available: %w", err)
				}
				if mgr.StartedByUs() {
					srv = mgr
				}
			}
		}
		factory := appiumdriver.Factory(appiumdriver.Config{
			ServerURL:    serverURL,
			Platform:     cfg.Device.Platform,
			DeviceName:   cfg.Device.Name,
			UDID:         cfg.Device.UDID,
			AppPackage:   cfg.Device.AppPackage,
			AppActivity:  cfg.Device.AppActivity,
			NoReset:      cfg.Device.NoReset,
			Capabilities: cfg.Device.Capabilities,
		})
		return factory, srv, nil

	default:
		return nil, nil, fmt.Errorf("unknown driver: %s (expected appium or mock)", c.String("driver"))
	}
}

// newMockFactory builds a mock driver where every element the flow
// refers to is present immediately. Useful for validating a flow
// without a device.
func newMockFactory(f *flow.Flow) core.DriverFactory {
	elements := make(map[string]int)
	for _, step := range f.Steps {
		if step.Kind.NeedsSelector() {
			elements[step.Selector.Describe()] = 0
		}
	}
	return mock.New(mock.Config{Elements: elements}).Factory()
}

// parseEnvVars converts KEY=VALUE pairs into a map.
func parseEnvVars(pairs []string) map[string]string {
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}

// mergeEnv layers override values on top of base.
func mergeEnv(base, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// resolveOutputDir determines the output directory based on flags.
// - No --output: ./reports/<timestamp>/
// - --output given: <output>/<timestamp>/
// - --output + --flatten: <output>/ (error if --output not given)
func resolveOutputDir(output string, flatten bool) (string, error) {
	if flatten && output == "" {
		return "", fmt.Errorf("--flatten requires --output to be specified")
	}

	baseDir := output
	if baseDir == "" {
		baseDir = "./reports"
	}

	if flatten {
		return filepath.Clean(baseDir), nil
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(baseDir, timestamp), nil
}

func flowName(f *flow.Flow, path string) string {
	if f.Config.Name != "" {
		return f.Config.Name
	}
	return filepath.Base(path)
}
