// Package server manages the lifecycle of a local Appium server: probe
// it, start it when absent, and stop it again only if we started it.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os/exec"
	"strconv"
	"time"

	"github.com/devicelab-dev/humanflow/pkg/logger"
)

// Defaults for a stock Appium install.
const (
	DefaultHost           = "127.0.0.1"
	DefaultPort           = 4723
	DefaultStartupTimeout = 30 * time.Second

	probeInterval = 500 * time.Millisecond
)

// Manager supervises one Appium server process.
type Manager struct {
	Host           string
	Port           int
	StartupTimeout time.Duration

	cmd         *exec.Cmd
	startedByUs bool
	client      *http.Client
}

// NewManager creates a manager with defaults filled in.
func NewManager(host string, port int) *Manager {
	if host == "" {
		host = DefaultHost
	}
	if port == 0 {
		port = DefaultPort
	}
	return &Manager{
		Host:           host,
		Port:           port,
		StartupTimeout: DefaultStartupTimeout,
		client:         &http.Client{Timeout: 2 * time.Second},
	}
}

// URL returns the server base URL.
func (m *Manager) URL() string {
	return fmt.Sprintf("http://%s:%d", m.Host, m.Port)
}

// IsRunning probes the server status endpoint.
func (m *Manager) IsRunning() bool {
	resp, err := m.client.Get(m.URL() + "/status")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// EnsureRunning probes the server and starts it if nothing answers.
// It returns once the server responds or the startup timeout passes.
func (m *Manager) EnsureRunning(ctx context.Context) error {
	if m.IsRunning() {
		logger.Debug("appium server already running at %s", m.URL())
		return nil
	}

	logger.Info("starting appium server on port %d", m.Port)
	cmd := exec.Command("appium", "--port", strconv.Itoa(m.Port), "--address", m.Host)
	cmd.Stdout = logger.GetWriter()
	cmd.Stderr = logger.GetWriter()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start appium: %w", err)
	}
	m.cmd = cmd
	m.startedByUs = true

	timeout := m.StartupTimeout
	if timeout <= 0 {
		timeout = DefaultStartupTimeout
	}
	deadline := time.Now().Add(timeout)

	for {
		if m.IsRunning() {
			logger.Info("appium server ready at %s", m.URL())
			return nil
		}
		if time.Now().After(deadline) {
			m.Stop()
			return fmt.Errorf("appium server did not become ready within %s", timeout)
		}
		select {
		case <-ctx.Done():
			m.Stop()
			return ctx.Err()
		case <-time.After(probeInterval):
		}
	}
}

// StartedByUs reports whether this manager spawned the server process.
func (m *Manager) StartedByUs() bool {
	return m.startedByUs
}

// Stop terminates the server, but only if this manager started it. A
// server that was already running is left alone.
func (m *Manager) Stop() error {
	if !m.startedByUs || m.cmd == nil || m.cmd.Process == nil {
		logger.Debug("appium server not started by us, leaving it running")
		return nil
	}

	logger.Info("stopping appium server (pid %d)", m.cmd.Process.Pid)
	if err := m.cmd.Process.Kill(); err != nil {
		return fmt.Errorf("failed to stop appium: %w", err)
	}
	m.cmd.Wait()
	m.cmd = nil
	m.startedByUs = false
	return nil
}
