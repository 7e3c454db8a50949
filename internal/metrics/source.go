// Package metrics reads individual pieces of host information.
//
// Every accessor goes through a Source so that external commands, files,
// environment variables and gopsutil calls can be replaced in tests.
package metrics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/shirou/gopsutil/v4/sensors"
)

var (
	// ErrEnvNotSet is returned when a required environment variable is empty
	ErrEnvNotSet = errors.New("environment variable not set")
	// ErrNoCPU is returned when no CPU model can be read
	ErrNoCPU = errors.New("no cpu information")
	// ErrNoDevice is returned when no device name can be read
	ErrNoDevice = errors.New("no device information")
	// ErrNoDistro is returned when the distribution cannot be identified
	ErrNoDistro = errors.New("no distribution information")
)

// Runner runs an external command and returns its standard output
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Source bundles the system access used by the accessors
type Source struct {
	Run      Runner
	Getenv   func(key string) string
	ReadFile func(path string) ([]byte, error)
	ReadDir  func(path string) ([]os.DirEntry, error)
	Getppid  func() int

	CPUInfo       func(ctx context.Context) ([]cpu.InfoStat, error)
	VirtualMem    func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	UptimeSeconds func(ctx context.Context) (uint64, error)
	Platform      func(ctx context.Context) (platform, family, version string, err error)
	SensorTemps   func(ctx context.Context) ([]sensors.TemperatureStat, error)
	Process       func(ctx context.Context, pid int32) (name string, ppid int32, err error)
	Product       func() (vendor, name string)
}

// NewSource returns a Source backed by the running system
func NewSource(commandTimeout time.Duration) *Source {
	return &Source{
		Run:           ExecRunner(commandTimeout),
		Getenv:        os.Getenv,
		ReadFile:      os.ReadFile,
		ReadDir:       os.ReadDir,
		Getppid:       os.Getppid,
		CPUInfo:       cpu.InfoWithContext,
		VirtualMem:    mem.VirtualMemoryWithContext,
		UptimeSeconds: host.UptimeWithContext,
		Platform:      host.PlatformInformationWithContext,
		SensorTemps:   sensors.TemperaturesWithContext,
		Process:       processInfo,
		Product:       dmiProduct,
	}
}

// ExecRunner runs commands with exec, bounding each one by timeout.
// Standard error is folded into the returned error.
func ExecRunner(timeout time.Duration) Runner {
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		var stderr bytes.Buffer
		cmd := exec.CommandContext(ctx, name, args...)
		cmd.Stderr = &stderr

		out, err := cmd.Output()
		if err != nil {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
			}
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return out, nil
	}
}

// processInfo returns the name and parent pid of a process
func processInfo(ctx context.Context, pid int32) (string, int32, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return "", 0, err
	}

	name, err := p.NameWithContext(ctx)
	if err != nil {
		return "", 0, err
	}

	ppid, err := p.PpidWithContext(ctx)
	if err != nil {
		return name, 0, nil
	}

	return name, ppid, nil
}

// Env returns the value of a required environment variable
func (s *Source) Env(key string) (string, error) {
	value := strings.TrimSpace(s.Getenv(key))
	if value == "" {
		return "", fmt.Errorf("%s: %w", key, ErrEnvNotSet)
	}
	return value, nil
}

// countLines counts the non-blank lines of command output
func countLines(out []byte) int {
	count := 0
	for _, line := range strings.Split(string(out), "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
