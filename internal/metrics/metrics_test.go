package metrics

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/sensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource returns a Source whose every dependency is in memory
func fakeSource() *Source {
	files := fstest.MapFS{}
	return &Source{
		Run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return nil, fmt.Errorf("%s: unexpected command", name)
		},
		Getenv: func(string) string { return "" },
		ReadFile: func(path string) ([]byte, error) {
			return fs.ReadFile(files, strings.TrimPrefix(path, "/"))
		},
		ReadDir: func(path string) ([]os.DirEntry, error) {
			return fs.ReadDir(files, strings.TrimPrefix(path, "/"))
		},
		Getppid: func() int { return 100 },
		CPUInfo: func(context.Context) ([]cpu.InfoStat, error) {
			return []cpu.InfoStat{{ModelName: "Intel(R) Core(TM) i7-8550U CPU @ 1.80GHz"}}, nil
		},
		VirtualMem: func(context.Context) (*mem.VirtualMemoryStat, error) {
			return &mem.VirtualMemoryStat{Total: 16 << 30, Used: 4 << 30}, nil
		},
		UptimeSeconds: func(context.Context) (uint64, error) { return 93784, nil },
		Platform: func(context.Context) (string, string, string, error) {
			return "ubuntu", "debian", "22.04", nil
		},
		SensorTemps: func(context.Context) ([]sensors.TemperatureStat, error) { return nil, nil },
		Process: func(context.Context, int32) (string, int32, error) {
			return "", 0, errors.New("no such process")
		},
		Product: func() (string, string) { return "", "" },
	}
}

// withFiles replaces the file system behind ReadFile and ReadDir
func withFiles(s *Source, files fstest.MapFS) {
	s.ReadFile = func(path string) ([]byte, error) {
		return fs.ReadFile(files, strings.TrimPrefix(path, "/"))
	}
	s.ReadDir = func(path string) ([]os.DirEntry, error) {
		return fs.ReadDir(files, strings.TrimPrefix(path, "/"))
	}
}

// withCommands answers commands from a map keyed by the full command line
func withCommands(s *Source, outputs map[string]string) {
	s.Run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		key := strings.Join(append([]string{name}, args...), " ")
		out, ok := outputs[key]
		if !ok {
			return nil, fmt.Errorf("%s: exit status 1", name)
		}
		return []byte(out), nil
	}
}

func withEnv(s *Source, env map[string]string) {
	s.Getenv = func(key string) string { return env[key] }
}

func TestCPU(t *testing.T) {
	s := fakeSource()
	s.CPUInfo = func(context.Context) ([]cpu.InfoStat, error) {
		return []cpu.InfoStat{{ModelName: "  AMD Ryzen 5   3600  "}, {ModelName: "ignored"}}, nil
	}

	got, err := s.CPU(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AMD Ryzen 5 3600", got)

	s.CPUInfo = func(context.Context) ([]cpu.InfoStat, error) { return nil, nil }
	_, err = s.CPU(context.Background())
	assert.ErrorIs(t, err, ErrNoCPU)
}

func TestMemory(t *testing.T) {
	got, err := fakeSource().Memory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "4.0 GiB/16 GiB", got)

	s := fakeSource()
	s.VirtualMem = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return nil, errors.New("meminfo unreadable")
	}
	_, err = s.Memory(context.Background())
	assert.EqualError(t, err, "meminfo unreadable")
}

func TestDevice(t *testing.T) {
	tests := []struct {
		name    string
		vendor  string
		product string
		files   fstest.MapFS
		want    string
		wantErr error
	}{
		{"vendor and product", "LENOVO", "20KH006M", nil, "LENOVO 20KH006M", nil},
		{"product already has vendor", "Dell Inc.", "Dell Inc. XPS 13", nil, "Dell Inc. XPS 13", nil},
		{"placeholder falls back to devicetree", "", "To Be Filled By O.E.M.",
			fstest.MapFS{"sys/firmware/devicetree/base/model": {Data: []byte("Raspberry Pi 4 Model B Rev 1.4\x00")}},
			"Raspberry Pi 4 Model B Rev 1.4", nil},
		{"nothing available", "", "", fstest.MapFS{}, "", ErrNoDevice},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := fakeSource()
			s.Product = func() (string, string) { return tc.vendor, tc.product }
			if tc.files != nil {
				withFiles(s, tc.files)
			}

			got, err := s.Device(context.Background())
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDistro(t *testing.T) {
	s := fakeSource()
	withFiles(s, fstest.MapFS{
		"etc/os-release": {Data: []byte("NAME=\"Arch Linux\"\nPRETTY_NAME=\"Arch Linux\"\nID=arch\n")},
	})
	got, err := s.Distro(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Arch Linux", got)

	withFiles(s, fstest.MapFS{
		"usr/lib/os-release": {Data: []byte("NAME=\"Void\"\nID=void\n")},
	})
	got, err = s.Distro(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Void", got)

	withFiles(s, fstest.MapFS{})
	got, err = s.Distro(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ubuntu 22.04", got)

	s.Platform = func(context.Context) (string, string, string, error) { return "", "", "", nil }
	_, err = s.Distro(context.Background())
	assert.ErrorIs(t, err, ErrNoDistro)
}

func TestEnvironment(t *testing.T) {
	s := fakeSource()
	withEnv(s, map[string]string{"DESKTOP_SESSION": "plasma"})
	got, err := s.Environment(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "plasma", got)

	withEnv(s, map[string]string{"XDG_CURRENT_DESKTOP": "GNOME", "DESKTOP_SESSION": "ubuntu"})
	got, err = s.Environment(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "GNOME", got)

	withEnv(s, nil)
	_, err = s.Environment(context.Background())
	assert.ErrorIs(t, err, ErrEnvNotSet)
}

func TestEnv(t *testing.T) {
	s := fakeSource()
	withEnv(s, map[string]string{"EDITOR": "vim"})

	got, err := s.Env("EDITOR")
	require.NoError(t, err)
	assert.Equal(t, "vim", got)

	_, err = s.Env("USER")
	assert.ErrorIs(t, err, ErrEnvNotSet)
	assert.ErrorContains(t, err, "USER")
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		seconds uint64
		want    string
	}{
		{0, "0h 0m"},
		{59, "0h 0m"},
		{3660, "1h 1m"},
		{86400, "1d 0h 0m"},
		{93784, "1d 2h 3m"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatUptime(tc.seconds), "seconds=%d", tc.seconds)
	}
}

func TestUptime(t *testing.T) {
	got, err := fakeSource().Uptime(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1d 2h 3m", got)
}

func TestTerminal(t *testing.T) {
	tree := map[int32]struct {
		name string
		ppid int32
	}{
		100: {"-zsh", 90},
		90:  {"sudo", 80},
		80:  {"kitty", 1},
	}

	s := fakeSource()
	s.Process = func(_ context.Context, pid int32) (string, int32, error) {
		p, ok := tree[pid]
		if !ok {
			return "", 0, errors.New("no such process")
		}
		return p.name, p.ppid, nil
	}

	got, err := s.Terminal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "kitty", got)

	withEnv(s, map[string]string{"TERM_PROGRAM": "WezTerm"})
	got, err = s.Terminal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "WezTerm", got)

	withEnv(s, nil)
	tree[80] = struct {
		name string
		ppid int32
	}{"bash", 1}
	got, err = s.Terminal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "bash", got, "only shells up to init reports the outermost one")
}

func TestTerminalReparentedToInit(t *testing.T) {
	tests := []struct {
		name  string
		procs map[int32]string
		want  string
	}{
		{"init is systemd", map[int32]string{1: "systemd"}, "systemd"},
		{"container init is a shell", map[int32]string{1: "bash"}, "bash"},
		{"init unreadable", map[int32]string{}, "N/A"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := fakeSource()
			s.Getppid = func() int { return 1 }
			s.Process = func(_ context.Context, pid int32) (string, int32, error) {
				name, ok := tc.procs[pid]
				if !ok {
					return "", 0, errors.New("no such process")
				}
				return name, 0, nil
			}

			got, err := s.Terminal(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseLspci(t *testing.T) {
	output := `00:00.0 Host bridge: Intel Corporation Xeon E3-1200 v6/7th Gen Core Processor Host Bridge/DRAM Registers (rev 08)
00:02.0 VGA compatible controller: Intel Corporation UHD Graphics 620 (rev 07)
01:00.0 3D controller: NVIDIA Corporation GP108M [GeForce MX150] (rev a1)
02:00.0 Network controller: Intel Corporation Wireless 8265 / 8275 (rev 78)
03:00.0 Display controller: Advanced Micro Devices, Inc. [AMD/ATI] Device 1234
`
	assert.Equal(t, []string{
		"Intel Corporation UHD Graphics 620",
		"NVIDIA Corporation GP108M [GeForce MX150]",
		"Advanced Micro Devices, Inc. [AMD/ATI] Device 1234",
	}, ParseLspci(output))

	assert.Empty(t, ParseLspci("00:1f.3 Audio device: Intel Corporation Sunrise Point-LP HD Audio\n"))
	assert.Empty(t, ParseLspci(""))
}

func TestGPUs(t *testing.T) {
	s := fakeSource()
	withCommands(s, map[string]string{
		"lspci": "00:02.0 VGA compatible controller: Intel Corporation HD Graphics 530 (rev 06)\n",
	})
	got, err := s.GPUs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Intel Corporation HD Graphics 530"}, got)

	withCommands(s, nil)
	_, err = s.GPUs(context.Background())
	assert.Error(t, err)
}

func TestMusic(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		outputs map[string]string
		want    string
		wantErr bool
	}{
		{"disabled", "none", nil, "N/A", false},
		{"mpd playing", "mpd", map[string]string{"mpc current": "Boards of Canada - Roygbiv\n"}, "Boards of Canada - Roygbiv", false},
		{"mpd stopped", "mpd", map[string]string{"mpc current": "\n"}, "N/A", false},
		{"mpd missing", "mpd", nil, "", true},
		{"playerctl playing", "playerctl",
			map[string]string{"playerctl metadata --format {{ artist }} - {{ title }}": "Aphex Twin - Xtal"},
			"Aphex Twin - Xtal", false},
		{"unknown backend", "spotify", nil, "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := fakeSource()
			withCommands(s, tc.outputs)

			got, err := s.Music(context.Background(), tc.backend)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMusicPlayerctlNoPlayers(t *testing.T) {
	s := fakeSource()
	s.Run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, fmt.Errorf("%s: exit status 1: No players found", name)
	}

	got, err := s.Music(context.Background(), "playerctl")
	require.NoError(t, err)
	assert.Equal(t, "N/A", got)
}

func TestPackages(t *testing.T) {
	s := fakeSource()
	withCommands(s, map[string]string{
		"pacman -Qq":           "base\nlinux\n\nvim\n",
		"rpm -qa":              "bash-5.2\nkernel-6.5\n",
		"pip list":             "Package    Version\n---------- -------\nrequests   2.31.0\nurllib3    2.0.7\n",
		"dpkg-query -f .\n -W": ".\n.\n.\n",
	})
	withFiles(s, fstest.MapFS{
		"var/log/packages/aaa_base-15.0":           {Data: []byte{}},
		"var/log/packages/bash-5.1":                {Data: []byte{}},
		"var/db/pkg/sys-apps/portage-3.0/CONTENTS": {Data: []byte{}},
		"var/db/pkg/sys-apps/baselayout-2.14/SLOT": {Data: []byte{}},
		"var/db/pkg/app-editors/vim-9.0/SLOT":      {Data: []byte{}},
	})

	tests := []struct {
		manager string
		want    string
	}{
		{"pacman", "3"},
		{"PACMAN", "3"},
		{"dnf", "2"},
		{"zypper", "2"},
		{"pip", "2"},
		{"apt", "3"},
		{"slackware", "2"},
		{"portage", "3"},
		{"UNKNOWN", "N/A"},
		{"brew", "N/A"},
	}
	for _, tc := range tests {
		t.Run(tc.manager, func(t *testing.T) {
			got, err := s.Packages(context.Background(), tc.manager)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPackagesCommandFailure(t *testing.T) {
	s := fakeSource()
	withCommands(s, nil)

	_, err := s.Packages(context.Background(), "xbps")
	assert.Error(t, err)
	assert.True(t, KnownPackageManager("xbps"))
	assert.False(t, KnownPackageManager("UNKNOWN"))
}

func TestTemperatures(t *testing.T) {
	s := fakeSource()
	s.SensorTemps = func(context.Context) ([]sensors.TemperatureStat, error) {
		return []sensors.TemperatureStat{
			{SensorKey: "nvme_composite", Temperature: 38.87},
			{SensorKey: "acpitz", Temperature: 0},
			{SensorKey: "coretemp_package_id_0", Temperature: 51},
		}, nil
	}

	got, err := s.Temperatures(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"coretemp_package_id_0 51.0°C", "nvme_composite 38.9°C"}, got)

	s.SensorTemps = func(context.Context) ([]sensors.TemperatureStat, error) {
		return nil, errors.New("no hwmon")
	}
	_, err = s.Temperatures(context.Background())
	assert.EqualError(t, err, "no hwmon")
}

func TestTemperaturesPartialResults(t *testing.T) {
	s := fakeSource()
	s.SensorTemps = func(context.Context) ([]sensors.TemperatureStat, error) {
		return []sensors.TemperatureStat{
			{SensorKey: "k10temp_tctl", Temperature: 55.5},
		}, errors.New("hwmon3: read temp1_input: permission denied")
	}

	got, err := s.Temperatures(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"k10temp_tctl 55.5°C"}, got)
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, 0, countLines(nil))
	assert.Equal(t, 2, countLines([]byte("a\n\n  \nb\n")))
}
