package metrics

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// devicetreeModel holds the board model on ARM and other devicetree systems
const devicetreeModel = "/sys/firmware/devicetree/base/model"

// CPU returns the processor model name
func (s *Source) CPU(ctx context.Context) (string, error) {
	cpuInfo, err := s.CPUInfo(ctx)
	if err != nil {
		return "", err
	}

	// Get CPU model from first CPU (usually all are the same)
	for _, info := range cpuInfo {
		if model := strings.TrimSpace(info.ModelName); model != "" {
			return strings.Join(strings.Fields(model), " "), nil
		}
	}

	return "", ErrNoCPU
}

// Memory returns used and total memory as "used/total"
func (s *Source) Memory(ctx context.Context) (string, error) {
	vmem, err := s.VirtualMem(ctx)
	if err != nil {
		return "", err
	}
	if vmem.Total == 0 {
		return "", fmt.Errorf("total memory reported as zero")
	}

	return FormatMemory(vmem.Used, vmem.Total), nil
}

// FormatMemory renders a used/total pair with IEC units
func FormatMemory(used, total uint64) string {
	return humanize.IBytes(used) + "/" + humanize.IBytes(total)
}

// Device returns the vendor and product name of the machine
func (s *Source) Device(ctx context.Context) (string, error) {
	vendor, name := s.Product()
	vendor, name = cleanDMI(vendor), cleanDMI(name)

	if name != "" {
		if vendor != "" && !strings.HasPrefix(strings.ToLower(name), strings.ToLower(vendor)) {
			return vendor + " " + name, nil
		}
		return name, nil
	}

	// Fallback for boards without DMI
	if data, err := s.ReadFile(devicetreeModel); err == nil {
		if model := strings.TrimSpace(strings.TrimRight(string(data), "\x00")); model != "" {
			return model, nil
		}
	}

	return "", ErrNoDevice
}

// cleanDMI drops firmware placeholder strings
func cleanDMI(value string) string {
	value = strings.TrimSpace(value)
	switch strings.ToLower(value) {
	case "to be filled by o.e.m.", "default string", "system product name", "not applicable", "none":
		return ""
	}
	return value
}
