package metrics

import (
	"context"
	"regexp"
	"strings"
)

// gpuClasses are the lspci device classes that describe a graphics adapter
var gpuClasses = []string{"vga compatible controller", "3d controller", "display controller"}

var revisionSuffix = regexp.MustCompile(`\s*\(rev [0-9a-fA-F]+\)$`)

// GPUs returns one entry per graphics adapter reported by lspci
func (s *Source) GPUs(ctx context.Context) ([]string, error) {
	out, err := s.Run(ctx, "lspci")
	if err != nil {
		return nil, err
	}
	return ParseLspci(string(out)), nil
}

// ParseLspci extracts adapter names from default lspci output, e.g.
// "00:02.0 VGA compatible controller: Intel Corporation UHD Graphics 620 (rev 07)"
func ParseLspci(output string) []string {
	gpus := []string{}

	for _, line := range strings.Split(output, "\n") {
		// Slot, then "<class>: <device>"
		_, rest, ok := strings.Cut(strings.TrimSpace(line), " ")
		if !ok {
			continue
		}
		class, device, ok := strings.Cut(rest, ": ")
		if !ok || !isGPUClass(class) {
			continue
		}

		device = strings.TrimSpace(revisionSuffix.ReplaceAllString(device, ""))
		if device != "" {
			gpus = append(gpus, device)
		}
	}

	return gpus
}

func isGPUClass(class string) bool {
	class = strings.ToLower(class)
	for _, c := range gpuClasses {
		if strings.Contains(class, c) {
			return true
		}
	}
	return false
}
