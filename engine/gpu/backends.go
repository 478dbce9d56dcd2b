package gpu

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// BackendEnvVar names the environment variable that overrides the configured instance backends.
const BackendEnvVar = "WGPU_BACKEND"

var backendNames = map[string]wgpu.InstanceBackend{
	"all":       wgpu.InstanceBackendAll,
	"primary":   wgpu.InstanceBackendPrimary,
	"secondary": wgpu.InstanceBackendSecondary,
	"vulkan":    wgpu.InstanceBackendVulkan,
	"vk":        wgpu.InstanceBackendVulkan,
	"metal":     wgpu.InstanceBackendMetal,
	"mtl":       wgpu.InstanceBackendMetal,
	"dx12":      wgpu.InstanceBackendDX12,
	"d3d12":     wgpu.InstanceBackendDX12,
	"dx11":      wgpu.InstanceBackendDX11,
	"d3d11":     wgpu.InstanceBackendDX11,
	"gl":        wgpu.InstanceBackendGL,
	"gles":      wgpu.InstanceBackendGL,
	"opengl":    wgpu.InstanceBackendGL,
	"webgpu":    wgpu.InstanceBackendBrowserWebGPU,
}

// ParseBackends maps a comma separated backend list such as "vulkan,gl" onto instance backend bits.
// Names are case insensitive. An empty list, or one naming "all", selects every backend.
//
// Parameters:
//   - list: the comma separated backend names
//
// Returns:
//   - wgpu.InstanceBackend: the combined backend bits
//   - error: an error naming the first unknown backend
func ParseBackends(list string) (wgpu.InstanceBackend, error) {
	var bits wgpu.InstanceBackend
	for _, name := range strings.Split(list, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		b, ok := backendNames[name]
		if !ok {
			return wgpu.InstanceBackendAll, fmt.Errorf("unknown backend %q", name)
		}
		if b == wgpu.InstanceBackendAll {
			return wgpu.InstanceBackendAll, nil
		}
		bits |= b
	}
	return bits, nil
}

// BackendsFromEnv reads BackendEnvVar.
//
// Returns:
//   - wgpu.InstanceBackend: the parsed backend bits
//   - bool: whether the variable was set to a non-empty value
//   - error: an error if the value names an unknown backend
func BackendsFromEnv() (wgpu.InstanceBackend, bool, error) {
	value := strings.TrimSpace(os.Getenv(BackendEnvVar))
	if value == "" {
		return wgpu.InstanceBackendAll, false, nil
	}
	bits, err := ParseBackends(value)
	if err != nil {
		return wgpu.InstanceBackendAll, true, fmt.Errorf("%s: %w", BackendEnvVar, err)
	}
	return bits, true, nil
}

// resolveBackends returns the environment override when one is set and valid, otherwise configured.
func resolveBackends(configured wgpu.InstanceBackend) wgpu.InstanceBackend {
	bits, ok, err := BackendsFromEnv()
	if err != nil {
		log.Printf("[GPU] ignoring backend override: %v", err)
		return configured
	}
	if ok {
		return bits
	}
	return configured
}

// featureList formats adapter features for the log.
func featureList(features []wgpu.FeatureName) string {
	if len(features) == 0 {
		return "none"
	}
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}
