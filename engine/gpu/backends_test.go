package gpu

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBackends(t *testing.T) {
	cases := []struct {
		list string
		want wgpu.InstanceBackend
	}{
		{"", wgpu.InstanceBackendAll},
		{"all", wgpu.InstanceBackendAll},
		{"vulkan", wgpu.InstanceBackendVulkan},
		{"VK", wgpu.InstanceBackendVulkan},
		{"metal", wgpu.InstanceBackendMetal},
		{"d3d12", wgpu.InstanceBackendDX12},
		{"dx11", wgpu.InstanceBackendDX11},
		{"gles", wgpu.InstanceBackendGL},
		{"webgpu", wgpu.InstanceBackendBrowserWebGPU},
		{"primary", wgpu.InstanceBackendPrimary},
		{" vulkan , opengl ,", wgpu.InstanceBackendVulkan | wgpu.InstanceBackendGL},
		{"vulkan,all", wgpu.InstanceBackendAll},
	}
	for _, c := range cases {
		got, err := ParseBackends(c.list)
		require.NoError(t, err, c.list)
		assert.Equal(t, c.want, got, c.list)
	}

	_, err := ParseBackends("vulkan,glide")
	assert.ErrorContains(t, err, "glide")
}

func TestBackendsFromEnv(t *testing.T) {
	t.Setenv(BackendEnvVar, "")
	_, ok, err := BackendsFromEnv()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, wgpu.InstanceBackendMetal, resolveBackends(wgpu.InstanceBackendMetal))

	t.Setenv(BackendEnvVar, "dx12,vulkan")
	bits, ok, err := BackendsFromEnv()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, wgpu.InstanceBackendDX12|wgpu.InstanceBackendVulkan, bits)
	assert.Equal(t, bits, resolveBackends(wgpu.InstanceBackendMetal), "environment wins over configured")

	t.Setenv(BackendEnvVar, "nope")
	_, ok, err = BackendsFromEnv()
	assert.True(t, ok)
	assert.ErrorContains(t, err, BackendEnvVar)
	assert.Equal(t, wgpu.InstanceBackendMetal, resolveBackends(wgpu.InstanceBackendMetal))
}

func TestFeatureList(t *testing.T) {
	assert.Equal(t, "none", featureList(nil))
	got := featureList([]wgpu.FeatureName{wgpu.FeatureNameDepthClipControl, wgpu.FeatureNameTimestampQuery})
	assert.Equal(t, wgpu.FeatureNameDepthClipControl.String()+", "+wgpu.FeatureNameTimestampQuery.String(), got)
}
