// Package device describes the hardware training runs on.
package device

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/klauspost/cpuid/v2"
)

// DeviceType represents the hardware device used for computation.
type DeviceType int

const (
	CPU DeviceType = iota
)

func (t DeviceType) String() string {
	if t == CPU {
		return "cpu"
	}
	return fmt.Sprintf("DeviceType(%d)", int(t))
}

// Device manages the hardware resources for neural network operations.
type Device interface {
	Type() DeviceType
	IsAvailable() bool
	Describe() string
}

// CPUDevice handles computations on the host CPU.
type CPUDevice struct {
	Brand    string
	Physical int
	Logical  int
	// Features lists the SIMD extensions gonum's kernels can benefit from.
	Features []string
}

// vectorFeatures are reported when present, in this order.
var vectorFeatures = []struct {
	id   cpuid.FeatureID
	name string
}{
	{cpuid.SSE2, "sse2"},
	{cpuid.AVX, "avx"},
	{cpuid.AVX2, "avx2"},
	{cpuid.FMA3, "fma"},
	{cpuid.AVX512F, "avx512f"},
	{cpuid.ASIMD, "asimd"},
}

func (d *CPUDevice) Type() DeviceType  { return CPU }
func (d *CPUDevice) IsAvailable() bool { return true }

// Describe returns a one-line summary suitable for a log line.
func (d *CPUDevice) Describe() string {
	brand := d.Brand
	if brand == "" {
		brand = "unknown cpu"
	}
	features := "none"
	if len(d.Features) > 0 {
		features = strings.Join(d.Features, ",")
	}
	return fmt.Sprintf("%s (%s/%s) cores=%d threads=%d simd=%s",
		brand, runtime.GOOS, runtime.GOARCH, d.Physical, d.Logical, features)
}

// Supports reports whether the CPU has the named SIMD extension.
func (d *CPUDevice) Supports(name string) bool {
	for _, f := range d.Features {
		if f == name {
			return true
		}
	}
	return false
}

// Detect inspects the host CPU.
func Detect() *CPUDevice {
	return fromInfo(cpuid.CPU)
}

func fromInfo(info cpuid.CPUInfo) *CPUDevice {
	d := &CPUDevice{
		Brand:    strings.TrimSpace(info.BrandName),
		Physical: info.PhysicalCores,
		Logical:  info.LogicalCores,
	}
	if d.Logical <= 0 {
		d.Logical = runtime.NumCPU()
	}
	for _, f := range vectorFeatures {
		if info.Supports(f.id) {
			d.Features = append(d.Features, f.name)
		}
	}
	return d
}

// GetDefaultDevice returns the best available device for the current platform.
// Only the host CPU is supported.
func GetDefaultDevice() Device {
	return Detect()
}
