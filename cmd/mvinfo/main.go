// Copyright 2025 go-multiversion Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package main provides a diagnostic tool to print the capability set mv
// detects and how sample targets dispatch on this machine.
package main

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/cpu"

	"github.com/ajroetker/go-multiversion/mv"
)

func main() {
	fmt.Printf("GOOS: %s\n", runtime.GOOS)
	fmt.Printf("GOARCH: %s\n", runtime.GOARCH)
	fmt.Printf("NumCPU: %d\n", runtime.NumCPU())
	fmt.Println()

	caps := mv.Detect()
	fmt.Printf("Detected capabilities: %s\n", caps)
	fmt.Printf("Compile-target guarantees: %s\n", mv.BuildCapabilities())
	fmt.Printf("MV_NO_FEATURES: %v\n", mv.NoFeaturesEnv())
	fmt.Println()

	printSampleTargets(caps)
	fmt.Println()

	switch runtime.GOARCH {
	case "arm64":
		printARM64Features()
	case "amd64":
		printAMD64Features()
	}
}

func printSampleTargets(caps mv.CapabilitySet) {
	samples := []string{
		"x86_64+sse2",
		"x86_64+sse4.2+popcnt",
		"x86_64+avx2+fma",
		"x86_64+avx512f+avx512vl",
		"arm64+neon",
		"arm64+neon+dotprod",
		"arm64+sve",
	}
	fmt.Println("=== Sample targets ===")
	for _, s := range samples {
		target := mv.MustParseTarget(s)
		fmt.Printf("  %-28s satisfied: %v\n", s, target.IsSatisfiedBy(caps))
	}
}

func printARM64Features() {
	fmt.Println("=== golang.org/x/sys/cpu.ARM64 ===")
	fmt.Printf("  HasASIMD:    %v (NEON baseline)\n", cpu.ARM64.HasASIMD)
	fmt.Printf("  HasASIMDHP:  %v (FP16 NEON, ARMv8.2-A)\n", cpu.ARM64.HasASIMDHP)
	fmt.Printf("  HasASIMDFHM: %v (FP16 FMA, ARMv8.4-A)\n", cpu.ARM64.HasASIMDFHM)
	fmt.Printf("  HasASIMDDP:  %v (dot product)\n", cpu.ARM64.HasASIMDDP)
	fmt.Printf("  HasSVE:      %v (Scalable Vector Extension)\n", cpu.ARM64.HasSVE)
	fmt.Printf("  HasSVE2:     %v (SVE2)\n", cpu.ARM64.HasSVE2)
	fmt.Printf("  HasAES:      %v\n", cpu.ARM64.HasAES)
	fmt.Printf("  HasSHA2:     %v\n", cpu.ARM64.HasSHA2)
	fmt.Printf("  HasSHA3:     %v\n", cpu.ARM64.HasSHA3)
	fmt.Printf("  HasCRC32:    %v\n", cpu.ARM64.HasCRC32)
	fmt.Printf("  HasATOMICS:  %v (Large System Extensions)\n", cpu.ARM64.HasATOMICS)
}

func printAMD64Features() {
	fmt.Println("=== golang.org/x/sys/cpu.X86 ===")
	fmt.Printf("  HasSSE2:    %v\n", cpu.X86.HasSSE2)
	fmt.Printf("  HasSSE42:   %v\n", cpu.X86.HasSSE42)
	fmt.Printf("  HasPOPCNT:  %v\n", cpu.X86.HasPOPCNT)
	fmt.Printf("  HasAVX:     %v\n", cpu.X86.HasAVX)
	fmt.Printf("  HasAVX2:    %v\n", cpu.X86.HasAVX2)
	fmt.Printf("  HasFMA:     %v\n", cpu.X86.HasFMA)
	fmt.Printf("  HasBMI2:    %v\n", cpu.X86.HasBMI2)
	fmt.Printf("  HasAVX512F: %v\n", cpu.X86.HasAVX512F)
	fmt.Printf("  HasAVX512BW: %v\n", cpu.X86.HasAVX512BW)
	fmt.Printf("  HasAVX512VL: %v\n", cpu.X86.HasAVX512VL)
}
