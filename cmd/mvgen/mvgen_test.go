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

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ajroetker/go-multiversion/declare"
	"github.com/ajroetker/go-multiversion/mv"
)

const fixtureSrc = `package kernels

//mv:dispatch clones("x86_64+avx2+fma", "arm64+neon"), dispatcher = "indirect"
func addTo(dst, a, b []float32) {
	for i := range dst {
		dst[i] = a[i] + b[i]
	}
}

func addTo_avx2_fma(dst, a, b []float32) {
	for i := range dst {
		dst[i] = a[i] + b[i]
	}
}

func addTo_neon(dst, a, b []float32) {
	for i := range dst {
		dst[i] = a[i] + b[i]
	}
}

//mv:dispatch clones("x86_64+sse4.2")
func crcSum(data []byte) uint32 {
	return 0
}

func crcSum_sse42(data []byte) uint32 {
	return 0
}
`

func writeFixture(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestScanFile(t *testing.T) {
	sf, err := scanFile(writeFixture(t, "kernels.go", fixtureSrc))
	if err != nil {
		t.Fatalf("scanFile() error: %v", err)
	}
	if sf.pkgName != "kernels" {
		t.Errorf("pkgName = %q, want kernels", sf.pkgName)
	}
	if len(sf.points) != 2 {
		t.Fatalf("got %d dispatch points, want 2", len(sf.points))
	}

	add := sf.points[0]
	if add.baseName != "addTo" || add.wrapperName != "AddTo" {
		t.Errorf("point = %s/%s, want addTo/AddTo", add.baseName, add.wrapperName)
	}
	if len(add.impls) != 2 {
		t.Fatalf("got %d impls, want 2", len(add.impls))
	}
	if add.impls[0].funcName != "addTo_avx2_fma" {
		t.Errorf("impls[0] = %q, want addTo_avx2_fma", add.impls[0].funcName)
	}
	if add.impls[1].funcName != "addTo_neon" {
		t.Errorf("impls[1] = %q, want addTo_neon", add.impls[1].funcName)
	}

	crc := sf.points[1]
	// The "." in sse4.2 is stripped from the implementation name.
	if crc.impls[0].funcName != "crcSum_sse42" {
		t.Errorf("impls[0] = %q, want crcSum_sse42", crc.impls[0].funcName)
	}
}

func TestScanFileMissingImpl(t *testing.T) {
	src := `package kernels

//mv:dispatch clones("x86_64+avx2")
func mulTo(dst, a, b []float32) {}
`
	_, err := scanFile(writeFixture(t, "kernels.go", src))
	if err == nil || !strings.Contains(err.Error(), "mulTo_avx2") {
		t.Fatalf("scanFile() error = %v, want missing implementation mulTo_avx2", err)
	}
}

func TestScanFileSignatureMismatch(t *testing.T) {
	src := `package kernels

//mv:dispatch clones("x86_64+avx2")
func mulTo(dst, a, b []float32) {}

func mulTo_avx2(dst, a []float32) {}
`
	_, err := scanFile(writeFixture(t, "kernels.go", src))
	if err == nil || !strings.Contains(err.Error(), "signature") {
		t.Fatalf("scanFile() error = %v, want signature mismatch", err)
	}
}

func TestScanFileBadDirective(t *testing.T) {
	src := `package kernels

//mv:dispatch clones("x86_64+avx2"), dispatcher = "eager"
func mulTo(dst, a, b []float32) {}

func mulTo_avx2(dst, a, b []float32) {}
`
	_, err := scanFile(writeFixture(t, "kernels.go", src))
	if err == nil {
		t.Fatal("scanFile() succeeded, want bad dispatcher token error")
	}
}

func TestEmitFile(t *testing.T) {
	sf, err := scanFile(writeFixture(t, "kernels.go", fixtureSrc))
	if err != nil {
		t.Fatalf("scanFile() error: %v", err)
	}
	src, err := emitFile(sf)
	if err != nil {
		t.Fatalf("emitFile() error: %v", err)
	}
	got := string(src)

	for _, want := range []string{
		"// Code generated by mvgen from kernels.go. DO NOT EDIT.",
		"package kernels",
		`import "github.com/ajroetker/go-multiversion/mv"`,
		"var addToDispatch = mv.NewFunc(addTo).",
		`Clone("x86_64+avx2+fma", addTo_avx2_fma).`,
		`Clone("arm64+neon", addTo_neon).`,
		"Strategy(mv.StrategyIndirect).",
		"MustBuild()",
		"func AddTo(dst, a, b []float32) {",
		"addToDispatch.Get()(dst, a, b)",
		"func CrcSum(data []byte) uint32 {",
		"return crcSumDispatch.Get()(data)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("generated code missing %q\n%s", want, got)
		}
	}
}

func TestImplName(t *testing.T) {
	tests := []struct {
		base    string
		targets []string
		want    []string
	}{
		{"addTo", []string{"x86_64+avx2+fma"}, []string{"addTo_avx2_fma"}},
		{"addTo", []string{"x86_64+sse4.2"}, []string{"addTo_sse42"}},
		{"addTo", []string{"arm64+neon"}, []string{"addTo_neon"}},
		{"addTo", []string{"x86_64"}, []string{"addTo_x86_64"}},
		// aes exists in both vocabularies; the names are disambiguated by
		// architecture instead of silently binding both to one body.
		{"seal", []string{"x86_64+aes", "arm64+aes"}, []string{"seal_x86_64_aes", "seal_arm64_aes"}},
		{"sum", []string{"x86_64+avx2", "arm64+neon"}, []string{"sum_avx2", "sum_neon"}},
	}
	for _, tt := range tests {
		specs := make([]declare.Spec, len(tt.targets))
		for i, s := range tt.targets {
			specs[i] = declare.Spec{Target: mv.MustParseTarget(s)}
		}
		for i := range specs {
			if got := implName(tt.base, specs[i].Target, specs, i); got != tt.want[i] {
				t.Errorf("implName(%q, %q) = %q, want %q", tt.base, tt.targets[i], got, tt.want[i])
			}
		}
	}
}

func TestScanFileSharedFeatureToken(t *testing.T) {
	src := `package kernels

//mv:dispatch clones("x86_64+aes", "arm64+aes")
func seal(dst, src []byte) {}

func seal_x86_64_aes(dst, src []byte) {}

func seal_arm64_aes(dst, src []byte) {}
`
	sf, err := scanFile(writeFixture(t, "kernels.go", src))
	if err != nil {
		t.Fatalf("scanFile() error: %v", err)
	}
	point := sf.points[0]
	if len(point.impls) != 2 {
		t.Fatalf("got %d impls, want 2", len(point.impls))
	}
	if point.impls[0].funcName != "seal_x86_64_aes" || point.impls[1].funcName != "seal_arm64_aes" {
		t.Errorf("impls = %s, %s; want seal_x86_64_aes, seal_arm64_aes",
			point.impls[0].funcName, point.impls[1].funcName)
	}
}

func TestScanFileGroupedResults(t *testing.T) {
	src := `package kernels

//mv:dispatch clones("x86_64+avx2")
func sumTo(a, b []float32) (s, c float32) {
	return 0, 0
}

func sumTo_avx2(a, b []float32) (s, c float32) {
	return 0, 0
}
`
	sf, err := scanFile(writeFixture(t, "kernels.go", src))
	if err != nil {
		t.Fatalf("scanFile() error: %v", err)
	}
	point := sf.points[0]
	if len(point.results) != 2 {
		t.Fatalf("got results %v, want two float32 entries", point.results)
	}

	out, err := emitFile(sf)
	if err != nil {
		t.Fatalf("emitFile() error: %v", err)
	}
	want := "func SumTo(a, b []float32) (float32, float32) {"
	if !strings.Contains(string(out), want) {
		t.Errorf("generated code missing %q\n%s", want, out)
	}
}

func TestExportedName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"addTo", "AddTo"},
		{"sum", "Sum"},
		{"crcSum", "CrcSum"},
	}
	for _, tt := range tests {
		if got := exportedName(tt.in); got != tt.want {
			t.Errorf("exportedName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
