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

package declare

import (
	"errors"
	"testing"

	"github.com/ajroetker/go-multiversion/mv"
)

func TestParseClones(t *testing.T) {
	decl, err := Parse(`clones("x86_64+avx2+fma", "x86_64+sse2", "arm64+neon"), dispatcher = "indirect"`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := []string{"x86_64+avx2+fma", "x86_64+sse2", "arm64+neon"}
	if len(decl.Specializations) != len(want) {
		t.Fatalf("got %d specializations, want %d", len(decl.Specializations), len(want))
	}
	for i, s := range decl.Specializations {
		if s.Target.String() != want[i] {
			t.Errorf("Specializations[%d] = %q, want %q", i, s.Target, want[i])
		}
	}
	if decl.Strategy != mv.StrategyIndirect {
		t.Errorf("Strategy = %s, want indirect", decl.Strategy)
	}
	if decl.SupportPath != DefaultSupportPath {
		t.Errorf("SupportPath = %q, want default", decl.SupportPath)
	}
}

func TestParseVersions(t *testing.T) {
	decl, err := Parse(`versions(version(target = "x86_64+avx2"), version(target = "arm64+neon"))`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(decl.Specializations) != 2 {
		t.Fatalf("got %d specializations, want 2", len(decl.Specializations))
	}
	if decl.Strategy != mv.StrategyDefault {
		t.Errorf("Strategy = %s, want default", decl.Strategy)
	}
}

func TestParseSupportOverride(t *testing.T) {
	decl, err := Parse(`clones("x86_64+avx2"), support = "example.com/fork/mv"`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if decl.SupportPath != "example.com/fork/mv" {
		t.Errorf("SupportPath = %q", decl.SupportPath)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		check func(t *testing.T, err error)
	}{
		{
			name: "DuplicateKey",
			src:  `clones("x86_64+avx2"), dispatcher = "direct", dispatcher = "static"`,
			check: func(t *testing.T, err error) {
				var dke *DuplicateKeyError
				if !errors.As(err, &dke) {
					t.Fatalf("error = %v, want *DuplicateKeyError", err)
				}
				if dke.Key != "dispatcher" {
					t.Errorf("Key = %q, want dispatcher", dke.Key)
				}
			},
		},
		{
			name: "UnknownKey",
			src:  `clones("x86_64+avx2"), dispatchre = "direct"`,
			check: func(t *testing.T, err error) {
				var uke *UnknownKeyError
				if !errors.As(err, &uke) {
					t.Fatalf("error = %v, want *UnknownKeyError", err)
				}
				if uke.Key != "dispatchre" {
					t.Errorf("Key = %q, want dispatchre", uke.Key)
				}
			},
		},
		{
			name: "LiteralWhereIdentExpected",
			src:  `"x86_64+avx2"`,
			check: func(t *testing.T, err error) {
				var de *DeclarationError
				if !errors.As(err, &de) {
					t.Fatalf("error = %v, want *DeclarationError", err)
				}
			},
		},
		{
			name: "MissingClonesOrVersions",
			src:  `dispatcher = "direct"`,
			check: func(t *testing.T, err error) {
				var de *DeclarationError
				if !errors.As(err, &de) {
					t.Fatalf("error = %v, want *DeclarationError", err)
				}
			},
		},
		{
			name: "ClonesNotAList",
			src:  `clones = "x86_64+avx2"`,
			check: func(t *testing.T, err error) {
				var de *DeclarationError
				if !errors.As(err, &de) {
					t.Fatalf("error = %v, want *DeclarationError", err)
				}
			},
		},
		{
			name: "CloneEntryNotAString",
			src:  `clones(avx2)`,
			check: func(t *testing.T, err error) {
				var de *DeclarationError
				if !errors.As(err, &de) {
					t.Fatalf("error = %v, want *DeclarationError", err)
				}
			},
		},
		{
			name: "BadDispatcherToken",
			src:  `clones("x86_64+avx2"), dispatcher = "eager"`,
			check: func(t *testing.T, err error) {
				var de *DeclarationError
				if !errors.As(err, &de) {
					t.Fatalf("error = %v, want *DeclarationError", err)
				}
			},
		},
		{
			name: "BadTargetInsideClones",
			src:  `clones("x86_64+")`,
			check: func(t *testing.T, err error) {
				var pe *mv.ParseError
				if !errors.As(err, &pe) {
					t.Fatalf("error = %v, want *mv.ParseError", err)
				}
			},
		},
		{
			name: "VersionMissingTarget",
			src:  `versions(version(dispatcher = "direct"))`,
			check: func(t *testing.T, err error) {
				var de *DeclarationError
				if !errors.As(err, &de) {
					t.Fatalf("error = %v, want *DeclarationError", err)
				}
			},
		},
		{
			name: "VersionUnknownKey",
			src:  `versions(version(target = "x86_64+avx2", normalize = "yes"))`,
			check: func(t *testing.T, err error) {
				var uke *UnknownKeyError
				if !errors.As(err, &uke) {
					t.Fatalf("error = %v, want *UnknownKeyError", err)
				}
			},
		},
		{
			name: "UnterminatedString",
			src:  `clones("x86_64+avx2`,
			check: func(t *testing.T, err error) {
				var de *DeclarationError
				if !errors.As(err, &de) {
					t.Fatalf("error = %v, want *DeclarationError", err)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			if err == nil {
				t.Fatal("Parse() succeeded, want error")
			}
			tt.check(t, err)
		})
	}
}

func TestDuplicateKeyPosition(t *testing.T) {
	src := `clones("x86_64+avx2"), dispatcher = "direct", dispatcher = "static"`
	_, err := Parse(src)
	var dke *DuplicateKeyError
	if !errors.As(err, &dke) {
		t.Fatalf("error = %v, want *DuplicateKeyError", err)
	}
	// The reported offset is the second occurrence.
	second := len(`clones("x86_64+avx2"), dispatcher = "direct", `)
	if dke.Pos != second {
		t.Errorf("Pos = %d, want %d", dke.Pos, second)
	}
}

func TestDeclarationDispatcher(t *testing.T) {
	decl, err := Parse(`clones("x86_64+avx2", "x86_64+sse2"), dispatcher = "direct"`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	baseline := func() string { return "baseline" }
	d, err := decl.Dispatcher("sum", baseline, map[string]any{
		"x86_64+avx2": func() string { return "avx2" },
		"x86_64+sse2": func() string { return "sse2" },
	})
	if err != nil {
		t.Fatalf("Dispatcher() error: %v", err)
	}
	if d.Strategy() != mv.StrategyDirect {
		t.Errorf("Strategy() = %s, want direct", d.Strategy())
	}
	impl := d.Select(mv.NewCapabilitySet(mv.ArchX86_64, "avx2", "sse2", "sse"))
	if got := impl.(func() string)(); got != "avx2" {
		t.Errorf("Select() = %q, want avx2", got)
	}
}

func TestDeclarationDispatcherMissingImpl(t *testing.T) {
	decl, err := Parse(`clones("x86_64+avx2")`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	_, err = decl.Dispatcher("sum", func() {}, map[string]any{})
	if err == nil {
		t.Fatal("Dispatcher() succeeded with unbound target, want error")
	}
}
