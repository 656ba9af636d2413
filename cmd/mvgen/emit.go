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
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"k8s.io/klog/v2"

	"github.com/ajroetker/go-multiversion/declare"
	"github.com/ajroetker/go-multiversion/mv"
)

var titleCaser = cases.Title(language.English, cases.NoLower)

// exportedName uppercases the baseline name into the wrapper's exported
// identifier: addTo becomes AddTo.
func exportedName(base string) string {
	return titleCaser.String(base)
}

// strategyConst renders the mv constant for a strategy token, e.g.
// StrategyIndirect.
func strategyConst(s mv.Strategy) string {
	return "Strategy" + titleCaser.String(s.String())
}

// processDir scans every non-generated Go file in dir and writes one
// zmv_*.go per file containing dispatch points.
func processDir(dir string, dryRun bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, "reading %s", dir)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") ||
			strings.HasSuffix(name, "_test.go") || strings.HasPrefix(name, "zmv_") {
			continue
		}
		sf, err := scanFile(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if len(sf.points) == 0 {
			continue
		}
		src, err := emitFile(sf)
		if err != nil {
			return err
		}
		out := filepath.Join(dir, "zmv_"+name)
		if dryRun {
			fmt.Println(string(src))
			continue
		}
		if err := os.WriteFile(out, src, 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", out)
		}
		for _, p := range sf.points {
			klog.V(1).Infof("mvgen: %s: %s dispatches over [%s]",
				out, p.wrapperName, declare.FormatSpecializations(p.decl.Specializations))
		}
	}
	return nil
}

// emitFile lowers the file's dispatch points into generated Go source.
func emitFile(sf *scannedFile) ([]byte, error) {
	supportPath := sf.points[0].decl.SupportPath
	for _, p := range sf.points[1:] {
		if p.decl.SupportPath != supportPath {
			return nil, errors.Errorf("%s: conflicting support paths %q and %q in one file",
				sf.path, supportPath, p.decl.SupportPath)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by mvgen from %s. DO NOT EDIT.\n\n", filepath.Base(sf.path))
	fmt.Fprintf(&b, "package %s\n\n", sf.pkgName)
	if base := filepath.Base(supportPath); base == "mv" {
		fmt.Fprintf(&b, "import %q\n", supportPath)
	} else {
		fmt.Fprintf(&b, "import mv %q\n", supportPath)
	}

	for _, p := range sf.points {
		emitPoint(&b, &p)
	}

	src, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, errors.Wrapf(err, "formatting generated code for %s", sf.path)
	}
	return src, nil
}

func emitPoint(b *strings.Builder, p *dispatchPoint) {
	fmt.Fprintf(b, "\nvar %sDispatch = mv.NewFunc(%s).\n", p.baseName, p.baseName)
	for _, impl := range p.impls {
		fmt.Fprintf(b, "\tClone(%q, %s).\n", impl.target.String(), impl.funcName)
	}
	fmt.Fprintf(b, "\tStrategy(mv.%s).\n", strategyConst(p.decl.Strategy))
	fmt.Fprintf(b, "\tMustBuild()\n\n")

	fmt.Fprintf(b, "// %s invokes the most specialized %s implementation the running CPU supports.\n",
		p.wrapperName, p.baseName)
	fmt.Fprintf(b, "func %s(%s)%s {\n", p.wrapperName, paramList(p.params), resultList(p.results))
	call := fmt.Sprintf("%sDispatch.Get()(%s)", p.baseName, strings.Join(argNames(p.params), ", "))
	if len(p.results) > 0 {
		fmt.Fprintf(b, "\treturn %s\n", call)
	} else {
		fmt.Fprintf(b, "\t%s\n", call)
	}
	fmt.Fprintf(b, "}\n")
}

func paramList(params []param) string {
	groups := lo.Map(params, func(p param, _ int) string {
		return strings.Join(p.names, ", ") + " " + p.typ
	})
	return strings.Join(groups, ", ")
}

func argNames(params []param) []string {
	return lo.FlatMap(params, func(p param, _ int) []string { return p.names })
}

func resultList(results []string) string {
	switch len(results) {
	case 0:
		return ""
	case 1:
		return " " + results[0]
	default:
		return " (" + strings.Join(results, ", ") + ")"
	}
}
