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
	"bytes"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/ajroetker/go-multiversion/declare"
	"github.com/ajroetker/go-multiversion/mv"
)

// directivePrefix introduces a dispatch declaration in a doc comment. The
// remainder of the line is a declare attribute list.
const directivePrefix = "//mv:dispatch"

// param is one parameter group of the baseline signature, e.g. "dst, a, b
// []float32".
type param struct {
	names []string
	typ   string
}

// implBinding pairs a declared target with the implementation function that
// serves it.
type implBinding struct {
	target   mv.Target
	funcName string
}

// dispatchPoint is one annotated baseline function and everything emit needs
// to lower it.
type dispatchPoint struct {
	baseName    string
	wrapperName string
	decl        *declare.Declaration
	params      []param
	results     []string
	impls       []implBinding
	pos         token.Position
}

// scannedFile is the scan result for one source file.
type scannedFile struct {
	path    string
	pkgName string
	points  []dispatchPoint
}

// scanFile parses path and extracts its dispatch points. Files without
// directives return a scannedFile with no points.
func scanFile(path string) (*scannedFile, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}

	// Index package-level functions so implementation bodies can be matched
	// by name and signature.
	funcs := make(map[string]*ast.FuncDecl)
	for _, d := range file.Decls {
		if fd, ok := d.(*ast.FuncDecl); ok && fd.Recv == nil {
			funcs[fd.Name.Name] = fd
		}
	}

	sf := &scannedFile{path: path, pkgName: file.Name.Name}
	for _, d := range file.Decls {
		fd, ok := d.(*ast.FuncDecl)
		if !ok || fd.Doc == nil {
			continue
		}
		directive := ""
		for _, c := range fd.Doc.List {
			if strings.HasPrefix(c.Text, directivePrefix+" ") {
				directive = strings.TrimSpace(strings.TrimPrefix(c.Text, directivePrefix))
			}
		}
		if directive == "" {
			continue
		}
		point, err := buildPoint(fset, fd, directive, funcs)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", fset.Position(fd.Pos()))
		}
		sf.points = append(sf.points, *point)
	}
	return sf, nil
}

func buildPoint(fset *token.FileSet, fd *ast.FuncDecl, directive string, funcs map[string]*ast.FuncDecl) (*dispatchPoint, error) {
	decl, err := declare.Parse(directive)
	if err != nil {
		return nil, errors.Wrap(err, "parsing //mv:dispatch directive")
	}
	if fd.Type.TypeParams != nil {
		return nil, errors.Errorf("cannot dispatch generic function %s", fd.Name.Name)
	}
	if fd.Body == nil {
		return nil, errors.Errorf("baseline %s has no body", fd.Name.Name)
	}

	baseSig := renderNode(fset, fd.Type)
	point := &dispatchPoint{
		baseName:    fd.Name.Name,
		wrapperName: exportedName(fd.Name.Name),
		decl:        decl,
		pos:         fset.Position(fd.Pos()),
	}

	for _, field := range fd.Type.Params.List {
		if len(field.Names) == 0 {
			return nil, errors.Errorf("baseline %s has unnamed parameters", fd.Name.Name)
		}
		point.params = append(point.params, param{
			names: lo.Map(field.Names, func(n *ast.Ident, _ int) string { return n.Name }),
			typ:   renderNode(fset, field.Type),
		})
	}
	if fd.Type.Results != nil {
		for _, field := range fd.Type.Results.List {
			// A grouped result like (s, c float32) is one field with two
			// names; the wrapper needs one entry per result.
			typ := renderNode(fset, field.Type)
			for n := 0; n < max(1, len(field.Names)); n++ {
				point.results = append(point.results, typ)
			}
		}
	}

	for i, spec := range decl.Specializations {
		name := implName(point.baseName, spec.Target, decl.Specializations, i)
		impl, ok := funcs[name]
		if !ok {
			return nil, errors.Errorf("target %q: missing implementation %s", spec.Target, name)
		}
		if got := renderNode(fset, impl.Type); got != baseSig {
			return nil, errors.Errorf("implementation %s has signature %s, want %s", name, got, baseSig)
		}
		point.impls = append(point.impls, implBinding{target: spec.Target, funcName: name})
	}
	return point, nil
}

// implName derives the implementation function name for the i-th declared
// target: the baseline name plus the target's feature tokens, "." stripped,
// joined with underscores. x86_64+avx2+fma on addTo gives addTo_avx2_fma; a
// feature-less target appends the architecture instead. When another declared
// target shares the same feature tokens (aes exists on x86_64 and arm64), the
// architecture is prepended to keep the names distinct: addTo_x86_64_aes.
func implName(base string, target mv.Target, specs []declare.Spec, i int) string {
	name := featureImplName(base, target)
	for j, other := range specs {
		if j != i && featureImplName(base, other.Target) == name {
			return archImplName(base, target)
		}
	}
	return name
}

func featureImplName(base string, target mv.Target) string {
	feats := target.Features()
	if len(feats) == 0 {
		return archImplName(base, target)
	}
	toks := lo.Map(feats, func(f string, _ int) string {
		return strings.ReplaceAll(f, ".", "")
	})
	return base + "_" + strings.Join(toks, "_")
}

func archImplName(base string, target mv.Target) string {
	name := base + "_" + string(target.Architecture())
	for _, f := range target.Features() {
		name += "_" + strings.ReplaceAll(f, ".", "")
	}
	return name
}

func renderNode(fset *token.FileSet, node any) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, node); err != nil {
		return ""
	}
	return buf.String()
}
