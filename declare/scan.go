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
	"fmt"
	"strconv"
	"strings"
)

// form distinguishes the three attribute shapes plus bare string literals:
// `name`, `name(...)`, `name = "value"`, and `"literal"`.
type form uint8

const (
	formWord form = iota
	formList
	formAssign
	formLit
)

// meta is one parsed attribute. pos is the byte offset of its first token.
type meta struct {
	pos   int
	form  form
	name  string // identifier, except for formLit
	lit   string // value for formLit and formAssign
	items []meta // nested attributes for formList
}

type scanner struct {
	src string
	pos int
}

// parseMetaList parses a comma-separated attribute list spanning src.
// A trailing comma is permitted.
func parseMetaList(src string) ([]meta, error) {
	s := &scanner{src: src}
	metas, err := s.metaList(0)
	if err != nil {
		return nil, err
	}
	s.skipSpace()
	if s.pos < len(s.src) {
		return nil, &DeclarationError{Pos: s.pos, Msg: fmt.Sprintf("unexpected %q", s.src[s.pos])}
	}
	return metas, nil
}

// metaList parses comma-separated metas until the closing delimiter (or end
// of input when close is 0).
func (s *scanner) metaList(close byte) ([]meta, error) {
	var metas []meta
	for {
		s.skipSpace()
		if s.pos >= len(s.src) || (close != 0 && s.src[s.pos] == close) {
			return metas, nil
		}
		m, err := s.meta()
		if err != nil {
			return nil, err
		}
		metas = append(metas, m)
		s.skipSpace()
		if s.pos < len(s.src) && s.src[s.pos] == ',' {
			s.pos++
			continue
		}
		return metas, nil
	}
}

func (s *scanner) meta() (meta, error) {
	s.skipSpace()
	start := s.pos
	if s.pos >= len(s.src) {
		return meta{}, &DeclarationError{Pos: start, Msg: "unexpected end of declaration"}
	}
	if s.src[s.pos] == '"' {
		lit, err := s.stringLit()
		if err != nil {
			return meta{}, err
		}
		return meta{pos: start, form: formLit, lit: lit}, nil
	}
	name, ok := s.ident()
	if !ok {
		return meta{}, &DeclarationError{Pos: start, Msg: fmt.Sprintf("expected identifier, got %q", s.src[s.pos])}
	}
	s.skipSpace()
	if s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '(':
			s.pos++
			items, err := s.metaList(')')
			if err != nil {
				return meta{}, err
			}
			s.skipSpace()
			if s.pos >= len(s.src) || s.src[s.pos] != ')' {
				return meta{}, &DeclarationError{Pos: s.pos, Msg: "missing `)`"}
			}
			s.pos++
			return meta{pos: start, form: formList, name: name, items: items}, nil
		case '=':
			s.pos++
			s.skipSpace()
			if s.pos >= len(s.src) || s.src[s.pos] != '"' {
				return meta{}, &DeclarationError{Pos: s.pos, Msg: "expected string"}
			}
			lit, err := s.stringLit()
			if err != nil {
				return meta{}, err
			}
			return meta{pos: start, form: formAssign, name: name, lit: lit}, nil
		}
	}
	return meta{pos: start, form: formWord, name: name}, nil
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t' || s.src[s.pos] == '\n' || s.src[s.pos] == '\r') {
		s.pos++
	}
}

func (s *scanner) ident() (string, bool) {
	start := s.pos
	for s.pos < len(s.src) && isIdentByte(s.src[s.pos], s.pos > start) {
		s.pos++
	}
	if s.pos == start {
		return "", false
	}
	return s.src[start:s.pos], true
}

func isIdentByte(c byte, interior bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		return true
	case interior && c >= '0' && c <= '9':
		return true
	default:
		return false
	}
}

// stringLit consumes a double-quoted literal. Escapes follow Go string
// syntax via strconv.Unquote.
func (s *scanner) stringLit() (string, error) {
	start := s.pos
	s.pos++ // opening quote
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2
			continue
		case '"':
			s.pos++
			lit, err := strconv.Unquote(s.src[start:s.pos])
			if err != nil {
				return "", &DeclarationError{Pos: start, Msg: "malformed string literal"}
			}
			return lit, nil
		case '\n':
			return "", &DeclarationError{Pos: start, Msg: "unterminated string"}
		}
		s.pos++
	}
	return "", &DeclarationError{Pos: start, Msg: "unterminated string"}
}

// FormatSpecializations renders the declared targets for diagnostics, in
// declaration order.
func FormatSpecializations(specs []Spec) string {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Target.String()
	}
	return strings.Join(names, ", ")
}
