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

package mv

import (
	"errors"
	"fmt"
)

// ErrNoBaseline is returned by Finalize when a dispatch point declares
// specializations but no baseline implementation.
var ErrNoBaseline = errors.New("dispatch point has no baseline implementation")

// ParseError indicates a malformed target string.
type ParseError struct {
	Input string // the full target string
	Pos   int    // byte offset of the offending token
	Token string // the offending token, if one was recognized
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("invalid target %q: %s: %q at offset %d", e.Input, e.Msg, e.Token, e.Pos)
	}
	return fmt.Sprintf("invalid target %q: %s at offset %d", e.Input, e.Msg, e.Pos)
}

// DuplicateTargetError indicates that the same target was registered twice
// for one dispatch point. Index is the zero-based registration index of the
// second occurrence.
type DuplicateTargetError struct {
	Target Target
	Index  int
}

func (e *DuplicateTargetError) Error() string {
	return fmt.Sprintf("duplicate target %q (specialization %d)", e.Target, e.Index)
}

// UnsupportedSignatureError indicates that a dispatch point's implementations
// do not share a single call signature, or that an implementation is not a
// function at all.
type UnsupportedSignatureError struct {
	Index int    // registration index of the offending implementation, -1 for the baseline
	Got   string // the offending signature or kind
	Want  string // the signature established by the baseline
}

func (e *UnsupportedSignatureError) Error() string {
	which := fmt.Sprintf("specialization %d", e.Index)
	if e.Index < 0 {
		which = "baseline"
	}
	if e.Want == "" {
		return fmt.Sprintf("%s: not a function: %s", which, e.Got)
	}
	return fmt.Sprintf("%s has signature %s, want %s", which, e.Got, e.Want)
}
