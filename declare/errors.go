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

import "fmt"

// DeclarationError indicates malformed declaration syntax: a literal where
// an identifier was expected, a value of the wrong shape, or a missing
// required key. Pos is the byte offset into the declaration source.
type DeclarationError struct {
	Pos int
	Msg string
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("declaration error at offset %d: %s", e.Pos, e.Msg)
}

// DuplicateKeyError indicates the same declaration key was supplied twice.
// Pos locates the second occurrence.
type DuplicateKeyError struct {
	Key string
	Pos int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("key %q already provided (offset %d)", e.Key, e.Pos)
}

// UnknownKeyError indicates a declaration key that is not part of the closed
// configuration set. Unrecognized keys are always rejected, never ignored.
type UnknownKeyError struct {
	Key string
	Pos int
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unexpected key %q (offset %d)", e.Key, e.Pos)
}
