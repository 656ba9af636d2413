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

//go:build amd64.v3 && !amd64.v4

package mv

// GOAMD64=v3 adds AVX/AVX2, FMA, F16C, and the BMI extensions.
var buildFeatures = []string{
	"sse", "sse2", "sse3", "ssse3", "sse4.1", "sse4.2", "popcnt",
	"avx", "avx2", "fma", "f16c", "bmi1", "bmi2",
}
