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
	"os"
	"strconv"
	"sync"

	"k8s.io/klog/v2"
)

// Detector lazily determines the capability set of the running hardware.
// The probe runs at most once per Detector; every dispatch point sharing a
// Detector shares its cached result. The zero value is not usable; use
// NewDetector or the package-level Detect.
type Detector struct {
	once  sync.Once
	caps  CapabilitySet
	probe func() CapabilitySet
}

// NewDetector returns a Detector backed by the hardware probe for the
// running architecture. A non-nil probe overrides hardware detection, which
// is how tests pin a capability set.
func NewDetector(probe func() CapabilitySet) *Detector {
	return &Detector{probe: probe}
}

// defaultDetector is the process-wide detection cache shared by dispatch
// points that do not carry their own Detector.
var defaultDetector = NewDetector(nil)

// Detect returns the capability set of the running hardware. The hardware is
// queried once per process; subsequent calls return the cached value. When
// detection is unavailable, or NoFeaturesEnv is set, the result is the empty
// set and dispatch degrades to the baseline.
func Detect() CapabilitySet {
	return defaultDetector.Capabilities()
}

// Capabilities returns the detector's capability set, probing the hardware
// on first use. Safe for concurrent use.
func (d *Detector) Capabilities() CapabilitySet {
	d.once.Do(func() {
		if NoFeaturesEnv() {
			d.caps = NewCapabilitySet(RuntimeArch())
		} else if d.probe != nil {
			d.caps = d.probe()
		} else {
			d.caps = detectArch()
		}
		klog.V(1).Infof("mv: detected capabilities %s", d.caps)
	})
	return d.caps
}

// NoFeaturesEnv reports whether the MV_NO_FEATURES environment variable is
// set. When set, detection reports an empty capability set and every
// dispatch point uses its baseline. Useful for testing and debugging.
func NoFeaturesEnv() bool {
	val := os.Getenv("MV_NO_FEATURES")
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}
