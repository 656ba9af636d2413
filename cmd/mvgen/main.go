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

// mvgen generates hardware-dispatch wrappers from //mv:dispatch directives.
//
// A directive sits in the doc comment of a baseline function:
//
//	//mv:dispatch clones("x86_64+avx2", "arm64+neon"), dispatcher = "indirect"
//	func addTo(dst, a, b []float32) { ... }
//
// For each declared target an implementation function must exist in the same
// package, named after the baseline plus the target's feature tokens:
// addTo_avx2, addTo_neon. mvgen emits a zmv_*.go file per annotated source
// file containing the dispatch point and an exported wrapper (AddTo) that
// forwards its arguments to the selected implementation.
//
// Usage:
//
//	mvgen [flags] [directory ...]
package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

func main() {
	var dryRun bool

	rootCmd := &cobra.Command{
		Use:           "mvgen [directory ...]",
		Short:         "Generate hardware-dispatch wrappers from //mv:dispatch directives",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs := args
			if len(dirs) == 0 {
				dirs = []string{"."}
			}
			var g errgroup.Group
			for _, dir := range dirs {
				dir := dir
				g.Go(func() error {
					return processDir(dir, dryRun)
				})
			}
			return g.Wait()
		},
	}
	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print generated code instead of writing files")

	klog.InitFlags(nil)
	rootCmd.PersistentFlags().AddGoFlagSet(goflag.CommandLine)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mvgen: %v\n", err)
		os.Exit(1)
	}
}
