// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// shimcheck: a tool for validating shim model files against a method
// registry. It instantiates every declared shim, printing the resolved
// parameter mappings and reporting the entries that had to be dropped, and
// optionally searches the synthetic call edges for cycles.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/awslabs/ar-dex-tools/analysis/config"
	"github.com/awslabs/ar-dex-tools/analysis/dex"
	"github.com/awslabs/ar-dex-tools/analysis/shims"
	"github.com/awslabs/ar-dex-tools/internal/formatutil"
	"github.com/awslabs/ar-dex-tools/internal/funcutil"
)

var (
	configPath = flag.String("config", "", "Config file path for the shim analysis")
)

const usage = ` Validate shim model files against a method registry.
Usage:
    shimcheck -config config.yaml
The config file names the method registry and the shim model files, see the config package.
`

func main() {
	flag.Parse()

	if *configPath == "" {
		_, _ = fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
		os.Exit(2)
	}

	config.SetGlobalConfig(*configPath)
	cfg, err := config.LoadGlobal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config %s: %v\n", *configPath, err)
		os.Exit(1)
	}
	logger := config.NewLogGroup(cfg)

	registry := dex.NewRegistry()
	if cfg.MethodRegistry == "" {
		fmt.Fprintf(os.Stderr, "config %s declares no method-registry\n", *configPath)
		os.Exit(1)
	}
	logger.Infof(formatutil.Faint("Reading method registry")+" %s\n", cfg.MethodRegistry)
	if err := registry.LoadMethods(cfg.RelPath(cfg.MethodRegistry)); err != nil {
		fmt.Fprintf(os.Stderr, "could not load method registry: %v\n", err)
		os.Exit(1)
	}
	logger.Infof("%d methods loaded\n", registry.NumMethods())

	var decls []shims.Declaration
	for _, model := range cfg.ShimModels {
		logger.Infof(formatutil.Faint("Reading shim model")+" %s\n", model)
		fileDecls, err := shims.LoadDeclarations(cfg.RelPath(model))
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not load shim model %s: %v\n", model, err)
			os.Exit(1)
		}
		decls = append(decls, fileDecls...)
	}

	start := time.Now()
	methodToShim, err := shims.InstantiateShims(logger, registry, decls)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shim instantiation failed: %v\n", err)
		os.Exit(1)
	}
	logger.Infof("Instantiated %d shims in %3.4f s\n", len(methodToShim), time.Since(start).Seconds())

	rendered := renderShims(methodToShim)
	for _, s := range rendered {
		logger.Infof("%s\n", s)
	}

	if cfg.ReportShims {
		reportFile := filepath.Join(cfg.ReportsDir, "shims-report.out")
		if err := os.WriteFile(reportFile, []byte(strings.Join(rendered, "\n")+"\n"), 0600); err != nil {
			fmt.Fprintf(os.Stderr, "could not write report: %v\n", err)
			os.Exit(1)
		}
		logger.Infof("Shim report written to %s\n", reportFile)
	}

	if cfg.WarnOnCycles {
		reportCycles(logger, methodToShim)
	}
}

// renderShims returns the debug rendering of each shim, ordered by shimmed
// method signature.
func renderShims(methodToShim map[*dex.Method]*shims.Shim) []string {
	ordered := make([]*shims.Shim, 0, len(methodToShim))
	for _, shim := range methodToShim {
		ordered = append(ordered, shim)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Method().Signature() < ordered[j].Method().Signature()
	})
	return funcutil.Map(ordered, func(s *shims.Shim) string { return s.String() })
}

func reportCycles(logger *config.LogGroup, methodToShim map[*dex.Method]*shims.Shim) {
	cycles := shims.NewEdgeGraph(methodToShim).Cycles()
	if len(cycles) == 0 {
		logger.Infof(formatutil.Green("No cycles among synthetic call edges") + "\n")
		return
	}
	for _, cycle := range cycles {
		names := funcutil.Map(cycle, func(m *dex.Method) string { return m.Signature() })
		logger.Warnf("%s: %s\n",
			formatutil.Yellow("shim cycle"),
			strings.Join(names, " -> "))
	}
}
