// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
)

const programName = "pvfrontier"

var (
	// commitHash contains the current Git revision.
	// Use mage to build to make sure this gets set.
	commitHash string

	// buildDate contains the date of the current build.
	buildDate string
)

// Version represents a SemVer 2.0.0 compatible build version
type Version struct {
	// Increment this for backwards incompatible changes
	Major int

	// Increment this for feature releases
	Minor int

	// Increment this for bug releases
	Patch int

	// Suffix is blank for release versions
	Suffix string
}

// BuildInfo describes the running binary
type BuildInfo struct {
	Program      string   `json:"program"`
	Version      string   `json:"version"`
	Commit       string   `json:"commit"`
	BuildDate    string   `json:"build_date"`
	OSArch       string   `json:"os_arch"`
	GoVersion    string   `json:"go_version"`
	Dependencies []string `json:"dependencies"`
}

// GetDependencyList returns a sorted dependency list on the format package="version".
func GetDependencyList() []string {
	var deps []string

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return deps
	}

	for _, dep := range bi.Deps {
		deps = append(deps, fmt.Sprintf("%s=%q", dep.Path, dep.Version))
	}

	sort.Strings(deps)

	return deps
}

func (v Version) String() string {
	metadata := ""
	preRelease := ""

	if v.Suffix != "" {
		preRelease = fmt.Sprintf("-%s", v.Suffix)
		if commitHash != "" {
			metadata = fmt.Sprintf("+%s", strings.ToLower(commitHash))
		}
	}

	return fmt.Sprintf("%d.%d.%d%s%s", v.Major, v.Minor, v.Patch, preRelease, metadata)
}

// GetBuildInfo collects the version, commit and dependencies of the binary
func GetBuildInfo() *BuildInfo {
	date := buildDate
	if date == "" {
		date = "unknown"
	}

	return &BuildInfo{
		Program:      programName,
		Version:      "v" + CurrentVersion.String(),
		Commit:       commitHash,
		BuildDate:    date,
		OSArch:       runtime.GOOS + "/" + runtime.GOARCH,
		GoVersion:    runtime.Version(),
		Dependencies: GetDependencyList(),
	}
}

// String creates a version string. This is what you see when running
// "pvfrontier version".
func (bi *BuildInfo) String() string {
	return fmt.Sprintf(`%s %s %s

Build Date: %s
Commit: %s
Built with: %s

Dependencies:

%s`,
		bi.Program, bi.Version, bi.OSArch, bi.BuildDate, bi.Commit, bi.GoVersion, strings.Join(bi.Dependencies, "\n"))
}
