// Copyright (c) 2025, the Resticmon authors.  All rights reserved.
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

// Package version parses restic client version strings and classifies
// client capabilities that depend on them.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error types for version parsing failures
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 3 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
	ErrNegativeComponent = errors.New("version component cannot be negative")
)

// Version is a semantic version with flexible precision (1, 2, or 3
// significant components). Build suffixes like "-dev" or "+local" are
// preserved in Extras.
type Version struct {
	Major int `json:"major,omitempty" yaml:"major,omitempty"`
	Minor int `json:"minor,omitempty" yaml:"minor,omitempty"`
	Patch int `json:"patch,omitempty" yaml:"patch,omitempty"`

	// Precision indicates how many components are significant (1, 2, or 3)
	Precision int `json:"precision,omitempty" yaml:"precision,omitempty"`

	// Extras stores additional version metadata like "-dev"
	Extras string `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// summaryVersion is the first restic release that embeds a backup
// summary in the snapshot record.
var summaryVersion = Version{Major: 0, Minor: 17, Precision: 2}

// String returns the version respecting its precision. Extras are not
// included.
func (v Version) String() string {
	switch v.Precision {
	case 1:
		return fmt.Sprintf("%d", v.Major)
	case 2:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
}

// ParseVersion parses a version string into a Version struct.
// Supported formats: "1", "1.2", "1.2.3", "v1.2.3", "1.2.3-suffix".
// The "v" prefix is optional and stripped if present.
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return Version{}, ErrEmptyVersion
	}

	s = strings.TrimPrefix(s, "v")
	var v Version

	// Extract extras: anything after a dash or plus that follows a
	// digit, so "0.17.0-dev" keeps "-dev" and a leading dash is not
	// mistaken for a negative component.
	mainPart := s
	for i, ch := range s {
		if (ch == '-' || ch == '+') && i > 0 {
			prevCh := s[i-1]
			if prevCh >= '0' && prevCh <= '9' {
				mainPart = s[:i]
				v.Extras = s[i:]
				break
			}
		}
	}

	parts := strings.Split(mainPart, ".")
	if len(parts) > 3 {
		return Version{}, ErrTooManyComponents
	}

	for i, part := range parts {
		if part == "" {
			return Version{}, fmt.Errorf("%w: empty component", ErrNonNumeric)
		}
		num, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		if num < 0 {
			return Version{}, fmt.Errorf("%w: %d", ErrNegativeComponent, num)
		}

		switch i {
		case 0:
			v.Major = num
		case 1:
			v.Minor = num
		case 2:
			v.Patch = num
		}
	}

	v.Precision = len(parts)
	return v, nil
}

// ParseProgramVersion parses the program_version field of a snapshot
// record, which restic reports as "restic <version>".
func ParseProgramVersion(s string) (Version, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Version{}, ErrEmptyVersion
	}
	return ParseVersion(fields[len(fields)-1])
}

// EqualsOrNewer returns true if v is equal to or newer than other.
// Comparison is performed up to the precision of v.
func (v Version) EqualsOrNewer(other Version) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	if v.Precision == 1 {
		return true
	}
	if v.Minor != other.Minor {
		return v.Minor > other.Minor
	}
	if v.Precision == 2 {
		return true
	}
	return v.Patch >= other.Patch
}

// HasEmbeddedSummary reports whether a client with the given
// program_version embeds a backup summary in its snapshot records
// (restic 0.17 and newer). Unparsable or absent versions are treated as
// predating the summary, matching old clients that did not report a
// version at all.
func HasEmbeddedSummary(programVersion string) bool {
	v, err := ParseProgramVersion(programVersion)
	if err != nil {
		return false
	}
	return v.EqualsOrNewer(summaryVersion)
}
