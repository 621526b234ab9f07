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

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Version
		wantErr bool
	}{
		{
			name:  "full version",
			input: "0.17.3",
			want:  Version{Major: 0, Minor: 17, Patch: 3, Precision: 3},
		},
		{
			name:  "major minor",
			input: "0.16",
			want:  Version{Major: 0, Minor: 16, Precision: 2},
		},
		{
			name:  "major only",
			input: "1",
			want:  Version{Major: 1, Precision: 1},
		},
		{
			name:  "v prefix",
			input: "v0.17.0",
			want:  Version{Major: 0, Minor: 17, Patch: 0, Precision: 3},
		},
		{
			name:  "dev suffix",
			input: "0.17.0-dev",
			want:  Version{Major: 0, Minor: 17, Patch: 0, Precision: 3, Extras: "-dev"},
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "non numeric",
			input:   "abc",
			wantErr: true,
		},
		{
			name:    "too many components",
			input:   "1.2.3.4",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVersion(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseProgramVersion(t *testing.T) {
	v, err := ParseProgramVersion("restic 0.17.3")
	require.NoError(t, err)
	assert.Equal(t, "0.17.3", v.String())

	v, err = ParseProgramVersion("0.16.2")
	require.NoError(t, err)
	assert.Equal(t, "0.16.2", v.String())

	_, err = ParseProgramVersion("")
	assert.Error(t, err)
}

func TestEqualsOrNewer(t *testing.T) {
	base := Version{Major: 0, Minor: 17, Precision: 2}

	newer := Version{Major: 0, Minor: 17, Patch: 0, Precision: 3}
	assert.True(t, newer.EqualsOrNewer(base))

	older := Version{Major: 0, Minor: 16, Patch: 9, Precision: 3}
	assert.False(t, older.EqualsOrNewer(base))

	major := Version{Major: 1, Minor: 0, Patch: 0, Precision: 3}
	assert.True(t, major.EqualsOrNewer(base))
}

func TestHasEmbeddedSummary(t *testing.T) {
	tests := []struct {
		programVersion string
		want           bool
	}{
		{"restic 0.17.0", true},
		{"restic 0.18.1", true},
		{"restic 1.0.0", true},
		{"restic 0.16.2", false},
		{"restic 0.9.6", false},
		{"", false},
		{"garbage", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HasEmbeddedSummary(tt.programVersion), tt.programVersion)
	}
}
