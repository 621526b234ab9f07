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

import "testing"

func FuzzParseVersion(f *testing.F) {
	for _, seed := range []string{"0.17.0", "v1.2", "0.17.0-dev", "", "a.b.c", "1.2.3.4", "-1"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		v, err := ParseVersion(input)
		if err != nil {
			return
		}
		if v.Precision < 1 || v.Precision > 3 {
			t.Errorf("ParseVersion(%q) precision = %d", input, v.Precision)
		}
		if v.Major < 0 || v.Minor < 0 || v.Patch < 0 {
			t.Errorf("ParseVersion(%q) produced negative component: %+v", input, v)
		}
	})
}
