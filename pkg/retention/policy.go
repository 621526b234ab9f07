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

package retention

// Retention categories, one compliance bucket each.
const (
	CategoryManual  = "manual"
	CategoryUpdate  = "update"
	CategoryHourly  = "hourly"
	CategoryDaily   = "daily"
	CategoryWeekly  = "weekly"
	CategoryMonthly = "monthly"
	CategoryYearly  = "yearly"
)

// Categories returns the category names in reporting order.
func Categories() []string {
	return []string{
		CategoryManual,
		CategoryUpdate,
		CategoryHourly,
		CategoryDaily,
		CategoryWeekly,
		CategoryMonthly,
		CategoryYearly,
	}
}

// Policy configures retention compliance evaluation.
type Policy struct {
	// Limits maps category to its configured retention limit. A limit
	// <= 0 (or an absent category) disables the category: its expected
	// count is forced to zero.
	Limits map[string]int `yaml:"limits"`

	// ExpectedHours lists the hours of the day (0-23) in which an
	// hourly SLA backup is expected.
	ExpectedHours []int `yaml:"expectedHours"`

	// ManualTags are the tags recognized as manual backups.
	ManualTags []string `yaml:"manualTags"`

	// UpdateTags are the tags recognized as update backups.
	UpdateTags []string `yaml:"updateTags"`

	// SLATag marks snapshots subject to hourly through yearly retention
	// classification.
	SLATag string `yaml:"slaTag"`
}

// DefaultPolicy returns a Policy with the shipped tag conventions and all
// category limits disabled.
func DefaultPolicy() Policy {
	return Policy{
		Limits:     map[string]int{},
		ManualTags: []string{"manual", "pre-restore"},
		UpdateTags: []string{"update", "sync-envs"},
		SLATag:     "SLA",
	}
}

// limit returns the configured limit for a category, zero when disabled.
func (p Policy) limit(category string) int {
	l := p.Limits[category]
	if l < 0 {
		return 0
	}
	return l
}
