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

import (
	"fmt"
	"slices"
	"time"

	"github.com/resticmon/resticmon/pkg/model"
)

// Period lengths for the theoretical-maximum computation. Month and year
// are fixed approximations; found-count bucketing below uses exact
// calendar boundaries.
const (
	dayPeriod   = 24 * time.Hour
	weekPeriod  = 7 * dayPeriod
	monthPeriod = 30 * dayPeriod
	yearPeriod  = 365 * dayPeriod
)

// Evaluate computes one compliance bucket per retention category over the
// full snapshot history. An empty history yields expected=0 and
// satisfied=true for every category.
func Evaluate(history []model.Snapshot, policy Policy, now time.Time) []model.RetentionBucket {
	buckets := make([]model.RetentionBucket, 0, len(Categories()))
	for _, category := range Categories() {
		limit := policy.Limits[category]
		expected := expectedCount(category, history, policy, now)
		found := foundCount(category, history, policy, now)
		buckets = append(buckets, model.RetentionBucket{
			Category:      category,
			PolicyLimit:   limit,
			ExpectedCount: expected,
			FoundCount:    found,
			Satisfied:     expected <= found,
		})
	}
	return buckets
}

// expectedCount derives how many backups the policy expects for a
// category, given the observed history span. A disabled category (limit
// <= 0) and an empty history both expect zero.
func expectedCount(category string, history []model.Snapshot, policy Policy, now time.Time) int {
	if len(history) == 0 {
		return 0
	}
	limit := policy.limit(category)
	if limit == 0 {
		return 0
	}

	switch category {
	case CategoryManual, CategoryUpdate:
		return limit
	case CategoryHourly:
		count := 0
		for _, h := range policy.ExpectedHours {
			if h >= 0 && h <= now.Hour() {
				count++
			}
		}
		return count
	case CategoryDaily:
		return periodicExpected(history, now, dayPeriod, limit)
	case CategoryWeekly:
		return periodicExpected(history, now, weekPeriod, limit)
	case CategoryMonthly:
		return periodicExpected(history, now, monthPeriod, limit)
	case CategoryYearly:
		return periodicExpected(history, now, yearPeriod, limit)
	default:
		return 0
	}
}

// periodicExpected caps the policy limit by the theoretical maximum
// number of backups possible since the oldest snapshot. The category only
// becomes active once a full period has elapsed.
func periodicExpected(history []model.Snapshot, now time.Time, period time.Duration, limit int) int {
	elapsed := now.Sub(anchor(history, now.Location()))
	if elapsed < period {
		return 0
	}
	theoretical := int(elapsed / period)
	return min(theoretical, limit)
}

// anchor is the timestamp of the oldest snapshot in the history.
func anchor(history []model.Snapshot, loc *time.Location) time.Time {
	oldest := history[0].Timestamp
	for _, snap := range history[1:] {
		if snap.Timestamp < oldest {
			oldest = snap.Timestamp
		}
	}
	return time.Unix(oldest, 0).In(loc)
}

// foundCount counts the backups observed for a category. Manual and
// update match on their configured tag sets over the whole history.
// Hourly counts raw SLA snapshots inside today's full-day window; daily,
// weekly, monthly, and yearly count distinct calendar buckets containing
// at least one SLA snapshot, so several same-day snapshots only satisfy
// one day.
func foundCount(category string, history []model.Snapshot, policy Policy, now time.Time) int {
	switch category {
	case CategoryManual:
		return countTagged(history, policy.ManualTags)
	case CategoryUpdate:
		return countTagged(history, policy.UpdateTags)
	case CategoryHourly:
		return countSLAToday(history, policy, now)
	case CategoryDaily:
		return countSLABuckets(history, policy, now, func(t time.Time) string {
			return t.Format("2006-01-02")
		})
	case CategoryWeekly:
		return countSLABuckets(history, policy, now, func(t time.Time) string {
			year, week := t.ISOWeek()
			return fmt.Sprintf("%04d-W%02d", year, week)
		})
	case CategoryMonthly:
		return countSLABuckets(history, policy, now, func(t time.Time) string {
			return t.Format("2006-01")
		})
	case CategoryYearly:
		return countSLABuckets(history, policy, now, func(t time.Time) string {
			return t.Format("2006")
		})
	default:
		return 0
	}
}

// countTagged counts snapshots whose tag set intersects the given set.
func countTagged(history []model.Snapshot, tags []string) int {
	count := 0
	for _, snap := range history {
		if intersects(snap.Tags, tags) {
			count++
		}
	}
	return count
}

// countSLAToday counts SLA snapshots within today's calendar day.
func countSLAToday(history []model.Snapshot, policy Policy, now time.Time) int {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(dayPeriod)

	count := 0
	for _, snap := range history {
		if !slices.Contains(snap.Tags, policy.SLATag) {
			continue
		}
		t := time.Unix(snap.Timestamp, 0).In(now.Location())
		if !t.Before(dayStart) && t.Before(dayEnd) {
			count++
		}
	}
	return count
}

// countSLABuckets counts distinct calendar buckets containing at least
// one SLA snapshot across the full history.
func countSLABuckets(history []model.Snapshot, policy Policy, now time.Time, key func(time.Time) string) int {
	seen := make(map[string]struct{})
	for _, snap := range history {
		if !slices.Contains(snap.Tags, policy.SLATag) {
			continue
		}
		t := time.Unix(snap.Timestamp, 0).In(now.Location())
		seen[key(t)] = struct{}{}
	}
	return len(seen)
}

func intersects(a, b []string) bool {
	for _, x := range a {
		if slices.Contains(b, x) {
			return true
		}
	}
	return false
}
