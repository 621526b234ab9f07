// Package retention evaluates backup retention compliance. Each category
// (manual, update, hourly, daily, weekly, monthly, yearly) gets one
// bucket comparing the count of backups the policy expects against the
// count actually observed in the snapshot history; an unsatisfied bucket
// signals an under-backed-up repository.
package retention
