// Package tasks implements the background maintenance operations exposed on the cron endpoint.
//
// The core abstraction is [MaintenanceEngine], which runs named tasks against
// the persistence layer: a database health snapshot, per-section collection
// statistics, and a cleanup stub. Tasks are synchronous and idempotent; the
// cron endpoint simply dispatches by task name and reports the result.
package tasks
