// Package models contains persistence models for tables that have no domain
// aggregate of their own. Archival records map their aggregates directly;
// the outbox queue is stored through OutboxEntryModel.
package models
