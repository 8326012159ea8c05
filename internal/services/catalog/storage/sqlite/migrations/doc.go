// Package migrations embeds SQL migration scripts for the catalog export store.
package migrations
