// Package ingestion loads catalog rows and dictionary entries into a
// writable store.
//
// The Importer writes in batches and reports progress when given a writer.
// After synonym writes it resets the shared dictionary, so the next
// resolution reloads it with the new entries. Seed files describe a small
// catalog and its dictionary in TOML.
package ingestion
