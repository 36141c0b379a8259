// Package loom provides a concurrency-safe named-logger registry that fans
// formatted records out to a colorized console sink and a size-rotated file
// sink.
//
// Key features
//   - One logger instance per name: repeat lookups return the cached logger
//     without re-attaching sinks, even under concurrent access
//   - Leveled emit methods (Debug through Critical) with deferred message
//     formatting and an Exception variant that captures the error's type,
//     message and stack trace
//   - Size-based file rotation with numbered backups (<file>.1 most recent)
//     and a bounded retention count
//   - Optional one-line file format that collapses multi-line messages into
//     a single record line
//   - Configuration via struct literals or YAML/JSON files, validated at
//     construction time
//
// Typical usage
//
//	logger, err := loom.GetOrCreate("worker", loom.DefaultConfig("worker"))
//	if err != nil { panic(err) }
//	defer loom.ClearAll()
//
//	logger.Info("processed %d items", n)
//	logger.Exception(err, "transfer failed")
package loom
