// Package todo defines todo records and reads and writes the todo file.
//
// The todo file (todos.json by default) is a single JSON array. Each element
// is a record with exactly three fields:
//
//	[
//	  {
//	    "id": "5b0f6f0e-2f58-4a57-9b2c-2d4f3a1c9e10",
//	    "task": "Housework",
//	    "status": "Pending"
//	  }
//	]
//
// # Status Values
//
//   - "Pending": not started (label "Pending")
//   - "InProgress": being worked on (label "In progress")
//   - "Completed": done (label "Completed")
//
// Any status may move to any other status.
//
// # Loading
//
// A missing file loads as an empty list. A file that is not valid JSON, does
// not match the embedded JSON Schema (see Schema), or repeats an id fails with
// a *DecodeError; errors.Is(err, ErrCorrupt) reports true for it.
//
// # File Format
//
// When writing the todo file, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - "[]" for an empty list
//   - A temporary file renamed over the target, so the file is never seen half written
package todo
