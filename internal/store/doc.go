// Package store loads, updates, and saves the task file.
//
// The task file (tasks.json by default) is a single JSON array:
//
//	[
//	  {
//	    "id": 1,
//	    "description": "buy milk",
//	    "completed": false
//	  }
//	]
//
// # Lifecycle
//
// Every operation is a full read-modify-write cycle. The file is read fresh at
// the start of the call, changed in memory, and written back before the call
// returns. Nothing is cached between calls, so edits made to the file by hand
// are picked up by the next command.
//
// A missing, empty, or unparseable file loads as zero tasks. Write failures are
// returned to the caller and the in-memory change is dropped.
//
// # Id Assignment
//
// Ids are positive integers. With IDPolicyMax (the default) a new task gets the
// largest existing id plus one. IDPolicyLast uses the id of the last task in the
// file plus one instead. Both start at 1 on an empty file, and both hand out a
// removed id again when the highest task was the one removed.
//
// # Writers
//
// The store assumes it is the only writer of its file. There is no locking;
// two processes updating the same file at once can lose updates or produce
// duplicate ids.
//
// # File Format
//
// When writing task files, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - Field order id, description, completed
package store
