// Package script provides the task handler for the "script" kind: it runs
// an external command described by the payload and streams the process
// output into the structured log, line by line, as it is produced.
//
// Payload contract:
//
//	{
//	  "command": "scripts/reindex.sh",   // required
//	  "args": ["--org", "o1"],           // optional
//	  "dir": "/srv/relay"                // optional working directory
//	}
//
// The subprocess exit code is the success signal: zero completes the task,
// anything else fails it with ErrCommandFailed.
package script
