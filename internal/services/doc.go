// Package services contains shared infrastructure for the external tool
// clients: sentinel error markers with stage-aware wrapping, context
// annotation helpers, and a process executor that runs tools in their own
// process group so cancellation can terminate the full subprocess tree.
package services
