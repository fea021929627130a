// Package dedup collapses duplicate fiscal observations with a
// frequency-priority-then-tolerance policy and records every decision in an
// auditable resolution trail. Groups whose values disagree beyond the
// tolerance are never merged silently; they are escalated to a manual
// review queue.
package dedup
