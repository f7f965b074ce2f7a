// Package heal provides the self-healing monitor: a small capability
// interface for subsystems that can diagnose and remediate themselves, and a
// ticker-driven Monitor that runs diagnose-then-heal cycles against them.
package heal
