// Package cli implements the amplictl command tree.
//
// # Overview
//
// Commands follow a topic/verb shape mirroring the controller's REST
// resources: status, system, source, zone, group, stream, preset, announce,
// play. The get verbs dump JSON to stdout; set and new verbs read a JSON
// document from stdin, --infile, or repeated --input key=value pairs, so
// invocations compose with pipes and jq.
//
// # Shared State
//
// An App carries the resolved configuration, the logger and one API client.
// Batch invocations build one tree and run one command; the shell command
// builds a fresh tree per input line but dispatches every line through the
// same App, which is what makes the session share a single client.
//
// # Output Discipline
//
// stdout carries command output only (JSON, or the lipgloss-styled list
// overviews). Prompts, log records and errors all go to stderr, so both
// `amplictl status get | jq .` and `amplictl shell < script.txt` stay clean.
package cli
