// Package remote implements the commands that talk to a running controller:
// a one-shot status query, a maintenance toggle and a polling watch that
// reports every light change.
package remote
