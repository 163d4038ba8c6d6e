// Package logger implements the append-only, JSON-lines decision audit
// log: one line per evaluation, rotated at a fixed size, written with
// restrictive file permissions.
package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/brightloom/pathguard/internal/policy"
	"github.com/brightloom/pathguard/internal/redact"
)

// defaultMaxLogBytes is the file size at which the log is rotated (10 MB).
const defaultMaxLogBytes = 10 * 1024 * 1024

// DecisionEvent is one audit log entry: a policy evaluation and its
// outcome.
type DecisionEvent struct {
	Timestamp     string         `json:"timestamp"`
	PolicyNames   []string       `json:"policy_names"`
	Path          string         `json:"path"`
	Capability    string         `json:"capability"`
	Context       map[string]any `json:"context,omitempty"`
	Allowed       bool           `json:"allowed"`
	ExplicitDeny  bool           `json:"explicit_deny,omitempty"`
	MatchedRule   string         `json:"matched_rule,omitempty"`
	MatchedPolicy string         `json:"matched_policy,omitempty"`
	Reason        string         `json:"reason"`
	Source        string         `json:"source,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// NewDecisionEvent builds a DecisionEvent from an evaluation result,
// already redacting the context map.
func NewDecisionEvent(timestamp string, policyNames []string, capability policy.Capability, path string, ctx map[string]any, result policy.EvaluationResult) DecisionEvent {
	event := DecisionEvent{
		Timestamp:    timestamp,
		PolicyNames:  policyNames,
		Path:         path,
		Capability:   capability.String(),
		Context:      redact.RedactContext(ctx),
		Allowed:      result.Allowed,
		ExplicitDeny: result.ExplicitDeny,
		Reason:       result.Reason,
	}
	if result.MatchedRule != nil {
		event.MatchedRule = result.MatchedRule.Path()
	}
	if result.MatchedPolicy != nil {
		event.MatchedPolicy = result.MatchedPolicy.Name()
	}
	return event
}

// DecisionLogger appends DecisionEvents to a JSON-lines file.
type DecisionLogger struct {
	path string
	file *os.File
	mu   sync.Mutex
}

// New opens (creating if necessary) the log file at path for append.
func New(path string) (*DecisionLogger, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}

	return &DecisionLogger{path: path, file: file}, nil
}

// rotateIfNeeded rotates the log file if it has reached defaultMaxLogBytes.
// It renames the current file to <path>.1 (dropping any existing .1) and
// opens a fresh log file. Must be called with l.mu held.
func (l *DecisionLogger) rotateIfNeeded() error {
	info, err := l.file.Stat()
	if err != nil {
		return fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() < defaultMaxLogBytes {
		return nil
	}

	if err := l.file.Close(); err != nil {
		return fmt.Errorf("close log before rotation: %w", err)
	}

	rotated := l.path + ".1"
	_ = os.Remove(rotated)
	if err := os.Rename(l.path, rotated); err != nil {
		return fmt.Errorf("rotate log: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open fresh log after rotation: %w", err)
	}
	l.file = f
	return nil
}

// Log appends event as one JSON line, redacting sensitive fields first.
func (l *DecisionLogger) Log(event DecisionEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.rotateIfNeeded(); err != nil {
		fmt.Fprintf(os.Stderr, "[pathguard] warning: log rotation failed: %v\n", err)
	}

	if event.Error != "" {
		event.Error = redact.Redact(event.Error)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	data = append(data, '\n')
	_, err = l.file.Write(data)
	return err
}

func (l *DecisionLogger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
