package editor

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/threagile/editor-e2e/pkg/errors"
)

const (
	StatusJSError = "JS_ERROR"
	StatusWarning = "Warning"
)

// ScriptResult is the envelope every editor script evaluates to.
type ScriptResult struct {
	Status        string          `json:"status"`
	Data          json.RawMessage `json:"data,omitempty"`
	Message       string          `json:"message,omitempty"`
	Stack         string          `json:"stack,omitempty"`
	ID            string          `json:"id,omitempty"`
	Value         string          `json:"value,omitempty"`
	Count         int             `json:"count,omitempty"`
	IDs           []string        `json:"ids,omitempty"`
	SelectedCount int             `json:"selectedCount,omitempty"`
}

// Check turns a JS_ERROR or an empty result into a ScriptError. Warnings are
// logged and otherwise treated as success.
func (r ScriptResult) Check(label string) error {
	switch {
	case r.Status == "":
		return errors.NewScriptError(label, "script returned no result", "")
	case r.Status == StatusJSError:
		return errors.NewScriptError(label, r.Message, r.Stack)
	case r.Status == StatusWarning:
		zap.S().Named("editor").Warnw("script warning", "script", label, "message", r.Message)
	}
	return nil
}

// Success reports a Success status, including its qualified variants such as
// Success_toJSON.
func (r ScriptResult) Success() bool {
	return r.Status == "Success" || strings.HasPrefix(r.Status, "Success_")
}

// Selection is the outcome of a select-shapes or select-edges script.
type Selection struct {
	Count    int
	IDs      []string
	Selected int
}

func (r ScriptResult) selection() Selection {
	return Selection{Count: r.Count, IDs: r.IDs, Selected: r.SelectedCount}
}
