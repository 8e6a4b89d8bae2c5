package grizzly

import (
	"errors"
	"fmt"
	"strings"
)

// Server error codes carried on command failures.
const (
	CodeBadValue             = 2
	CodeLockTimeout          = 24
	CodeNamespaceNotFound    = 26
	CodeIndexNotFound        = 27
	CodeNamespaceExists      = 48
	CodeCommandNotFound      = 59
	CodeInvalidOptions       = 72
	CodeInvalidNamespace     = 73
	CodeIndexOptionsConflict = 85
	CodeOperationFailed      = 96
	CodeDuplicateKey         = 11000
)

// CommandError is a structured failure: the server received the command and
// rejected it with a response document. Transport and dispatch failures are
// plain errors, never CommandErrors.
type CommandError struct {
	Code     int
	Message  string
	Response *Document
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command failed (code %d): %s", e.Code, e.Message)
}

// NewCommandError returns a command failure carrying the given response
// document. A nil response is replaced with the standard error shape.
func NewCommandError(code int, message string, response *Document) *CommandError {
	if response == nil {
		response = NewDocument()
		_ = response.Set("ok", 0)
		_ = response.Set("errmsg", message)
		_ = response.Set("code", code)
	}
	return &CommandError{Code: code, Message: message, Response: response}
}

// AsCommandError unwraps err to a CommandError if it carries one.
func AsCommandError(err error) (*CommandError, bool) {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr, true
	}
	return nil, false
}

// IsNotFound reports whether err is a command failure whose message indicates
// the target namespace or index does not exist.
func IsNotFound(err error) bool {
	cmdErr, ok := AsCommandError(err)
	return ok && strings.Contains(cmdErr.Message, "not found")
}

// Classifier decides how executor failures are interpreted when results are
// transformed. The default classifier matches CommandError; supply another to
// adapt a foreign executor's error shape.
type Classifier interface {
	// CommandFailure returns the structured failure carried by err, if any
	CommandFailure(err error) (*CommandError, bool)
	// NotFound returns whether err is a command failure for a missing target
	NotFound(err error) bool
}

type stdClassifier struct{}

func (stdClassifier) CommandFailure(err error) (*CommandError, bool) {
	return AsCommandError(err)
}

func (stdClassifier) NotFound(err error) bool {
	return IsNotFound(err)
}
