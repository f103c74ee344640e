package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError_Error(t *testing.T) {
	plain := NewExitError(ExitCommandError, "config not found")
	assert.Equal(t, "config not found", plain.Error())

	wrapped := WrapExitError(ExitFailure, "flush failed", errors.New("connection refused"))
	assert.Equal(t, "flush failed: connection refused", wrapped.Error())
	assert.Equal(t, "connection refused", errors.Unwrap(wrapped).Error())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad config")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain error")))

	// ExitErrors survive wrapping.
	wrapped := fmt.Errorf("outer: %w", NewExitError(ExitCommandError, "inner"))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
}

func TestOutputFormatter_SuccessJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}
	require.NoError(t, f.Success(map[string]string{"next": "clock_in"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_SuccessText(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}
	require.NoError(t, f.Successf(nil, "next punch: %s", "clock_in"))
	assert.Equal(t, "next punch: clock_in\n", buf.String())
}

func TestOutputFormatter_ErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}
	require.NoError(t, f.Error("ENTRY_WINDOW", "clock-in opens at 06:00"))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ENTRY_WINDOW", resp.Error.Code)
	assert.Equal(t, "clock-in opens at 06:00", resp.Error.Message)
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	var out, diag bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &out, ErrWriter: &diag, Verbose: true}

	f.VerboseLog("flushing %d pending punches", 3)
	assert.Equal(t, "flushing 3 pending punches\n", diag.String())
	assert.Empty(t, out.String(), "diagnostics stay off the JSON stream")

	diag.Reset()
	f.Verbose = false
	f.VerboseLog("should not appear")
	assert.Empty(t, diag.String())
}

func TestOutputFormatter_VerboseLogFallsBackToWriter(t *testing.T) {
	var out bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &out, Verbose: true}
	f.VerboseLog("no location attached")
	assert.Equal(t, "no location attached\n", out.String())
}

func TestOutputFormatter_ErrorText(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}
	require.NoError(t, f.Error("SEQUENCE_VIOLATION", "next expected punch is Clock In"))
	assert.Equal(t, "Error [SEQUENCE_VIOLATION]: next expected punch is Clock In\n", buf.String())
}
