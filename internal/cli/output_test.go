package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagedoor/boxoffice/internal/bank"
	"github.com/stagedoor/boxoffice/internal/ledger"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"result": "success"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error(ledger.CodeSoldOut, "no tickets left", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ledger.CodeSoldOut, resp.Error.Code)
	assert.Equal(t, "no tickets left", resp.Error.Message)
}

func TestOutputFormatter_JSONErrorWithDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	details := map[string]string{"entry": "3", "name": "Gala Night"}
	err := formatter.Error(ledger.CodeInvalidParameters, "catalog entry rejected", details)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success("Height advanced to 7")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Height advanced to 7")
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error(ledger.CodeSoldOut, "no tickets left", nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [SOLD_OUT]")
	assert.Contains(t, buf.String(), "no tickets left")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	details := map[string]string{"entry": "3"}
	err := formatter.Error(ledger.CodeInvalidParameters, "catalog entry rejected", details)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [INVALID_PARAMETERS]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:  "text",
				Writer:  buf,
				Verbose: tt.verbose,
			}

			formatter.VerboseLog("Opening %s", "ledger.db")

			if tt.wantLog {
				assert.Contains(t, buf.String(), "Opening ledger.db")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestOutputFormatter_VerboseLogJSONKeepsStdoutClean(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:    "json",
		Writer:    out,
		ErrWriter: errOut,
		Verbose:   true,
	}

	formatter.VerboseLog("Opening %s", "ledger.db")

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Opening ledger.db")
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"event not found", ledger.ErrEventNotFound, ledger.CodeNotFound},
		{"wrapped sentinel", fmt.Errorf("purchase event 3: %w", ledger.ErrSoldOut), ledger.CodeSoldOut},
		{"unknown bank account", fmt.Errorf("balance: %w", bank.ErrUnknownAccount), ledger.CodeNotFound},
		{"insufficient payment", ledger.ErrInsufficientPayment, ledger.CodeInsufficientPayment},
		{"unrecognized error", errors.New("disk on fire"), ledger.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorCode(tt.err))
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "rejected")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad path")))

	wrapped := fmt.Errorf("outer: %w", NewExitError(ExitCommandError, "inner"))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
}

func TestExitError(t *testing.T) {
	bare := NewExitError(ExitFailure, "rejected")
	assert.Equal(t, "rejected", bare.Error())
	assert.Nil(t, bare.Unwrap())

	cause := errors.New("no such table")
	wrapped := WrapExitError(ExitCommandError, "failed to open ledger", cause)
	assert.Equal(t, "failed to open ledger: no such table", wrapped.Error())
	assert.Same(t, cause, wrapped.Unwrap())
}

func TestReportFailure(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := reportFailure(formatter, fmt.Errorf("purchase event 1: %w", ledger.ErrSoldOut))

	assert.Contains(t, buf.String(), "Error [SOLD_OUT]")
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, ledger.CodeSoldOut, err.Error())
}
