package compose

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "unknown style",
			err:     &ConfigurationError{Code: CodeUnknownStyle, Style: "Callout", Block: noBlock},
			wantMsg: `configuration error [UNKNOWN_STYLE]: unknown style "Callout"`,
		},
		{
			name:    "configuration error with block and cause",
			err:     &ConfigurationError{Code: CodeInvalidColor, Message: "bad fill", Block: 3, Cause: errors.New("not hex")},
			wantMsg: "configuration error [INVALID_COLOR]: bad fill: not hex (block 3)",
		},
		{
			name:    "row mismatch",
			err:     &ShapeError{Code: CodeTableShapeMismatch, Block: 4, Row: 2, Expected: 3, Actual: 1},
			wantMsg: "shape error [TABLE_SHAPE_MISMATCH]: table shape mismatch: row 2 has 1 cells, expected 3 (block 4)",
		},
		{
			name:    "width count mismatch",
			err:     &ShapeError{Code: CodeTableShapeMismatch, Message: "column widths", Block: noBlock, Row: -1, Expected: 3, Actual: 2},
			wantMsg: "shape error [TABLE_SHAPE_MISMATCH]: column widths: got 2, expected 3",
		},
		{
			name:    "heading level",
			err:     &ShapeError{Code: CodeInvalidHeadingLevel, Message: "heading level 5 outside 1..4", Block: 0},
			wantMsg: "shape error [INVALID_HEADING_LEVEL]: heading level 5 outside 1..4 (block 0)",
		},
		{
			name:    "state error",
			err:     &StateError{Code: CodeDocumentClosed, Operation: "compose", State: StateFinalized},
			wantMsg: "state error [DOCUMENT_CLOSED]: cannot compose in state finalized",
		},
		{
			name:    "state error without operation",
			err:     &StateError{Code: CodeNotFinalized},
			wantMsg: "state error [NOT_FINALIZED]",
		},
		{
			name:    "io error",
			err:     NewIOError("rename", "out.docx", errors.New("permission denied")),
			wantMsg: "io error during rename of 'out.docx': permission denied",
		},
		{
			name:    "io error without path",
			err:     NewIOError("write", "", errors.New("short write")),
			wantMsg: "io error during write: short write",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestErrorsIsByCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"same code", &ShapeError{Code: CodeTableShapeMismatch, Row: 1, Expected: 2, Actual: 3}, ErrTableShapeMismatch, true},
		{"wrapped", fmt.Errorf("compose: %w", &ShapeError{Code: CodeEmptyTable}), ErrEmptyTable, true},
		{"different code same type", &ShapeError{Code: CodeEmptyTable}, ErrTableShapeMismatch, false},
		{"different type", &ConfigurationError{Code: CodeUnknownStyle}, ErrStylesFrozen, false},
		{"state", &StateError{Code: CodePatch, Operation: "patch shd"}, ErrPatch, true},
		{"io", NewIOError("sync", "a.docx", errors.New("disk full")), ErrIO, true},
		{"plain error", errors.New("boom"), ErrIO, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeUnknownStyle, CodeOf(fmt.Errorf("x: %w", ErrUnknownStyle)))
	assert.Equal(t, CodeIO, CodeOf(NewIOError("open", "x", nil)))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}

func TestWithBlock(t *testing.T) {
	shape := &ShapeError{Code: CodeInvalidListLevel, Block: noBlock}
	err := withBlock(shape, 7)
	assert.Equal(t, 7, shape.Block)
	assert.Same(t, shape, err)

	cfg := &ConfigurationError{Code: CodeUnknownStyle, Block: noBlock}
	_ = withBlock(fmt.Errorf("table: %w", cfg), 2)
	assert.Equal(t, 2, cfg.Block)

	state := &StateError{Code: CodePatch}
	assert.Same(t, state, withBlock(state, 1))

	// Sentinels are never handed to withBlock by the builders
	assert.Equal(t, noBlock, ErrTableShapeMismatch.Block)
}

func TestIsHelpers(t *testing.T) {
	assert.True(t, IsConfigurationError(NewConfigurationError(CodeInvalidStyle, "X", "bad")))
	assert.True(t, IsShapeError(fmt.Errorf("w: %w", &ShapeError{Code: CodeEmptyTable})))
	assert.True(t, IsStateError(&StateError{Code: CodeStylesFrozen}))
	assert.True(t, IsIOError(NewIOError("write", "", nil)))
	assert.False(t, IsShapeError(&StateError{Code: CodeStylesFrozen}))
}

func TestContextError(t *testing.T) {
	assert.Nil(t, WithContext(nil, "load plan", nil))

	cause := &ShapeError{Code: CodeEmptyTable, Block: noBlock, Row: -1}
	err := WithContext(cause, "load plan", map[string]interface{}{"path": "plan.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load plan [path=plan.yaml]")
	assert.True(t, errors.Is(err, ErrEmptyTable))

	var shape *ShapeError
	require.True(t, errors.As(err, &shape))
	assert.Same(t, cause, shape)
}
