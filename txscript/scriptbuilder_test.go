// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"testing"
)

// TestScriptBuilderAddOp tests that pushing opcodes to a script via the
// ScriptBuilder API works as expected.
func TestScriptBuilderAddOp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opcodes  []byte
		expected []byte
	}{
		{
			name:     "push OP_0",
			opcodes:  []byte{OP_0},
			expected: []byte{OP_0},
		},
		{
			name:     "push OP_1 OP_2",
			opcodes:  []byte{OP_1, OP_2},
			expected: []byte{OP_1, OP_2},
		},
		{
			name:     "push OP_HASH160 OP_EQUAL",
			opcodes:  []byte{OP_HASH160, OP_EQUAL},
			expected: []byte{OP_HASH160, OP_EQUAL},
		},
	}

	builder := NewScriptBuilder()
	for i, test := range tests {
		builder.Reset()
		for _, opcode := range test.opcodes {
			builder.AddOp(opcode)
		}
		result, err := builder.Script()
		if err != nil {
			t.Errorf("ScriptBuilder.AddOp #%d (%s) unexpected "+
				"error: %v", i, test.name, err)
			continue
		}
		if !bytes.Equal(result, test.expected) {
			t.Errorf("ScriptBuilder.AddOp #%d (%s) wrong result - "+
				"got: %x, want: %x", i, test.name, result,
				test.expected)
			continue
		}
	}

	// Run the same tests via AddOps.
	for i, test := range tests {
		builder.Reset()
		result, err := builder.AddOps(test.opcodes).Script()
		if err != nil {
			t.Errorf("ScriptBuilder.AddOps #%d (%s) unexpected "+
				"error: %v", i, test.name, err)
			continue
		}
		if !bytes.Equal(result, test.expected) {
			t.Errorf("ScriptBuilder.AddOps #%d (%s) wrong result "+
				"- got: %x, want: %x", i, test.name, result,
				test.expected)
			continue
		}
	}
}

// TestScriptBuilderAddInt64 tests that pushing signed integers to a script
// via the ScriptBuilder API works as expected.
func TestScriptBuilderAddInt64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		val      int64
		expected []byte
	}{
		{name: "push -1", val: -1, expected: []byte{OP_1NEGATE}},
		{name: "push small int 0", val: 0, expected: []byte{OP_0}},
		{name: "push small int 1", val: 1, expected: []byte{OP_1}},
		{name: "push small int 16", val: 16, expected: []byte{OP_16}},
		{name: "push 17", val: 17, expected: []byte{OP_DATA_1, 0x11}},
		{name: "push -2", val: -2, expected: []byte{OP_DATA_1, 0x82}},
		{name: "push 127", val: 127, expected: []byte{OP_DATA_1, 0x7f}},
		{name: "push 128", val: 128, expected: []byte{OP_DATA_2, 0x80, 0}},
		{name: "push 255", val: 255, expected: []byte{OP_DATA_2, 0xff, 0}},
		{name: "push 256", val: 256, expected: []byte{OP_DATA_2, 0, 0x01}},
		{name: "push 32767", val: 32767, expected: []byte{OP_DATA_2, 0xff, 0x7f}},
		{name: "push 32768", val: 32768, expected: []byte{OP_DATA_3, 0, 0x80, 0}},
		{name: "push -32768", val: -32768, expected: []byte{OP_DATA_3, 0, 0x80, 0x80}},
		{name: "push 2147483647", val: 2147483647, expected: []byte{OP_DATA_4, 0xff, 0xff, 0xff, 0x7f}},
		{name: "push 2147483648", val: 2147483648, expected: []byte{OP_DATA_5, 0, 0, 0, 0x80, 0}},
	}

	builder := NewScriptBuilder()
	for i, test := range tests {
		builder.Reset().AddInt64(test.val)
		result, err := builder.Script()
		if err != nil {
			t.Errorf("ScriptBuilder.AddInt64 #%d (%s) unexpected "+
				"error: %v", i, test.name, err)
			continue
		}
		if !bytes.Equal(result, test.expected) {
			t.Errorf("ScriptBuilder.AddInt64 #%d (%s) wrong result "+
				"- got: %x, want: %x", i, test.name, result,
				test.expected)
			continue
		}
	}
}

// TestScriptBuilderAddData tests that pushing data to a script via the
// ScriptBuilder API works as expected and conforms to canonical encoding
// rules.
func TestScriptBuilderAddData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     []byte
		expected []byte
		useFull  bool // use AddFullData instead of AddData.
	}{
		// Empty data and single byte small integers are converted to the
		// equivalent small integer opcodes.
		{
			name:     "push empty byte sequence",
			data:     nil,
			expected: []byte{OP_0},
		},
		{
			name:     "push 1 byte 0x00",
			data:     []byte{0x00},
			expected: []byte{OP_0},
		},
		{
			name:     "push 1 byte 0x01",
			data:     []byte{0x01},
			expected: []byte{OP_1},
		},
		{
			name:     "push 1 byte 0x10",
			data:     []byte{0x10},
			expected: []byte{OP_16},
		},
		{
			name:     "push 1 byte 0x81",
			data:     []byte{0x81},
			expected: []byte{OP_1NEGATE},
		},

		// Data pushes use the smallest possible push opcode.
		{
			name:     "push 1 byte 0x11",
			data:     []byte{0x11},
			expected: []byte{OP_DATA_1, 0x11},
		},
		{
			name:     "push 75 bytes",
			data:     bytes.Repeat([]byte{0x49}, 75),
			expected: append([]byte{OP_DATA_75}, bytes.Repeat([]byte{0x49}, 75)...),
		},
		{
			name:     "push 76 bytes",
			data:     bytes.Repeat([]byte{0x49}, 76),
			expected: append([]byte{OP_PUSHDATA1, 76}, bytes.Repeat([]byte{0x49}, 76)...),
		},
		{
			name:     "push 255 bytes",
			data:     bytes.Repeat([]byte{0x49}, 255),
			expected: append([]byte{OP_PUSHDATA1, 255}, bytes.Repeat([]byte{0x49}, 255)...),
		},
		{
			name:     "push 256 bytes",
			data:     bytes.Repeat([]byte{0x49}, 256),
			expected: append([]byte{OP_PUSHDATA2, 0, 1}, bytes.Repeat([]byte{0x49}, 256)...),
		},
		{
			name:     "push 520 bytes",
			data:     bytes.Repeat([]byte{0x49}, 520),
			expected: append([]byte{OP_PUSHDATA2, 8, 2}, bytes.Repeat([]byte{0x49}, 520)...),
		},

		// Data pushes that exceed the max script element size are
		// rejected by AddData.
		{
			name:     "push 521 bytes",
			data:     bytes.Repeat([]byte{0x49}, 521),
			expected: nil,
		},

		// AddFullData allows pushes beyond the max element size for
		// negative testing of the engine limits.
		{
			name:     "push 521 bytes full",
			data:     bytes.Repeat([]byte{0x49}, 521),
			expected: append([]byte{OP_PUSHDATA2, 9, 2}, bytes.Repeat([]byte{0x49}, 521)...),
			useFull:  true,
		},
	}

	builder := NewScriptBuilder()
	for i, test := range tests {
		if !test.useFull {
			builder.Reset().AddData(test.data)
		} else {
			builder.Reset().AddFullData(test.data)
		}
		result, err := builder.Script()

		// An expected result of nil means the push must be rejected as
		// non-canonical.
		if test.expected == nil {
			if _, ok := err.(ErrScriptNotCanonical); !ok {
				t.Errorf("ScriptBuilder.AddData #%d (%s) wrong "+
					"error type returned: %T", i, test.name,
					err)
			}
			if len(result) != 0 {
				t.Errorf("ScriptBuilder.AddData #%d (%s) "+
					"modified script on error - got len %d",
					i, test.name, len(result))
			}
			continue
		}
		if err != nil {
			t.Errorf("ScriptBuilder.AddData #%d (%s) unexpected "+
				"error: %v", i, test.name, err)
			continue
		}
		if !bytes.Equal(result, test.expected) {
			t.Errorf("ScriptBuilder.AddData #%d (%s) wrong result "+
				"- got: %x, want: %x", i, test.name, result,
				test.expected)
			continue
		}
	}
}

// TestErroredScript ensures that errors within the script builder are
// persistent and subsequent additions do not modify the script, while Reset
// clears the error state.
func TestErroredScript(t *testing.T) {
	t.Parallel()

	builder := NewScriptBuilder()
	builder.AddOp(OP_1).AddData(bytes.Repeat([]byte{0x49}, 521))
	if _, err := builder.Script(); err == nil {
		t.Fatalf("expected error from oversized data push")
	}

	// Further additions must be no-ops while the error persists.
	builder.AddOp(OP_2).AddInt64(100).AddData([]byte{0x01})
	script, err := builder.Script()
	if err == nil {
		t.Fatalf("error not persistent across additions")
	}
	if !bytes.Equal(script, []byte{OP_1}) {
		t.Fatalf("script modified after error - got %x", script)
	}

	// Reset clears both the script and the error.
	script, err = builder.Reset().AddOp(OP_2).Script()
	if err != nil {
		t.Fatalf("unexpected error after reset: %v", err)
	}
	if !bytes.Equal(script, []byte{OP_2}) {
		t.Fatalf("wrong script after reset - got %x", script)
	}
}
