// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"testing"
)

// TestScriptNumBytes ensures that converting from integral script numbers to
// byte representations works as expected.
func TestScriptNumBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		num        scriptNum
		serialized []byte
	}{
		{0, nil},
		{1, hexToBytes("01")},
		{-1, hexToBytes("81")},
		{127, hexToBytes("7f")},
		{-127, hexToBytes("ff")},
		{128, hexToBytes("8000")},
		{-128, hexToBytes("8080")},
		{129, hexToBytes("8100")},
		{-129, hexToBytes("8180")},
		{256, hexToBytes("0001")},
		{-256, hexToBytes("0081")},
		{32767, hexToBytes("ff7f")},
		{-32767, hexToBytes("ffff")},
		{32768, hexToBytes("008000")},
		{-32768, hexToBytes("008080")},
		{65535, hexToBytes("ffff00")},
		{524288, hexToBytes("000008")},
		{7340032, hexToBytes("000070")},
		{8388608, hexToBytes("00008000")},
		{2147483647, hexToBytes("ffffff7f")},
		{-2147483647, hexToBytes("ffffffff")},

		// Values that are out of range for data that is interpreted as
		// numbers, but are allowed as the result of numeric operations.
		{2147483648, hexToBytes("0000008000")},
		{-2147483648, hexToBytes("0000008080")},
		{9223372036854775807, hexToBytes("ffffffffffffff7f")},
		{-9223372036854775807, hexToBytes("ffffffffffffffff")},
	}

	for _, test := range tests {
		gotBytes := test.num.Bytes()
		if !bytes.Equal(gotBytes, test.serialized) {
			t.Errorf("Bytes: did not get expected bytes for %d - "+
				"got %x, want %x", test.num, gotBytes,
				test.serialized)
		}
	}
}

// TestMakeScriptNum ensures that converting from byte representations to
// integral script numbers works as expected.
func TestMakeScriptNum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		serialized      []byte
		num             scriptNum
		numLen          int
		minimalEncoding bool
		err             error
	}{
		// Minimal encoding must reject negative 0.
		{hexToBytes("80"), 0, defaultScriptNumLen, true,
			scriptError(ErrMinimalData, "")},

		// Minimally encoded valid values with minimal encoding flag.
		{nil, 0, defaultScriptNumLen, true, nil},
		{hexToBytes("01"), 1, defaultScriptNumLen, true, nil},
		{hexToBytes("81"), -1, defaultScriptNumLen, true, nil},
		{hexToBytes("7f"), 127, defaultScriptNumLen, true, nil},
		{hexToBytes("ff"), -127, defaultScriptNumLen, true, nil},
		{hexToBytes("8000"), 128, defaultScriptNumLen, true, nil},
		{hexToBytes("8080"), -128, defaultScriptNumLen, true, nil},
		{hexToBytes("0001"), 256, defaultScriptNumLen, true, nil},
		{hexToBytes("0081"), -256, defaultScriptNumLen, true, nil},
		{hexToBytes("ffffff7f"), 2147483647, defaultScriptNumLen,
			true, nil},
		{hexToBytes("ffffffff"), -2147483647, defaultScriptNumLen,
			true, nil},
		{hexToBytes("ffffffff7f"), 549755813887, 5, true, nil},

		// Out of range with and without minimal encoding flag.
		{hexToBytes("0000008000"), 0, defaultScriptNumLen, true,
			scriptError(ErrNumberTooBig, "")},
		{hexToBytes("0000008000"), 0, defaultScriptNumLen, false,
			scriptError(ErrNumberTooBig, "")},

		// Non-minimally encoded, but otherwise valid values with
		// minimal encoding flag.
		{hexToBytes("00"), 0, defaultScriptNumLen, true,
			scriptError(ErrMinimalData, "")},
		{hexToBytes("0100"), 1, defaultScriptNumLen, true,
			scriptError(ErrMinimalData, "")},
		{hexToBytes("7f00"), 127, defaultScriptNumLen, true,
			scriptError(ErrMinimalData, "")},
		{hexToBytes("800000"), 128, defaultScriptNumLen, true,
			scriptError(ErrMinimalData, "")},

		// Non-minimally encoded, but otherwise valid values without
		// minimal encoding flag.
		{hexToBytes("00"), 0, defaultScriptNumLen, false, nil},
		{hexToBytes("0100"), 1, defaultScriptNumLen, false, nil},
		{hexToBytes("7f00"), 127, defaultScriptNumLen, false, nil},
		{hexToBytes("800000"), 128, defaultScriptNumLen, false, nil},
	}

	for _, test := range tests {
		// Ensure the error code is of the expected type and the error
		// code matches the value specified in the test instance.
		gotNum, err := makeScriptNum(test.serialized,
			test.minimalEncoding, test.numLen)
		if e, ok := test.err.(Error); ok {
			if !IsErrorCode(err, e.ErrorCode) {
				t.Errorf("makeScriptNum(%x): got error %v, "+
					"want %v", test.serialized, err,
					e.ErrorCode)
			}
			continue
		}
		if err != nil {
			t.Errorf("makeScriptNum(%x): unexpected error %v",
				test.serialized, err)
			continue
		}

		if gotNum != test.num {
			t.Errorf("makeScriptNum(%x): did not get expected "+
				"number - got %d, want %d", test.serialized,
				gotNum, test.num)
		}
	}
}

// TestScriptNumInt32 ensures that the Int32 function on script numbers behaves
// as expected.
func TestScriptNumInt32(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   scriptNum
		want int32
	}{
		// Values inside the valid int32 range are just the values
		// themselves cast to an int32.
		{0, 0},
		{1, 1},
		{-1, -1},
		{127, 127},
		{-127, -127},
		{2147483647, 2147483647},
		{-2147483647, -2147483647},

		// Values outside of the valid int32 range are limited to
		// int32.
		{2147483648, 2147483647},
		{-2147483648, -2147483648},
		{9223372036854775807, 2147483647},
		{-9223372036854775808, -2147483648},
	}

	for _, test := range tests {
		got := test.in.Int32()
		if got != test.want {
			t.Errorf("Int32: did not get expected value for %d - "+
				"got %d, want %d", test.in, got, test.want)
		}
	}
}
