// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// shortFormOps holds a map of opcode names to values for use in the mnemonic
// assembler.  It is built on first use since OpcodeByName is not populated
// until package init runs.
var (
	shortFormOps     map[string]byte
	shortFormOpsOnce sync.Once
)

// shortFormOpcodes returns the opcode name map used by the mnemonic
// assembler, creating it if necessary.
func shortFormOpcodes() map[string]byte {
	shortFormOpsOnce.Do(func() {
		ops := make(map[string]byte)
		for opcodeName, opcodeValue := range OpcodeByName {
			if strings.Contains(opcodeName, "OP_UNKNOWN") {
				continue
			}
			ops[opcodeName] = opcodeValue

			// The opcodes named OP_# can't have the OP_ prefix
			// stripped or they would conflict with the plain
			// numbers.  Also, since OP_FALSE and OP_TRUE are
			// aliases for the OP_0 and OP_1, respectively, they
			// have the same value, so detect those by name and
			// allow them.
			if (opcodeName == "OP_FALSE" || opcodeName == "OP_TRUE") ||
				(opcodeValue != OP_0 && (opcodeValue < OP_1 ||
					opcodeValue > OP_16)) {

				ops[strings.TrimPrefix(opcodeName, "OP_")] = opcodeValue
			}
		}
		shortFormOps = ops
	})
	return shortFormOps
}

// parseHex parses the passed hex string which must be prefixed with "0x" and
// returns the decoded bytes.
func parseHex(tok string) ([]byte, error) {
	if !strings.HasPrefix(tok, "0x") {
		return nil, errors.New("not a hex number")
	}
	return hex.DecodeString(tok[2:])
}

// Assemble converts the passed mnemonic script into its binary form.  The
// format is pretty simple if ad-hoc:
//   - Opcodes other than those that push an integer onto the stack are
//     presented as the name, e.g. "OP_CHECKSIG", with or without the "OP_"
//     prefix
//   - Plain numbers are made into canonical push operations
//   - Numbers beginning with 0x are inserted into the script as-is (so
//     0x14 is OP_DATA_20)
//   - Single quoted strings are pushed as data
//   - Anything else is an error
//
// Raw 0x tokens can encode non-canonical pushes, however a push whose
// declared length runs past the end of the assembled script is rejected.
func Assemble(asm string) ([]byte, error) {
	// Split only does one separator so convert all \n and tab into space.
	asm = strings.Replace(asm, "\n", " ", -1)
	asm = strings.Replace(asm, "\t", " ", -1)
	tokens := strings.Split(asm, " ")
	builder := NewScriptBuilder()

	for _, tok := range tokens {
		if len(tok) == 0 {
			continue
		}

		// If the token parses as a plain number, make it a canonical
		// data push.
		if num, err := strconv.ParseInt(tok, 10, 64); err == nil {
			builder.AddInt64(num)
			continue
		}
		if bts, err := parseHex(tok); err == nil {
			// Append the bytes as-is since 0x tokens are
			// intentionally used to create scripts that are
			// otherwise not expressible.
			builder.addRaw(bts)
		} else if len(tok) >= 2 &&
			tok[0] == '\'' && tok[len(tok)-1] == '\'' {

			builder.AddFullData([]byte(tok[1 : len(tok)-1]))
		} else if opcode, ok := shortFormOpcodes()[tok]; ok {
			builder.AddOp(opcode)
		} else {
			return nil, fmt.Errorf("bad token %q", tok)
		}
	}

	script, err := builder.Script()
	if err != nil {
		return nil, err
	}

	// Reject scripts with data pushes that run past the end of the script
	// since they can't be meaningfully disassembled or executed.
	if _, err := parseScript(script); err != nil {
		return nil, err
	}

	return script, nil
}

// Disassemble converts the passed script into the mnemonic form accepted by
// Assemble.  Data pushes are rendered as two raw hex tokens, the push opcode
// with its length bytes followed by the pushed data, so assembling the result
// reproduces the script byte for byte.  An error is returned when the script
// contains a data push that runs past its end.
func Disassemble(script []byte) (string, error) {
	pops, err := parseScript(script)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	for i, pop := range pops {
		if i > 0 {
			buf.WriteByte(' ')
		}

		// Non-push opcodes are rendered by name when the assembler
		// knows the name, otherwise as a raw byte.
		if pop.opcode.length == 1 {
			if _, ok := shortFormOpcodes()[pop.opcode.name]; ok {
				buf.WriteString(pop.opcode.name)
			} else {
				fmt.Fprintf(&buf, "0x%02x", pop.opcode.value)
			}
			continue
		}

		// Data pushes.  The opcode and any length bytes form the first
		// token and the data itself the second.
		popBytes, err := pop.bytes()
		if err != nil {
			return "", err
		}
		header := popBytes[:len(popBytes)-len(pop.data)]
		fmt.Fprintf(&buf, "0x%x", header)
		if len(pop.data) > 0 {
			fmt.Fprintf(&buf, " 0x%x", pop.data)
		}
	}

	return buf.String(), nil
}
