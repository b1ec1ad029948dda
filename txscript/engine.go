// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/Quantum-Platinum-Cloud/libbitcoin-consensus/wire"
)

// ScriptFlags is a bitmask defining additional operations or tests that will be
// done when executing a script pair.
type ScriptFlags uint32

const (
	// ScriptBip16 defines whether the bip16 threshold has passed and thus
	// pay-to-script hash transactions will be fully validated.
	ScriptBip16 ScriptFlags = 1 << iota

	// ScriptStrictMultiSig defines whether to verify the stack item
	// used by CHECKMULTISIG is zero length.
	ScriptStrictMultiSig

	// ScriptVerifyCheckLockTimeVerify defines whether to verify that
	// a transaction output is spendable based on the locktime.
	// This is BIP0065.
	ScriptVerifyCheckLockTimeVerify

	// ScriptVerifyCheckSequenceVerify defines whether to allow execution
	// pathways of a script to be restricted based on the age of the output
	// being spent.  This is BIP0112.
	ScriptVerifyCheckSequenceVerify

	// ScriptVerifyCleanStack defines that the stack must contain only
	// one stack element after evaluation and that the element must be
	// true if interpreted as a boolean.  This is rule 6 of BIP0062.
	// This flag should never be used without the ScriptBip16 flag.
	ScriptVerifyCleanStack

	// ScriptVerifyDERSignatures defines that signatures are required
	// to compily with the DER format.
	ScriptVerifyDERSignatures

	// ScriptVerifyLowS defines that signtures are required to comply with
	// the DER format and whose S value is <= order / 2.  This is rule 5
	// of BIP0062.
	ScriptVerifyLowS

	// ScriptVerifyMinimalData defines that signatures must use the smallest
	// push operator. This is both rules 3 and 4 of BIP0062.
	ScriptVerifyMinimalData

	// ScriptVerifySigPushOnly defines that signature scripts must contain
	// only pushed data.  This is rule 2 of BIP0062.
	ScriptVerifySigPushOnly

	// ScriptVerifyStrictEncoding defines that signature scripts and
	// public keys must follow the strict encoding requirements.
	ScriptVerifyStrictEncoding

	// ScriptVerifyWitness defines whether or not to verify a transaction
	// output using a witness program template.
	ScriptVerifyWitness
)

// engineState tracks which portion of the redemption the engine is currently
// executing.  A redemption always begins with the signature script, continues
// with the public key script, and then optionally runs the pay-to-script-hash
// redeem script and witness script depending on the form of the output being
// spent and the active flags.
type engineState int

const (
	// stateRunInput means the engine is executing the signature script.
	stateRunInput engineState = iota

	// stateRunOutput means the engine is executing the public key script.
	stateRunOutput

	// stateCheckP2SH means the engine is executing the redeem script that
	// was extracted from the signature script of a pay-to-script-hash
	// redemption.
	stateCheckP2SH

	// stateCheckWitness means the engine is executing the script that was
	// reconstituted from the witness of the input.
	stateCheckWitness

	// stateDone means all scripts of the redemption have been executed.
	stateDone
)

// halfOrder is used to tame ECDSA malleability (see BIP0062).
var halfOrder = new(big.Int).Rsh(btcec.S256().N, 1)

// Engine is the virtual machine that executes scripts.
type Engine struct {
	scriptSig       []parsedOpcode
	scriptPubKey    []parsedOpcode
	script          []parsedOpcode
	scriptOff       int
	state           engineState
	lastCodeSep     int
	dstack          stack // stack for execution
	astack          stack // alt stack
	tx              wire.MsgTx
	txIdx           int
	condStack       []int
	numOps          int
	flags           ScriptFlags
	sigHashes       *TxSigHashes
	bip16           bool     // treat execution as pay-to-script-hash
	savedFirstStack [][]byte // stack from first script for bip16 scripts
	witnessVersion  int
	witnessProgram  []byte
	inputAmount     int64
}

// hasFlag returns whether the script engine instance has the passed flag set.
func (vm *Engine) hasFlag(flag ScriptFlags) bool {
	return vm.flags&flag == flag
}

// isBranchExecuting returns whether or not the current conditional branch is
// actively executing.  For example, when the data stack has an OP_FALSE on it
// and an OP_IF is encountered, the branch is inactive until an OP_ELSE or
// OP_ENDIF is encountered.  It properly handles nested conditionals.
func (vm *Engine) isBranchExecuting() bool {
	if len(vm.condStack) == 0 {
		return true
	}
	return vm.condStack[len(vm.condStack)-1] == OpCondTrue
}

// executeOpcode peforms execution on the passed opcode.  It takes into account
// whether or not it is hidden by conditionals, but some rules still must be
// tested in this case.
func (vm *Engine) executeOpcode(pop *parsedOpcode) error {
	// Disabled opcodes are fail on program counter.
	if pop.isDisabled() {
		str := fmt.Sprintf("attempt to execute disabled opcode %s",
			pop.opcode.name)
		return scriptError(ErrDisabledOpcode, str)
	}

	// Always-illegal opcodes are fail on program counter.
	if pop.alwaysIllegal() {
		str := fmt.Sprintf("attempt to execute reserved opcode %s",
			pop.opcode.name)
		return scriptError(ErrReservedOpcode, str)
	}

	// Note that this includes OP_RESERVED which counts as a push operation.
	if pop.opcode.value > OP_16 {
		vm.numOps++
		if vm.numOps > MaxOpsPerScript {
			str := fmt.Sprintf("exceeded max operation limit of %d",
				MaxOpsPerScript)
			return scriptError(ErrTooManyOperations, str)
		}

	} else if len(pop.data) > MaxScriptElementSize {
		str := fmt.Sprintf("element size %d exceeds max allowed size %d",
			len(pop.data), MaxScriptElementSize)
		return scriptError(ErrElementTooBig, str)
	}

	// Nothing left to do when this is not a conditional opcode and it is
	// not in an executing branch.
	if !vm.isBranchExecuting() && !pop.isConditional() {
		return nil
	}

	// Ensure all executed data push opcodes use the minimal encoding when
	// the minimal data verification flag is set.
	if vm.dstack.verifyMinimalData && vm.isBranchExecuting() &&
		pop.opcode.value <= OP_PUSHDATA4 {

		if err := pop.checkMinimalDataPush(); err != nil {
			return err
		}
	}

	err := pop.opcode.opfunc(pop, vm)
	if err != nil {
		return err
	}

	// Ensure the combined stack depth doesn't exceed the limit.
	combinedStackSize := vm.dstack.Depth() + vm.astack.Depth()
	if combinedStackSize > MaxStackSize {
		str := fmt.Sprintf("combined stack size %d > max allowed %d",
			combinedStackSize, MaxStackSize)
		return scriptError(ErrStackOverflow, str)
	}

	return nil
}

// validPC returns an error if the current script position is not valid for
// execution.
func (vm *Engine) validPC() error {
	if vm.state == stateDone {
		return scriptError(ErrInvalidProgramCounter,
			"program counter beyond finished execution")
	}
	if vm.scriptOff >= len(vm.script) {
		str := fmt.Sprintf("past end of script %d of %d", vm.scriptOff,
			len(vm.script))
		return scriptError(ErrInvalidProgramCounter, str)
	}
	return nil
}

// isWitnessVersionActive returns true if a witness program was extracted
// during the initialization of the Engine, and the program's version matches
// the specified version.
func (vm *Engine) isWitnessVersionActive(version uint) bool {
	return vm.witnessProgram != nil && uint(vm.witnessVersion) == version
}

// setScript installs the passed script as the currently executing one and
// resets all per-script execution state.
func (vm *Engine) setScript(pops []parsedOpcode) {
	vm.script = pops
	vm.scriptOff = 0
	vm.lastCodeSep = 0
	vm.numOps = 0
}

// scriptCompleted enforces the rules that apply at the end of every script in
// the redemption and resets the per-script state in preparation for the next
// one.
func (vm *Engine) scriptCompleted() error {
	// Illegal to have an `if' that straddles two scripts.
	if len(vm.condStack) != 0 {
		return scriptError(ErrUnbalancedConditional,
			"end of script reached in conditional execution")
	}

	// Alt stack doesn't persist between scripts.
	if vm.astack.Depth() != 0 {
		vm.astack.DropN(vm.astack.Depth())
	}

	return nil
}

// verifyWitnessProgram validates the stored witness program using the passed
// witness as input.  On success, the reconstituted witness script is installed
// as the currently executing script.
func (vm *Engine) verifyWitnessProgram(witness wire.TxWitness) error {
	switch len(vm.witnessProgram) {
	case payToWitnessPubKeyHashDataSize: // P2WKH
		// The witness stack should consist of exactly two items: the
		// signature, and the pubkey.
		if len(witness) != 2 {
			str := fmt.Sprintf("should have exactly two "+
				"items in witness, instead have %v", len(witness))
			return scriptError(ErrWitnessProgramMismatch, str)
		}

		// Now we'll resume execution as if it were a regular
		// p2pkh transaction.
		pkScript, err := payToPubKeyHashScript(vm.witnessProgram)
		if err != nil {
			return err
		}
		pops, err := parseScript(pkScript)
		if err != nil {
			return err
		}

		// Set the stack to the provided witness stack, then execute
		// the reconstituted pkScript.
		vm.SetStack(witness)
		vm.setScript(pops)
		vm.state = stateCheckWitness

	case payToWitnessScriptHashDataSize: // P2WSH
		// Additionally, The witness stack MUST NOT be empty at this
		// point.
		if len(witness) == 0 {
			return scriptError(ErrWitnessProgramEmpty, "witness "+
				"program empty passed empty witness")
		}

		// Obtain the witness script which should be the last element
		// in the passed stack.  The size of the script MUST NOT exceed
		// the max script size.
		witnessScript := witness[len(witness)-1]
		if len(witnessScript) > MaxScriptSize {
			str := fmt.Sprintf("witnessScript size %d "+
				"is larger than max allowed size %d",
				len(witnessScript), MaxScriptSize)
			return scriptError(ErrScriptTooBig, str)
		}

		// Ensure that the serialized pkScript at the end of the
		// witness stack matches the witness program.
		witnessHash := sha256.Sum256(witnessScript)
		if !bytes.Equal(witnessHash[:], vm.witnessProgram) {
			return scriptError(ErrWitnessProgramMismatch,
				"witness program hash mismatch")
		}

		// With all the validity checks passed, parse the script into
		// individual opcodes so we can execute it as the next script.
		pops, err := parseScript(witnessScript)
		if err != nil {
			return err
		}

		// The hash matched successfully, so use the witness as the
		// stack, and set the witnessScript to be the next script
		// executed.
		vm.SetStack(witness[:len(witness)-1])
		vm.setScript(pops)
		vm.state = stateCheckWitness

	default:
		errStr := fmt.Sprintf("length of witness program "+
			"must either be %v or %v bytes, instead is %v bytes",
			payToWitnessPubKeyHashDataSize,
			payToWitnessScriptHashDataSize,
			len(vm.witnessProgram))
		return scriptError(ErrWitnessProgramWrongLength, errStr)
	}

	// All elements within the witness stack must not be greater
	// than the maximum bytes which are allowed to be pushed onto
	// the stack.
	for _, witElement := range vm.GetStack() {
		if len(witElement) > MaxScriptElementSize {
			str := fmt.Sprintf("element size %d exceeds "+
				"max allowed size %d", len(witElement),
				MaxScriptElementSize)
			return scriptError(ErrElementTooBig, str)
		}
	}

	return nil
}

// nextScript runs the transition logic when the currently executing script has
// been exhausted.  It installs the next script of the redemption according to
// the current state or transitions to stateDone when the redemption is
// complete.
func (vm *Engine) nextScript() error {
	if err := vm.scriptCompleted(); err != nil {
		return err
	}

	switch vm.state {
	case stateRunInput:
		// Remember the stack produced by the signature script so the
		// serialized redeem script can be pulled off of it after the
		// public key script runs for pay-to-script-hash redemptions.
		if vm.bip16 {
			vm.savedFirstStack = vm.GetStack()
		}
		vm.setScript(vm.scriptPubKey)
		vm.state = stateRunOutput

	case stateRunOutput:
		switch {
		case vm.bip16:
			// Check script ran successfully.
			if err := vm.CheckErrorCondition(false); err != nil {
				return err
			}

			// Pull the serialized redeem script off of the stack
			// produced by the signature script and execute it.  A
			// script that fails to parse is an evaluation failure.
			script := vm.savedFirstStack[len(vm.savedFirstStack)-1]
			pops, err := parseScript(script)
			if err != nil {
				return err
			}
			vm.SetStack(vm.savedFirstStack[:len(vm.savedFirstStack)-1])
			vm.setScript(pops)
			vm.state = stateCheckP2SH

		case vm.witnessProgram != nil:
			if err := vm.verifyWitnessProgram(vm.tx.TxIn[vm.txIdx].Witness); err != nil {
				return err
			}

		default:
			vm.state = stateDone
		}

	case stateCheckP2SH:
		// A witness program nested within a pay-to-script-hash
		// redemption still has its witness script to run.
		if vm.witnessProgram != nil {
			if err := vm.verifyWitnessProgram(vm.tx.TxIn[vm.txIdx].Witness); err != nil {
				return err
			}
		} else {
			vm.state = stateDone
		}

	case stateCheckWitness:
		vm.state = stateDone
	}

	return nil
}

// CheckErrorCondition returns nil if the running script has ended and was
// successful, leaving a a true boolean on the stack.  An error otherwise,
// including if the script has not finished.
func (vm *Engine) CheckErrorCondition(finalScript bool) error {
	// Check execution is actually done.
	if finalScript && vm.state != stateDone {
		return scriptError(ErrScriptUnfinished,
			"error check when script unfinished")
	}

	// If we're in version zero witness execution mode, and this was the
	// final script, then the stack MUST be clean in order to maintain
	// compatibility with BIP16.
	if finalScript && vm.isWitnessVersionActive(0) && vm.dstack.Depth() != 1 {
		return scriptError(ErrEvalFalse, "witness program must "+
			"have clean stack")
	}

	if finalScript && vm.hasFlag(ScriptVerifyCleanStack) &&
		vm.dstack.Depth() != 1 {

		str := fmt.Sprintf("stack contains %d unexpected items",
			vm.dstack.Depth()-1)
		return scriptError(ErrCleanStack, str)
	} else if vm.dstack.Depth() < 1 {
		return scriptError(ErrEmptyStack,
			"stack empty at end of script execution")
	}

	v, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}
	if !v {
		// Log interesting data.
		log.Tracef("%v", newLogClosure(func() string {
			sigStr, _ := unparseScript(vm.scriptSig)
			pkStr, _ := unparseScript(vm.scriptPubKey)
			dis0, _ := DisasmString(sigStr)
			dis1, _ := DisasmString(pkStr)
			return fmt.Sprintf("scripts failed: script0: %s\n"+
				"script1: %s", dis0, dis1)
		}))
		return scriptError(ErrEvalFalse,
			"false stack entry at end of script execution")
	}
	return nil
}

// Step will execute the next instruction and move the program counter to the
// next opcode in the script, or the next script if the current has ended.
// Step will return true in the case that the last opcode was successfully
// executed.
//
// The result of calling Step or any other method is undefined if an error is
// returned.
func (vm *Engine) Step() (done bool, err error) {
	if vm.state == stateDone {
		return true, scriptError(ErrInvalidProgramCounter,
			"attempt to step beyond finished execution")
	}

	// Transition to the next script of the redemption when the current one
	// has been exhausted.  The signature script may legitimately be empty,
	// so multiple transitions may be needed before an opcode is available.
	for vm.scriptOff >= len(vm.script) {
		if err := vm.nextScript(); err != nil {
			return true, err
		}
		if vm.state == stateDone {
			return true, nil
		}
	}

	opcode := &vm.script[vm.scriptOff]
	vm.scriptOff++

	// Execute the opcode while taking into account several things such as
	// disabled opcodes, illegal opcodes, maximum allowed operations per
	// script, maximum script element sizes, and conditionals.
	err = vm.executeOpcode(opcode)
	if err != nil {
		return true, err
	}

	return false, nil
}

// DisasmPC returns the string for the disassembly of the opcode that will be
// next to execute when Step() is called.
func (vm *Engine) DisasmPC() (string, error) {
	if err := vm.validPC(); err != nil {
		return "", err
	}
	return fmt.Sprintf("%02x:%04x: %s", vm.state, vm.scriptOff,
		vm.script[vm.scriptOff].print(false)), nil
}

// DisasmScript returns the disassembly string for the script at the requested
// index.  Index 0 is the signature script and index 1 is the public key
// script.
func (vm *Engine) DisasmScript(idx int) (string, error) {
	var pops []parsedOpcode
	switch idx {
	case 0:
		pops = vm.scriptSig
	case 1:
		pops = vm.scriptPubKey
	default:
		str := fmt.Sprintf("script index %d >= total scripts 2", idx)
		return "", scriptError(ErrInvalidIndex, str)
	}

	var disstr string
	for i := range pops {
		disstr = disstr + fmt.Sprintf("%02x:%04x: %s\n", idx, i,
			pops[i].print(false))
	}
	return disstr, nil
}

// Execute will execute all scripts in the script engine and return either nil
// for successful validation or an error if one occurred.
func (vm *Engine) Execute() (err error) {
	done := false
	for !done {
		log.Tracef("%v", newLogClosure(func() string {
			dis, err := vm.DisasmPC()
			if err != nil {
				return fmt.Sprintf("stepping (%v)", err)
			}
			return fmt.Sprintf("stepping %v", dis)
		}))

		done, err = vm.Step()
		if err != nil {
			return err
		}
		log.Tracef("%v", newLogClosure(func() string {
			var dstr, astr string

			// if we're tracing, dump the stacks.
			if vm.dstack.Depth() != 0 {
				dstr = "Stack:\n" + vm.dstack.String()
			}
			if vm.astack.Depth() != 0 {
				astr = "AltStack:\n" + vm.astack.String()
			}

			return dstr + astr
		}))
	}

	return vm.CheckErrorCondition(true)
}

// subScript returns the script since the last OP_CODESEPARATOR.
func (vm *Engine) subScript() []parsedOpcode {
	return vm.script[vm.lastCodeSep:]
}

// txSigHashes returns the BIP0143 intermediary sighashes for the transaction
// being validated, computing them on first use.
func (vm *Engine) txSigHashes() *TxSigHashes {
	if vm.sigHashes == nil {
		vm.sigHashes = NewTxSigHashes(&vm.tx)
	}
	return vm.sigHashes
}

// checkHashTypeEncoding returns whether or not the passed hashtype adheres to
// the strict encoding requirements if enabled.
func (vm *Engine) checkHashTypeEncoding(hashType SigHashType) error {
	if !vm.hasFlag(ScriptVerifyStrictEncoding) {
		return nil
	}

	sigHashType := hashType & ^SigHashAnyOneCanPay
	if sigHashType < SigHashAll || sigHashType > SigHashSingle {
		str := fmt.Sprintf("invalid hash type 0x%x", hashType)
		return scriptError(ErrInvalidSigHashType, str)
	}
	return nil
}

// checkPubKeyEncoding returns whether or not the passed public key adheres to
// the strict encoding requirements if enabled.
func (vm *Engine) checkPubKeyEncoding(pubKey []byte) error {
	if !vm.hasFlag(ScriptVerifyStrictEncoding) {
		return nil
	}

	if len(pubKey) == 33 && (pubKey[0] == 0x02 || pubKey[0] == 0x03) {
		// Compressed
		return nil
	}
	if len(pubKey) == 65 && pubKey[0] == 0x04 {
		// Uncompressed
		return nil
	}

	return scriptError(ErrPubKeyType, "unsupported public key type")
}

// checkSignatureEncoding returns whether or not the passed signature adheres to
// the strict encoding requirements if enabled.
func (vm *Engine) checkSignatureEncoding(sig []byte) error {
	if !vm.hasFlag(ScriptVerifyDERSignatures) &&
		!vm.hasFlag(ScriptVerifyStrictEncoding) &&
		!vm.hasFlag(ScriptVerifyLowS) {

		return nil
	}

	// The format of a DER encoded signature is as follows:
	//
	// 0x30 <total length> 0x02 <length of R> <R> 0x02 <length of S> <S>
	//   - 0x30 is the ASN.1 identifier for a sequence
	//   - Total length is 1 byte and specifies length of all remaining data
	//   - 0x02 is the ASN.1 identifier that specifies an integer follows
	//   - Length of R is 1 byte and specifies how many bytes R occupies
	//   - R is the arbitrary length big-endian encoded number which
	//     represents the R value of the signature.  DER encoding dictates
	//     that the value must be encoded using the minimum possible number
	//     of bytes.  This implies the first byte can only be null if the
	//     highest bit of the next byte is set in order to prevent it from
	//     being interpreted as a negative number.
	//   - 0x02 is once again the ASN.1 integer identifier
	//   - Length of S is 1 byte and specifies how many bytes S occupies
	//   - S is the arbitrary length big-endian encoded number which
	//     represents the S value of the signature.  The encoding rules are
	//     identical as those of R.
	const (
		asn1SequenceID = 0x30
		asn1IntegerID  = 0x02

		// minSigLen is the minimum length of a DER encoded signature and is
		// when both R and S are 1 byte each.
		//
		// 0x30 + <1-byte> + 0x02 + 0x01 + <byte> + 0x2 + 0x01 + <byte>
		minSigLen = 8

		// maxSigLen is the maximum length of a DER encoded signature and is
		// when both R and S are 33 bytes each.  It is 33 bytes because a
		// 256-bit integer requires 32 bytes and an additional leading null byte
		// might be required if the high bit is set in the value.
		//
		// 0x30 + <1-byte> + 0x02 + 0x21 + <33 bytes> + 0x2 + 0x21 + <33 bytes>
		maxSigLen = 72

		// sequenceOffset is the byte offset within the signature of the
		// expected ASN.1 sequence identifier.
		sequenceOffset = 0

		// dataLenOffset is the byte offset within the signature of the expected
		// total length of all remaining data in the signature.
		dataLenOffset = 1

		// rTypeOffset is the byte offset within the signature of the ASN.1
		// identifier for R and is expected to indicate an ASN.1 integer.
		rTypeOffset = 2

		// rLenOffset is the byte offset within the signature of the length of
		// R.
		rLenOffset = 3

		// rOffset is the byte offset within the signature of R.
		rOffset = 4
	)

	// The signature must adhere to the minimum and maximum allowed length.
	sigLen := len(sig)
	if sigLen < minSigLen {
		str := fmt.Sprintf("malformed signature: too short: %d < %d",
			sigLen, minSigLen)
		return scriptError(ErrSigDER, str)
	}
	if sigLen > maxSigLen {
		str := fmt.Sprintf("malformed signature: too long: %d > %d",
			sigLen, maxSigLen)
		return scriptError(ErrSigDER, str)
	}

	// The signature must start with the ASN.1 sequence identifier.
	if sig[sequenceOffset] != asn1SequenceID {
		str := fmt.Sprintf("malformed signature: format has wrong type: %#x",
			sig[sequenceOffset])
		return scriptError(ErrSigDER, str)
	}

	// The signature must indicate the correct amount of data for all elements
	// related to R and S.
	if int(sig[dataLenOffset]) != sigLen-2 {
		str := fmt.Sprintf("malformed signature: bad length: %d != %d",
			sig[dataLenOffset], sigLen-2)
		return scriptError(ErrSigDER, str)
	}

	// Calculate the offsets of the elements related to S and ensure S is inside
	// the signature.
	//
	// rLen specifies the length of the big-endian encoded number which
	// represents the R value of the signature.
	//
	// sTypeOffset is the offset of the ASN.1 identifier for S and, like its R
	// counterpart, is expected to indicate an ASN.1 integer.
	//
	// sLenOffset and sOffset are the byte offsets within the signature of the
	// length of S and S itself, respectively.
	rLen := int(sig[rLenOffset])
	sTypeOffset := rOffset + rLen
	sLenOffset := sTypeOffset + 1
	if sTypeOffset >= sigLen {
		str := "malformed signature: S type indicator missing"
		return scriptError(ErrSigDER, str)
	}
	if sLenOffset >= sigLen {
		str := "malformed signature: S length missing"
		return scriptError(ErrSigDER, str)
	}

	// The lengths of R and S must match the overall length of the signature.
	//
	// sLen specifies the length of the big-endian encoded number which
	// represents the S value of the signature.
	sOffset := sLenOffset + 1
	sLen := int(sig[sLenOffset])
	if sOffset+sLen != sigLen {
		str := "malformed signature: invalid S length"
		return scriptError(ErrSigDER, str)
	}

	// R elements must be ASN.1 integers.
	if sig[rTypeOffset] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: R integer marker: %#x != %#x",
			sig[rTypeOffset], asn1IntegerID)
		return scriptError(ErrSigDER, str)
	}

	// Zero-length integers are not allowed for R.
	if rLen == 0 {
		str := "malformed signature: R length is zero"
		return scriptError(ErrSigDER, str)
	}

	// R must not be negative.
	if sig[rOffset]&0x80 != 0 {
		str := "malformed signature: R is negative"
		return scriptError(ErrSigDER, str)
	}

	// Null bytes at the start of R are not allowed, unless R would otherwise be
	// interpreted as a negative number.
	if rLen > 1 && sig[rOffset] == 0x00 && sig[rOffset+1]&0x80 == 0 {
		str := "malformed signature: R value has too much padding"
		return scriptError(ErrSigDER, str)
	}

	// S elements must be ASN.1 integers.
	if sig[sTypeOffset] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: S integer marker: %#x != %#x",
			sig[sTypeOffset], asn1IntegerID)
		return scriptError(ErrSigDER, str)
	}

	// Zero-length integers are not allowed for S.
	if sLen == 0 {
		str := "malformed signature: S length is zero"
		return scriptError(ErrSigDER, str)
	}

	// S must not be negative.
	if sig[sOffset]&0x80 != 0 {
		str := "malformed signature: S is negative"
		return scriptError(ErrSigDER, str)
	}

	// Null bytes at the start of S are not allowed, unless S would otherwise be
	// interpreted as a negative number.
	if sLen > 1 && sig[sOffset] == 0x00 && sig[sOffset+1]&0x80 == 0 {
		str := "malformed signature: S value has too much padding"
		return scriptError(ErrSigDER, str)
	}

	// Verify the S value is <= half the order of the curve.  This check is done
	// because when it is higher, the complement modulo the order can be used
	// instead which is a shorter encoding by 1 byte.  Further, without
	// enforcing this, it is possible to replace a signature in a valid
	// transaction with the complement while still being a valid signature that
	// verifies.  This would result in changing the transaction hash and thus is
	// a source of malleability.
	if vm.hasFlag(ScriptVerifyLowS) {
		sValue := new(big.Int).SetBytes(sig[sOffset : sOffset+sLen])
		if sValue.Cmp(halfOrder) > 0 {
			return scriptError(ErrSigHighS, "signature is not canonical due "+
				"to unnecessarily high S value")
		}
	}

	return nil
}

// getStack returns the contents of stack as a byte array bottom up
func getStack(stack *stack) [][]byte {
	array := make([][]byte, stack.Depth())
	for i := range array {
		// PeekByteArry can't fail due to overflow, already checked
		array[len(array)-i-1], _ = stack.PeekByteArray(int32(i))
	}
	return array
}

// setStack sets the stack to the contents of the array where the last item in
// the array is the top item in the stack.
func setStack(stack *stack, data [][]byte) {
	// This can not error. Only errors are for invalid arguments.
	_ = stack.DropN(stack.Depth())

	for i := range data {
		stack.PushByteArray(data[i])
	}
}

// GetStack returns the contents of the primary stack as an array. where the
// last item in the array is the top of the stack.
func (vm *Engine) GetStack() [][]byte {
	return getStack(&vm.dstack)
}

// SetStack sets the contents of the primary stack to the contents of the
// provided array where the last item in the array will be the top of the
// stack.
func (vm *Engine) SetStack(data [][]byte) {
	setStack(&vm.dstack, data)
}

// GetAltStack returns the contents of the alternate stack as an array where
// the last item in the array is the top of the stack.
func (vm *Engine) GetAltStack() [][]byte {
	return getStack(&vm.astack)
}

// SetAltStack sets the contents of the alternate stack to the contents of the
// provided array where the last item in the array will be the top of the
// stack.
func (vm *Engine) SetAltStack(data [][]byte) {
	setStack(&vm.astack, data)
}

// NewEngine returns a new script engine for the provided public key script,
// transaction, and input index.  The flags modify the behavior of the script
// engine according to the description provided by each flag.
func NewEngine(scriptPubKey []byte, tx *wire.MsgTx, txIdx int, flags ScriptFlags,
	inputAmount int64) (*Engine, error) {

	// The provided transaction input index must refer to a valid input.
	if txIdx < 0 || txIdx >= len(tx.TxIn) {
		str := fmt.Sprintf("transaction input index %d is negative or "+
			">= %d", txIdx, len(tx.TxIn))
		return nil, scriptError(ErrInvalidIndex, str)
	}
	scriptSig := tx.TxIn[txIdx].SignatureScript

	// When both the signature script and public key script are empty the
	// result is necessarily an error since the stack would end up being
	// empty which is equivalent to a false top element.  Thus, just return
	// the relevant error now as an optimization.
	if len(scriptSig) == 0 && len(scriptPubKey) == 0 {
		return nil, scriptError(ErrEvalFalse,
			"false stack entry at end of script execution")
	}

	// The clean stack flag (ScriptVerifyCleanStack) is not allowed without
	// the pay-to-script-hash (P2SH) evaluation (ScriptBip16) flag or the
	// Segregated Witness (ScriptVerifyWitness) flag.
	//
	// Recall that evaluating a P2SH script without the flag set results in
	// non-P2SH evaluation which leaves the P2SH inputs on the stack.
	// Thus, allowing the clean stack flag without the P2SH flag would make
	// it possible to have a situation where P2SH would not be a soft fork
	// when it should be.  The same goes for segwit which will pull in
	// additional scripts for execution from the witness stack.
	vm := Engine{flags: flags, tx: *tx, txIdx: txIdx, inputAmount: inputAmount}
	if vm.hasFlag(ScriptVerifyCleanStack) && (!vm.hasFlag(ScriptBip16) &&
		!vm.hasFlag(ScriptVerifyWitness)) {
		return nil, scriptError(ErrInvalidFlags,
			"invalid flags combination")
	}

	// The engine stores the scripts in parsed form using a slice.  This
	// allows multiple scripts to be executed in sequence.  For example,
	// with a pay-to-script-hash transaction, there will be ultimately be
	// a third script to execute.
	scripts := [][]byte{scriptSig, scriptPubKey}
	var parsedScripts [2][]parsedOpcode
	for i, scr := range scripts {
		if len(scr) > MaxScriptSize {
			str := fmt.Sprintf("script size %d is larger than max "+
				"allowed size %d", len(scr), MaxScriptSize)
			return nil, scriptError(ErrScriptTooBig, str)
		}
		var err error
		parsedScripts[i], err = parseScript(scr)
		if err != nil {
			return nil, err
		}
	}
	vm.scriptSig = parsedScripts[0]
	vm.scriptPubKey = parsedScripts[1]
	vm.state = stateRunInput
	vm.setScript(vm.scriptSig)

	if vm.hasFlag(ScriptVerifyMinimalData) {
		vm.dstack.verifyMinimalData = true
		vm.astack.verifyMinimalData = true
	}

	// The signature script must only contain data pushes when the
	// associated flag is set.
	if vm.hasFlag(ScriptVerifySigPushOnly) && !isPushOnly(vm.scriptSig) {
		return nil, scriptError(ErrNotPushOnly,
			"signature script is not push only")
	}

	// Advanced execution is enabled when the public key script is a
	// pay-to-script-hash redemption and the bip16 flag is set.  The
	// signature script must only contain data pushes in that case.
	if vm.hasFlag(ScriptBip16) && isScriptHash(vm.scriptPubKey) {
		// Only accept input scripts that push data for P2SH.
		if !isPushOnly(vm.scriptSig) {
			return nil, scriptError(ErrNotPushOnly,
				"pay to script hash is not push only")
		}
		vm.bip16 = true
	}

	// Check to see if we should execute in witness verification mode
	// according to the set flags.  We check both the pkScript, and the
	// sigScript here since in the case of nested p2sh, the scriptSig will
	// be a valid witness program.  For nested p2sh, all the bytes after
	// the first data push should *exactly* match the witness program
	// template.
	if vm.hasFlag(ScriptVerifyWitness) {
		// If witness evaluation is enabled, then P2SH MUST also be
		// active.
		if !vm.hasFlag(ScriptBip16) {
			return nil, scriptError(ErrInvalidFlags,
				"P2SH must be enabled to do witness verification")
		}

		var witProgram []byte

		switch {
		case isWitnessProgram(vm.scriptPubKey):
			// The scriptSig must be *empty* for all native witness
			// programs, otherwise we introduce malleability.
			if len(scriptSig) != 0 {
				return nil, scriptError(ErrWitnessMalleated,
					"native witness program cannot also have a "+
						"signature script")
			}

			witProgram = scriptPubKey

		case len(tx.TxIn[txIdx].Witness) != 0 && vm.bip16:
			// The sigScript MUST be *exactly* a single canonical
			// data push of the witness program, otherwise we
			// reintroduce malleability.
			sigPops := vm.scriptSig
			if len(sigPops) == 1 && canonicalPush(sigPops[0]) &&
				IsWitnessProgram(sigPops[0].data) {

				witProgram = sigPops[0].data
			} else {
				return nil, scriptError(ErrWitnessMalleatedP2SH,
					"signature script for witness "+
						"nested p2sh is not canonical")
			}
		}

		if witProgram != nil {
			var err error
			vm.witnessVersion, vm.witnessProgram, err =
				ExtractWitnessProgramInfo(witProgram)
			if err != nil {
				return nil, err
			}

			// Witness program versions other than zero carry no
			// additional semantics, so the program is treated as
			// anyone-can-spend and the witness itself is not
			// inspected.
			if vm.witnessVersion != 0 {
				vm.witnessProgram = nil
			}
		} else {
			// If we didn't find a witness program in either the
			// pkScript or as a datapush within the sigScript, then
			// there MUST NOT be any witness data associated with
			// the input being validated.
			if vm.witnessProgram == nil && len(tx.TxIn[txIdx].Witness) != 0 {
				return nil, scriptError(ErrWitnessUnexpected,
					"non-witness inputs cannot have a witness")
			}
		}
	}

	return &vm, nil
}
