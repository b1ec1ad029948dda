// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/Quantum-Platinum-Cloud/libbitcoin-consensus/txscript"
	"github.com/Quantum-Platinum-Cloud/libbitcoin-consensus/wire"
)

// VerifyFlags is a bitmask selecting which additional consensus rules to
// enforce while verifying a script.  The flag values match the script
// verification flags of the reference implementation.
type VerifyFlags uint32

const (
	// FlagsNone evaluates scripts with no additional rules beyond the
	// original script semantics.
	FlagsNone VerifyFlags = 0

	// FlagsP2SH enables BIP0016 pay-to-script-hash evaluation.
	FlagsP2SH VerifyFlags = 1 << 0

	// FlagsDERSig requires signatures to be strict DER encoded (BIP0066).
	FlagsDERSig VerifyFlags = 1 << 2

	// FlagsNullDummy requires the CHECKMULTISIG dummy argument to be zero
	// length (BIP0147).
	FlagsNullDummy VerifyFlags = 1 << 4

	// FlagsCheckLockTimeVerify enables OP_CHECKLOCKTIMEVERIFY (BIP0065).
	FlagsCheckLockTimeVerify VerifyFlags = 1 << 9

	// FlagsCheckSequenceVerify enables OP_CHECKSEQUENCEVERIFY (BIP0112).
	FlagsCheckSequenceVerify VerifyFlags = 1 << 10

	// FlagsWitness enables segregated witness evaluation (BIP0141).
	// It has no effect unless FlagsP2SH is also set.
	FlagsWitness VerifyFlags = 1 << 11
)

// scriptFlags converts the verification flags into the engine's flag
// bitmask.
func (flags VerifyFlags) scriptFlags() txscript.ScriptFlags {
	var sf txscript.ScriptFlags
	if flags&FlagsP2SH != 0 {
		sf |= txscript.ScriptBip16
	}
	if flags&FlagsDERSig != 0 {
		sf |= txscript.ScriptVerifyDERSignatures
	}
	if flags&FlagsNullDummy != 0 {
		sf |= txscript.ScriptStrictMultiSig
	}
	if flags&FlagsCheckLockTimeVerify != 0 {
		sf |= txscript.ScriptVerifyCheckLockTimeVerify
	}
	if flags&FlagsCheckSequenceVerify != 0 {
		sf |= txscript.ScriptVerifyCheckSequenceVerify
	}
	if flags&FlagsWitness != 0 {
		sf |= txscript.ScriptVerifyWitness
	}
	return sf
}

// VerifyResult is the outcome of a script verification.  Every verification
// produces exactly one result from this closed set.
type VerifyResult int

const (
	// EvalTrue means the scripts evaluated successfully.
	EvalTrue VerifyResult = iota

	// EvalFalse means the scripts evaluated without a more specific
	// failure, but terminated with a false or missing top stack element.
	EvalFalse

	// Max sizes exceeded.
	ScriptSize
	PushSize
	OpCount
	StackSize
	SigCount
	PubkeyCount

	// Failed verify operations.
	Verify
	EqualVerify
	CheckMultisigVerify
	CheckSigVerify
	NumEqualVerify

	// Logical and format errors.
	BadOpcode
	DisabledOpcode
	InvalidStackOperation
	UnbalancedConditional

	// Lock time errors.
	NegativeLocktime
	UnsatisfiedLocktime

	// BIP0062 and strict encoding errors.
	SigHashType
	SigDER
	SigHighS
	SigNullDummy
	PubkeyType
	CleanStack
	MinimalData
	SigPushOnly

	// Segregated witness errors.
	WitnessProgramWrongLength
	WitnessProgramEmpty
	WitnessProgramMismatch
	WitnessMalleated
	WitnessMalleatedP2SH
	WitnessUnexpected

	// Transaction preconditions.  These are reported before any script
	// evaluation takes place.
	TxInvalid
	TxSizeInvalid
	TxInputInvalid
	ValueOverflow
)

// verifyResultStrings is a map of verify results back to their constant names
// for pretty printing.
var verifyResultStrings = map[VerifyResult]string{
	EvalTrue:                  "EvalTrue",
	EvalFalse:                 "EvalFalse",
	ScriptSize:                "ScriptSize",
	PushSize:                  "PushSize",
	OpCount:                   "OpCount",
	StackSize:                 "StackSize",
	SigCount:                  "SigCount",
	PubkeyCount:               "PubkeyCount",
	Verify:                    "Verify",
	EqualVerify:               "EqualVerify",
	CheckMultisigVerify:       "CheckMultisigVerify",
	CheckSigVerify:            "CheckSigVerify",
	NumEqualVerify:            "NumEqualVerify",
	BadOpcode:                 "BadOpcode",
	DisabledOpcode:            "DisabledOpcode",
	InvalidStackOperation:     "InvalidStackOperation",
	UnbalancedConditional:     "UnbalancedConditional",
	NegativeLocktime:          "NegativeLocktime",
	UnsatisfiedLocktime:       "UnsatisfiedLocktime",
	SigHashType:               "SigHashType",
	SigDER:                    "SigDER",
	SigHighS:                  "SigHighS",
	SigNullDummy:              "SigNullDummy",
	PubkeyType:                "PubkeyType",
	CleanStack:                "CleanStack",
	MinimalData:               "MinimalData",
	SigPushOnly:               "SigPushOnly",
	WitnessProgramWrongLength: "WitnessProgramWrongLength",
	WitnessProgramEmpty:       "WitnessProgramEmpty",
	WitnessProgramMismatch:    "WitnessProgramMismatch",
	WitnessMalleated:          "WitnessMalleated",
	WitnessMalleatedP2SH:      "WitnessMalleatedP2SH",
	WitnessUnexpected:         "WitnessUnexpected",
	TxInvalid:                 "TxInvalid",
	TxSizeInvalid:             "TxSizeInvalid",
	TxInputInvalid:            "TxInputInvalid",
	ValueOverflow:             "ValueOverflow",
}

// String returns the VerifyResult as a human-readable name.
func (r VerifyResult) String() string {
	if s, ok := verifyResultStrings[r]; ok {
		return s
	}
	return fmt.Sprintf("Unknown VerifyResult (%d)", int(r))
}

// PrevOutput describes the output being spent by the input under
// verification.  It is supplied by the caller since the verifier has no
// access to the chain.
type PrevOutput struct {
	// Script is the public key script of the output being spent.
	Script []byte

	// Value is the amount of the output being spent, in satoshi.  It is
	// committed to by BIP0143 signatures.
	Value uint64
}

// resultFromError converts an error returned by the script engine into the
// most specific verification result.  Errors without a dedicated result map
// to EvalFalse.
func resultFromError(err error) VerifyResult {
	serr, ok := err.(txscript.Error)
	if !ok {
		return EvalFalse
	}

	switch serr.ErrorCode {
	case txscript.ErrScriptTooBig:
		return ScriptSize
	case txscript.ErrElementTooBig:
		return PushSize
	case txscript.ErrTooManyOperations:
		return OpCount
	case txscript.ErrStackOverflow:
		return StackSize
	case txscript.ErrInvalidSignatureCount:
		return SigCount
	case txscript.ErrInvalidPubKeyCount:
		return PubkeyCount
	case txscript.ErrVerify:
		return Verify
	case txscript.ErrEqualVerify:
		return EqualVerify
	case txscript.ErrCheckMultiSigVerify:
		return CheckMultisigVerify
	case txscript.ErrCheckSigVerify:
		return CheckSigVerify
	case txscript.ErrNumEqualVerify:
		return NumEqualVerify
	case txscript.ErrReservedOpcode, txscript.ErrMalformedPush:
		return BadOpcode
	case txscript.ErrDisabledOpcode:
		return DisabledOpcode
	case txscript.ErrInvalidStackOperation, txscript.ErrNumberTooBig:
		return InvalidStackOperation
	case txscript.ErrUnbalancedConditional:
		return UnbalancedConditional
	case txscript.ErrNegativeLockTime:
		return NegativeLocktime
	case txscript.ErrUnsatisfiedLockTime:
		return UnsatisfiedLocktime
	case txscript.ErrInvalidSigHashType:
		return SigHashType
	case txscript.ErrSigDER:
		return SigDER
	case txscript.ErrSigHighS:
		return SigHighS
	case txscript.ErrSigNullDummy:
		return SigNullDummy
	case txscript.ErrPubKeyType:
		return PubkeyType
	case txscript.ErrCleanStack:
		return CleanStack
	case txscript.ErrMinimalData:
		return MinimalData
	case txscript.ErrNotPushOnly:
		return SigPushOnly
	case txscript.ErrWitnessProgramWrongLength:
		return WitnessProgramWrongLength
	case txscript.ErrWitnessProgramEmpty:
		return WitnessProgramEmpty
	case txscript.ErrWitnessProgramMismatch:
		return WitnessProgramMismatch
	case txscript.ErrWitnessMalleated:
		return WitnessMalleated
	case txscript.ErrWitnessMalleatedP2SH:
		return WitnessMalleatedP2SH
	case txscript.ErrWitnessUnexpected:
		return WitnessUnexpected
	}

	return EvalFalse
}

// runEngine executes the script engine for the given transaction input and
// previous output, converting any failure to its verification result.
func runEngine(prevOut PrevOutput, tx *wire.MsgTx, inputIndex int,
	flags VerifyFlags) VerifyResult {

	vm, err := txscript.NewEngine(prevOut.Script, tx, inputIndex,
		flags.scriptFlags(), int64(prevOut.Value))
	if err != nil {
		return resultFromError(err)
	}

	if err := vm.Execute(); err != nil {
		log.Debugf("input %d failed verification: %v", inputIndex, err)
		return resultFromError(err)
	}

	return EvalTrue
}

// VerifyScript verifies an input of a serialized transaction against the
// output it spends.  The arguments are checked before any script executes:
// the previous output value must not exceed the maximum number of satoshi,
// the transaction must decode, its serialized size must match the provided
// bytes, and the input index must be in range.  Failures of these
// preconditions are reported with their dedicated results.
//
// The function never panics and always returns exactly one result.
func VerifyScript(txBytes []byte, prevOut PrevOutput, inputIndex uint32,
	flags VerifyFlags) (result VerifyResult) {

	defer func() {
		if r := recover(); r != nil {
			log.Criticalf("unexpected panic during script "+
				"verification: %v", r)
			result = EvalFalse
		}
	}()

	// The value bound is checked before the transaction is touched, so an
	// overflowing amount is reported even when the bytes do not decode.
	if prevOut.Value > uint64(btcutil.MaxSatoshi) {
		return ValueOverflow
	}

	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(txBytes)); err != nil {
		return TxInvalid
	}

	// A decode that consumed fewer bytes than provided means the caller's
	// size view of the transaction disagrees with the decoded one.
	if tx.SerializeSize() != len(txBytes) {
		return TxSizeInvalid
	}

	if inputIndex >= uint32(len(tx.TxIn)) {
		return TxInputInvalid
	}

	return runEngine(prevOut, &tx, int(inputIndex), flags)
}

// VerifyUnsignedScript verifies a signature script and witness against a
// previous output script without a caller-supplied transaction.  A canonical
// crediting and spending transaction pair is synthesized around the scripts,
// which makes the function suitable for script-only fixtures where no real
// transaction exists.  Signature operations run against the synthesized
// spending transaction.
func VerifyUnsignedScript(prevOut PrevOutput, sigScript []byte,
	witness wire.TxWitness, flags VerifyFlags) (result VerifyResult) {

	defer func() {
		if r := recover(); r != nil {
			log.Criticalf("unexpected panic during script "+
				"verification: %v", r)
			result = EvalFalse
		}
	}()

	if prevOut.Value > uint64(btcutil.MaxSatoshi) {
		return ValueOverflow
	}

	_, spendTx := buildVerifyTxPair(prevOut, sigScript, witness)
	return runEngine(prevOut, spendTx, 0, flags)
}

// buildVerifyTxPair synthesizes the canonical crediting transaction holding
// the output script and the spending transaction redeeming it with the passed
// signature script and witness.
func buildVerifyTxPair(prevOut PrevOutput, sigScript []byte,
	witness wire.TxWitness) (*wire.MsgTx, *wire.MsgTx) {

	creditTx := wire.NewMsgTx(wire.TxVersion)
	creditTx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{
			Hash:  chainhash.Hash{},
			Index: ^uint32(0),
		},
		SignatureScript: []byte{txscript.OP_0, txscript.OP_0},
		Sequence:        wire.MaxTxInSequenceNum,
	})
	creditTx.AddTxOut(&wire.TxOut{
		Value:    int64(prevOut.Value),
		PkScript: prevOut.Script,
	})

	spendTx := wire.NewMsgTx(wire.TxVersion)
	spendTx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{
			Hash:  creditTx.TxHash(),
			Index: 0,
		},
		SignatureScript: sigScript,
		Witness:         witness,
		Sequence:        wire.MaxTxInSequenceNum,
	})
	spendTx.AddTxOut(&wire.TxOut{
		Value:    int64(prevOut.Value),
		PkScript: nil,
	})

	return creditTx, spendTx
}
