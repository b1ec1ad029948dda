// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus_test

import (
	"encoding/hex"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Quantum-Platinum-Cloud/libbitcoin-consensus/consensus"
	"github.com/Quantum-Platinum-Cloud/libbitcoin-consensus/txscript"
	"github.com/Quantum-Platinum-Cloud/libbitcoin-consensus/wire"
)

// Test case derived from:
// github.com/libbitcoin/libbitcoin-explorer/wiki/How-to-Spend-Bitcoin
const (
	verifyTxHex = "01000000017d01943c40b7f3d8a00a2d62fa1d560bf739a236" +
		"8c180615b0a7937c0e883e7c000000006b4830450221008f66d188c664" +
		"a8088893ea4ddd9689024ea5593877753ecc1e9051ed58c15168022037" +
		"109f0d06e6068b7447966f751de8474641ad2b15ec37f4a9d159b02af6" +
		"8174012103e208f5403383c77d5832a268c9f71480f6e7bfbdfa44904b" +
		"ecacfad66163ea31ffffffff01c8af0000000000001976a91458b7a60f" +
		"11a904feef35a639b6048de8dd4d9f1c88ac00000000"
	verifyPrevScriptHex = "76a914c564c740c6900b93afc9f1bdaef0a9d466adf6ee88ac"
)

// Test case derived from the first segregated witness transaction, a nested
// pay-to-script-hash pay-to-witness-pubkey-hash spend.
const (
	verifyWitnessTxHex = "010000000001015836964079411659db5a4cfddd70e3f0" +
		"de0261268f86c998a69a143f47c6c83800000000171600149445e8b825" +
		"f1a17d5e091948545c90654096db68ffffffff02d8be04000000000017" +
		"a91422c17a06117b40516f9826804800003562e834c987000000000000" +
		"00004d6a4b424950313431205c6f2f2048656c6c6f2053656757697420" +
		"3a2d29206b65657020697420737472" +
		"6f6e6721204c4c415020426974636f696e20747769747465722e636f6d" +
		"2f6b6873396e6502483045022100aaa281e0611ba0b5a2cd055f77e559" +
		"4709d611ad1233e7096394f64ffe16f5b202207e2dcc9ef3a54c244717" +
		"99ab99f6615847b21be2a6b4e0285918fd025597c5740121021ec0613f" +
		"21c4e81c4b300426e5e5d30fa651f41e9993223adbe74dbe603c74fb00" +
		"000000"
	verifyWitnessPrevScriptHex = "a914642bda298792901eb1b48f654dd7225d99e5e68c87"
	verifyWitnessPrevValue     = 500000
)

// verifyAllFlags is the full set of verification flags the package exposes.
const verifyAllFlags = consensus.FlagsP2SH | consensus.FlagsDERSig |
	consensus.FlagsNullDummy | consensus.FlagsCheckLockTimeVerify |
	consensus.FlagsCheckSequenceVerify | consensus.FlagsWitness

// Script fixtures generated against the canonical transaction pair the
// package synthesizes for script-only verification.  All signatures commit
// to SigHashAll over the spending transaction with a zero output value.
const (
	fixturePubKey1 = "036197861fb54cf708db8e03d815c1603bcf620f4ddb1c865a" +
		"e53cc41fc2434734"
	fixturePubKey2 = "02ac4495c6160d82c58e4b0af1d9ed4ff22dcf8ec718b05221" +
		"1f13686a200222bd"

	// Single key OP_CHECKSIG spend.
	checkSigSig = "3045022100c9739e2d9ef58da2eecc5b040698602ce64ea14d40" +
		"0f5ec718a6747050fc85900220791168c7183d45b5d965fb7abb535d64" +
		"2deed00e35eed318ae214f631280a9b801"

	// The same signature with a redundant zero prepended to the R value.
	// It parses under lax BER rules but is not strict DER.
	checkSigPaddedSig = "304602220000c9739e2d9ef58da2eecc5b040698602ce6" +
		"4ea14d400f5ec718a6747050fc85900220791168c7183d45b5d965fb7a" +
		"bb535d642deed00e35eed318ae214f631280a9b801"

	// A well-formed signature over a different message.
	checkSigWrongMsgSig = "3045022100bf83b6b07d664a388e5454feb264689601" +
		"0729229dafe2fc71b7d92e26a15c26022027777d8a299fba1c97985017" +
		"abb16953367bcf2e9620933e4d570ef85ff6dfd101"

	// Multisig spends for 1-of-1, 2-of-2, and 1-of-2 arrangements.
	multiSig11Sig = "3045022100ae6f3858bffa6795ecdf15508bd3f8a43d7af02c" +
		"da119fbd7397ce41b9c5588802200dcd06be7178d080dc843daf959cfd" +
		"be756c958f18b438df4b3778a5cd75984901"
	multiSig22Sig1 = "30440220050a3d768f03c9a62db2686670924bb9aefb23c87" +
		"ca89554555bafc199ffbb150220584e9e36d2c619006ec40e82db70436" +
		"13a99577a4a85f00504590c6945d55d7401"
	multiSig22Sig2 = "3044022034a5885ba33424b4e3f2590b4a96e71a14fad38dd" +
		"b87dfb583836d19ef48b0e0022020ed67c2db5dc83322109b2b4e73c44" +
		"1eb5d7db667891e35095a880883efc4cd01"
	multiSig12Sig2 = "304402205a3c65cb159f6ca64f8f53f7b5a0aa7534989ec19" +
		"0f2c1442b54673a2d9a83f102203c54964303024f30252c521d0f85bdf" +
		"0d8ad4b7fc61c263aba4d925664a33a8601"

	// Pay-to-script-hash spend of a single key OP_CHECKSIG redeem script.
	p2shRedeemScript = "21036197861fb54cf708db8e03d815c1603bcf620f4ddb1" +
		"c865ae53cc41fc2434734ac"
	p2shRedeemHash = "1e5291c22ae49a359404fd73beb4c3ad2da2e512"
	p2shSig        = "3044022048209bea27007c8370e6bc5b884c60ecc01db7adf0" +
		"06d1bcc57cc7f1d4c543df02203797e4e4927c7aba49b1709e135eef9c" +
		"b47fb5c19f68c8cc1266b91bf2f223ec01"
)

// Native pay-to-witness-pubkey-hash spend of the first fixture key.  The
// program is the hash160 of the key and the signature commits to the BIP0143
// digest, which includes the previous output value below.
const (
	p2wkhProgram = "397143e308158eda563e60faa0df24fca3b34fd9"
	p2wkhSig     = "30450221009e6575bd2a493715c41dd829ff1b523f2410163bc1" +
		"6edbc178052e700e5076f702204e934d707d8a304d41eb45dba49c8726" +
		"cac653414b9d601167b759f09fca2cd801"
	p2wkhValue = 100000
)

func mustDecodeHex(t *testing.T, encoded string) []byte {
	t.Helper()

	decoded, err := hex.DecodeString(encoded)
	require.NoError(t, err, "invalid hex %q", encoded)
	return decoded
}

func mustAssemble(t *testing.T, asm string) []byte {
	t.Helper()

	script, err := txscript.Assemble(asm)
	require.NoError(t, err, "invalid script source %q", asm)
	return script
}

// scriptPairTest describes a signature script and public key script pair in
// assembler mnemonics along with the expected result for a flag set.
type scriptPairTest struct {
	name      string
	sigScript string
	pkScript  string
	witness   []string
	value     uint64
	flags     consensus.VerifyFlags
	want      consensus.VerifyResult
}

func runScriptPairTests(t *testing.T, tests []scriptPairTest) {
	t.Helper()

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			prevOut := consensus.PrevOutput{
				Script: mustAssemble(t, test.pkScript),
				Value:  test.value,
			}
			sigScript := mustAssemble(t, test.sigScript)
			var witness wire.TxWitness
			for _, item := range test.witness {
				witness = append(witness,
					mustDecodeHex(t, item))
			}

			result := consensus.VerifyUnsignedScript(prevOut,
				sigScript, witness, test.flags)
			require.Equal(t, test.want, result)
		})
	}
}

// TestVerifyScriptPreconditions ensures malformed transactions and out of
// range parameters are rejected with their dedicated results before any
// script evaluation takes place.
func TestVerifyScriptPreconditions(t *testing.T) {
	txBytes := mustDecodeHex(t, verifyTxHex)
	prevOut := consensus.PrevOutput{
		Script: mustDecodeHex(t, verifyPrevScriptHex),
	}

	// A single byte is not a deserializable transaction.
	result := consensus.VerifyScript([]byte{0x42}, prevOut, 0,
		consensus.FlagsNone)
	require.Equal(t, consensus.TxInvalid, result)

	// Trailing bytes beyond the decoded transaction.
	oversized := append(append([]byte{}, txBytes...), 0x42)
	result = consensus.VerifyScript(oversized, prevOut, 0,
		consensus.FlagsP2SH)
	require.Equal(t, consensus.TxSizeInvalid, result)

	// The transaction only has one input.
	result = consensus.VerifyScript(txBytes, prevOut, 1,
		consensus.FlagsNone)
	require.Equal(t, consensus.TxInputInvalid, result)

	// Previous output value beyond the maximum number of satoshi.
	overflowOut := consensus.PrevOutput{
		Script: prevOut.Script,
		Value:  math.MaxUint64,
	}
	result = consensus.VerifyScript(txBytes, overflowOut, 0,
		consensus.FlagsNone)
	require.Equal(t, consensus.ValueOverflow, result)

	// The value bound takes precedence over transaction decoding, so an
	// overflowing value is reported even for undecodable bytes.
	result = consensus.VerifyScript([]byte{0x42}, overflowOut, 0,
		consensus.FlagsNone)
	require.Equal(t, consensus.ValueOverflow, result)

	result = consensus.VerifyUnsignedScript(overflowOut, nil, nil,
		consensus.FlagsNone)
	require.Equal(t, consensus.ValueOverflow, result)
}

// TestVerifyScript verifies a real pay-to-pubkey-hash transaction against
// the output it spent on mainnet.
func TestVerifyScript(t *testing.T) {
	txBytes := mustDecodeHex(t, verifyTxHex)
	prevOut := consensus.PrevOutput{
		Script: mustDecodeHex(t, verifyPrevScriptHex),
	}

	result := consensus.VerifyScript(txBytes, prevOut, 0,
		consensus.FlagsNone)
	require.Equal(t, consensus.EvalTrue, result)

	result = consensus.VerifyScript(txBytes, prevOut, 0, verifyAllFlags)
	require.Equal(t, consensus.EvalTrue, result)

	// The same transaction against an output script whose final pubkey
	// hash byte differs.
	badPrevOut := consensus.PrevOutput{
		Script: mustDecodeHex(t, "76a914c564c740c6900b93afc9f1bdae"+
			"f0a9d466adf6ef88ac"),
	}
	result = consensus.VerifyScript(txBytes, badPrevOut, 0,
		consensus.FlagsNone)
	require.Equal(t, consensus.EqualVerify, result)
}

// TestVerifyScriptWitness verifies the first segregated witness transaction,
// a nested pay-to-script-hash pay-to-witness-pubkey-hash spend, against the
// output it spent on mainnet.
func TestVerifyScriptWitness(t *testing.T) {
	txBytes := mustDecodeHex(t, verifyWitnessTxHex)
	prevOut := consensus.PrevOutput{
		Script: mustDecodeHex(t, verifyWitnessPrevScriptHex),
		Value:  verifyWitnessPrevValue,
	}

	result := consensus.VerifyScript(txBytes, prevOut, 0, verifyAllFlags)
	require.Equal(t, consensus.EvalTrue, result)

	// Without the witness flag the input verifies as an ordinary
	// pay-to-script-hash spend.
	result = consensus.VerifyScript(txBytes, prevOut, 0,
		consensus.FlagsP2SH)
	require.Equal(t, consensus.EvalTrue, result)

	// BIP0143 signatures commit to the spent output value, so a wrong
	// value invalidates the signature.
	wrongValue := consensus.PrevOutput{Script: prevOut.Script, Value: 1}
	result = consensus.VerifyScript(txBytes, wrongValue, 0,
		verifyAllFlags)
	require.Equal(t, consensus.EvalFalse, result)
}

// TestVerifyCheckSig exercises single signature verification under the lax
// and strict DER encoding rules.
func TestVerifyCheckSig(t *testing.T) {
	const pkScript = "0x21 0x" + fixturePubKey1 + " CHECKSIG"

	tests := []scriptPairTest{{
		name:      "valid",
		sigScript: "0x48 0x" + checkSigSig,
		pkScript:  pkScript,
		flags:     consensus.FlagsNone,
		want:      consensus.EvalTrue,
	}, {
		name:      "valid strict der",
		sigScript: "0x48 0x" + checkSigSig,
		pkScript:  pkScript,
		flags:     consensus.FlagsDERSig,
		want:      consensus.EvalTrue,
	}, {
		name:      "wrong message",
		sigScript: "0x48 0x" + checkSigWrongMsgSig,
		pkScript:  pkScript,
		flags:     consensus.FlagsNone,
		want:      consensus.EvalFalse,
	}, {
		name:      "wrong message strict der",
		sigScript: "0x48 0x" + checkSigWrongMsgSig,
		pkScript:  pkScript,
		flags:     consensus.FlagsDERSig,
		want:      consensus.EvalFalse,
	}, {
		name:      "padded r lax",
		sigScript: "0x49 0x" + checkSigPaddedSig,
		pkScript:  pkScript,
		flags:     consensus.FlagsNone,
		want:      consensus.EvalTrue,
	}, {
		name:      "padded r strict der",
		sigScript: "0x49 0x" + checkSigPaddedSig,
		pkScript:  pkScript,
		flags:     consensus.FlagsDERSig,
		want:      consensus.SigDER,
	}}

	runScriptPairTests(t, tests)
}

// TestVerifyMultiSig exercises CHECKMULTISIG verification for several key
// arrangements under both lax and strict DER rules, along with the BIP0147
// dummy element rule.
func TestVerifyMultiSig(t *testing.T) {
	const (
		pkScript11 = "1 0x21 0x" + fixturePubKey1 + " 1 CHECKMULTISIG"
		pkScript22 = "2 0x21 0x" + fixturePubKey1 + " 0x21 0x" +
			fixturePubKey2 + " 2 CHECKMULTISIG"
		pkScript12 = "1 0x21 0x" + fixturePubKey1 + " 0x21 0x" +
			fixturePubKey2 + " 2 CHECKMULTISIG"
	)

	valid := []scriptPairTest{{
		name:      "1 of 1",
		sigScript: "0 0x48 0x" + multiSig11Sig,
		pkScript:  pkScript11,
	}, {
		name: "2 of 2",
		sigScript: "0 0x47 0x" + multiSig22Sig1 + " 0x47 0x" +
			multiSig22Sig2,
		pkScript: pkScript22,
	}, {
		name:      "1 of 2 second key",
		sigScript: "0 0x47 0x" + multiSig12Sig2,
		pkScript:  pkScript12,
	}}

	invalid := []scriptPairTest{{
		name: "2 of 2 swapped order",
		sigScript: "0 0x47 0x" + multiSig22Sig2 + " 0x47 0x" +
			multiSig22Sig1,
		pkScript: pkScript22,
		want:     consensus.EvalFalse,
	}, {
		name:      "wrong message",
		sigScript: "0 0x48 0x" + checkSigWrongMsgSig,
		pkScript:  pkScript11,
		want:      consensus.EvalFalse,
	}, {
		name:      "missing dummy",
		sigScript: "0x48 0x" + multiSig11Sig,
		pkScript:  pkScript11,
		want:      consensus.InvalidStackOperation,
	}}

	// Every vector behaves identically with and without strict DER since
	// all fixture signatures are strictly encoded.
	var tests []scriptPairTest
	for _, test := range valid {
		test.want = consensus.EvalTrue
		test.flags = consensus.FlagsNone
		tests = append(tests, test)

		strict := test
		strict.name += " strict der"
		strict.flags = consensus.FlagsDERSig
		tests = append(tests, strict)
	}
	for _, test := range invalid {
		test.flags = consensus.FlagsNone
		tests = append(tests, test)

		strict := test
		strict.name += " strict der"
		strict.flags = consensus.FlagsDERSig
		tests = append(tests, strict)
	}

	// A non-zero dummy element is only rejected under the null dummy
	// rule.
	tests = append(tests, scriptPairTest{
		name:      "non-null dummy lax",
		sigScript: "1 0x48 0x" + multiSig11Sig,
		pkScript:  pkScript11,
		flags:     consensus.FlagsNone,
		want:      consensus.EvalTrue,
	}, scriptPairTest{
		name:      "non-null dummy",
		sigScript: "1 0x48 0x" + multiSig11Sig,
		pkScript:  pkScript11,
		flags:     consensus.FlagsNullDummy,
		want:      consensus.SigNullDummy,
	})

	runScriptPairTests(t, tests)
}

// TestVerifyPayToScriptHash exercises BIP0016 evaluation.  Each vector
// verifies as a plain script without the flag, while only the well formed
// redeem scripts verify with it.
func TestVerifyPayToScriptHash(t *testing.T) {
	valid := []scriptPairTest{{
		name:      "trivial redeem",
		sigScript: "0x01 0x51",
		pkScript: "HASH160 0x14 0xda1745e9b549bd0bfa1a569971c77eba" +
			"30cd5a4b EQUAL",
	}, {
		name: "checksig redeem",
		sigScript: "0x47 0x" + p2shSig + " 0x23 0x" +
			p2shRedeemScript,
		pkScript: "HASH160 0x14 0x" + p2shRedeemHash + " EQUAL",
	}, {
		name:      "conditional redeem",
		sigScript: "1 0x03 0x635168",
		pkScript: "HASH160 0x14 0xe7309652a8e3f600f06f5d8d52d6df03" +
			"d2176cc3 EQUAL",
	}}

	invalidated := []scriptPairTest{{
		name:      "reserved redeem",
		sigScript: "0x01 0x50",
		pkScript: "HASH160 0x14 0xece424a6bb6ddf4db592c0faed606850" +
			"47a361b1 EQUAL",
		want: consensus.BadOpcode,
	}, {
		name:      "false redeem",
		sigScript: "0x01 0x00",
		pkScript: "HASH160 0x14 0x9f7fd096d37ed2c0e3f7f0cfc924beef" +
			"4ffceb68 EQUAL",
		want: consensus.EvalFalse,
	}, {
		name:      "non-push signature script",
		sigScript: "0x01 0x51 NOP",
		pkScript: "HASH160 0x14 0xda1745e9b549bd0bfa1a569971c77eba" +
			"30cd5a4b EQUAL",
		want: consensus.SigPushOnly,
	}}

	var tests []scriptPairTest
	for _, test := range valid {
		test.want = consensus.EvalTrue
		test.flags = consensus.FlagsNone
		tests = append(tests, test)

		p2sh := test
		p2sh.name += " p2sh"
		p2sh.flags = consensus.FlagsP2SH
		tests = append(tests, p2sh)
	}
	for _, test := range invalidated {
		// Without the flag the redeem script is an ordinary data
		// push, so the vector verifies.
		lax := test
		lax.name += " lax"
		lax.flags = consensus.FlagsNone
		lax.want = consensus.EvalTrue
		tests = append(tests, lax)

		test.name += " p2sh"
		test.flags = consensus.FlagsP2SH
		tests = append(tests, test)
	}

	runScriptPairTests(t, tests)
}

// TestVerifyWitnessPrograms exercises native witness program evaluation
// through the script-only entry point.
func TestVerifyWitnessPrograms(t *testing.T) {
	const (
		witnessFlags = consensus.FlagsP2SH | consensus.FlagsWitness

		// SHA256 commitments to the one byte scripts OP_1 and OP_2.
		p2wshProgram1 = "4ae81572f06e1b88fd5ced7a1a000945432e83e155" +
			"1e6f721ee9c00b8cc33260"
		p2wshProgram2 = "8c2574892063f995fdf756bce07f46c1a5193e54cd" +
			"52837ed91e32008ccf41ac"
	)

	tests := []scriptPairTest{{
		name:      "p2wsh valid",
		sigScript: "",
		pkScript:  "0 0x20 0x" + p2wshProgram1,
		witness:   []string{"51"},
		flags:     witnessFlags,
		want:      consensus.EvalTrue,
	}, {
		name:      "p2wsh script mismatch",
		sigScript: "",
		pkScript:  "0 0x20 0x" + p2wshProgram2,
		witness:   []string{"51"},
		flags:     witnessFlags,
		want:      consensus.WitnessProgramMismatch,
	}, {
		name:      "p2wsh empty witness",
		sigScript: "",
		pkScript:  "0 0x20 0x" + p2wshProgram1,
		flags:     witnessFlags,
		want:      consensus.WitnessProgramEmpty,
	}, {
		name:      "p2wsh unclean stack",
		sigScript: "",
		pkScript:  "0 0x20 0x" + p2wshProgram1,
		witness:   []string{"51", "51"},
		flags:     witnessFlags,
		want:      consensus.EvalFalse,
	}, {
		name:      "p2wkh valid",
		sigScript: "",
		pkScript:  "0 0x14 0x" + p2wkhProgram,
		witness:   []string{p2wkhSig, fixturePubKey1},
		value:     p2wkhValue,
		flags:     witnessFlags,
		want:      consensus.EvalTrue,
	}, {
		name:      "p2wkh valid all flags",
		sigScript: "",
		pkScript:  "0 0x14 0x" + p2wkhProgram,
		witness:   []string{p2wkhSig, fixturePubKey1},
		value:     p2wkhValue,
		flags:     verifyAllFlags,
		want:      consensus.EvalTrue,
	}, {
		// The digest commits to the spent value, so the same witness
		// under a different value no longer verifies.
		name:      "p2wkh wrong value",
		sigScript: "",
		pkScript:  "0 0x14 0x" + p2wkhProgram,
		witness:   []string{p2wkhSig, fixturePubKey1},
		value:     p2wkhValue + 1,
		flags:     witnessFlags,
		want:      consensus.EvalFalse,
	}, {
		name:      "p2wkh wrong witness item count",
		sigScript: "",
		pkScript: "0 0x14 0x9445e8b825f1a17d5e091948545c9065409" +
			"6db68",
		witness: []string{"51"},
		flags:   witnessFlags,
		want:    consensus.WitnessProgramMismatch,
	}, {
		name:      "wrong program length",
		sigScript: "",
		pkScript:  "0 0x10 0x00112233445566778899aabbccddeeff",
		witness:   []string{"51"},
		flags:     witnessFlags,
		want:      consensus.WitnessProgramWrongLength,
	}, {
		name:      "malleated native program",
		sigScript: "1",
		pkScript:  "0 0x20 0x" + p2wshProgram1,
		witness:   []string{"51"},
		flags:     witnessFlags,
		want:      consensus.WitnessMalleated,
	}, {
		name:      "unknown witness version",
		sigScript: "",
		pkScript:  "1 0x20 0x" + p2wshProgram1,
		witness:   []string{"00"},
		flags:     witnessFlags,
		want:      consensus.EvalTrue,
	}, {
		name:      "witness without program",
		sigScript: "1",
		pkScript:  "1",
		witness:   []string{"51"},
		flags:     witnessFlags,
		want:      consensus.WitnessUnexpected,
	}, {
		name:      "oversized witness element",
		sigScript: "",
		pkScript:  "0 0x20 0x" + p2wshProgram1,
		witness:   []string{strings.Repeat("00", 521), "51"},
		flags:     witnessFlags,
		want:      consensus.PushSize,
	}}

	runScriptPairTests(t, tests)
}

// TestVerifyContextFree exercises script evaluation behaviors that do not
// depend on transaction signing, mapping each failure mode to its result.
func TestVerifyContextFree(t *testing.T) {
	tests := []scriptPairTest{{
		name:      "depth of empty stack",
		sigScript: "",
		pkScript:  "DEPTH 0 EQUAL",
		want:      consensus.EvalTrue,
	}, {
		name:      "equalverify chain",
		sigScript: "1 2",
		pkScript:  "2 EQUALVERIFY 1 EQUAL",
		want:      consensus.EvalTrue,
	}, {
		name:      "conditional true branch",
		sigScript: "1",
		pkScript:  "IF 1 ELSE 0 ENDIF",
		want:      consensus.EvalTrue,
	}, {
		name:      "size of quoted push",
		sigScript: "0x02 0x417a",
		pkScript:  "SIZE 2 EQUALVERIFY 'Az' EQUAL",
		want:      consensus.EvalTrue,
	}, {
		name:      "add with negative",
		sigScript: "2 -1",
		pkScript:  "ADD 1 EQUAL",
		want:      consensus.EvalTrue,
	}, {
		name:      "hash256 of quoted data",
		sigScript: "'abcdefghijklmnopqrstuvwxyz'",
		pkScript: "HASH256 0x20 0xca139bc10c2f660da42666f72e89a225" +
			"936fc60f193c161124a672050c434671 EQUAL",
		want: consensus.EvalTrue,
	}, {
		name:      "sixteen plus one",
		sigScript: "16",
		pkScript:  "1ADD 17 EQUAL",
		want:      consensus.EvalTrue,
	}, {
		name:      "false top stack element",
		sigScript: "",
		pkScript:  "0",
		want:      consensus.EvalFalse,
	}, {
		name:      "early return",
		sigScript: "1",
		pkScript:  "RETURN",
		want:      consensus.EvalFalse,
	}, {
		name:      "failed verify",
		sigScript: "0",
		pkScript:  "VERIFY",
		want:      consensus.Verify,
	}, {
		name:      "failed equalverify",
		sigScript: "1 2",
		pkScript:  "EQUALVERIFY 1",
		want:      consensus.EqualVerify,
	}, {
		name:      "failed numequalverify",
		sigScript: "1 2",
		pkScript:  "NUMEQUALVERIFY 1",
		want:      consensus.NumEqualVerify,
	}, {
		name:      "unbalanced conditional",
		sigScript: "1",
		pkScript:  "IF 1",
		want:      consensus.UnbalancedConditional,
	}, {
		name:      "else without if",
		sigScript: "1",
		pkScript:  "ELSE 1 ENDIF",
		want:      consensus.UnbalancedConditional,
	}, {
		name:      "stack underflow",
		sigScript: "",
		pkScript:  "DROP 1",
		want:      consensus.InvalidStackOperation,
	}, {
		name:      "disabled opcode",
		sigScript: "1 1",
		pkScript:  "CAT",
		want:      consensus.DisabledOpcode,
	}, {
		name:      "disabled opcode in unexecuted branch",
		sigScript: "0",
		pkScript:  "IF CAT ELSE 1 ENDIF",
		want:      consensus.DisabledOpcode,
	}, {
		name:      "reserved opcode",
		sigScript: "1",
		pkScript:  "RESERVED",
		want:      consensus.BadOpcode,
	}, {
		name:      "too many pubkeys",
		sigScript: "",
		pkScript:  "0x01 0x15 CHECKMULTISIG",
		want:      consensus.PubkeyCount,
	}, {
		name:      "more signatures than pubkeys",
		sigScript: "0 1",
		pkScript:  "0 CHECKMULTISIG",
		want:      consensus.SigCount,
	}, {
		name:      "oversized element",
		sigScript: "",
		pkScript: "0x4d0902 0x" + strings.Repeat("00", 521) +
			" DROP 1",
		want: consensus.PushSize,
	}, {
		name:      "oversized script",
		sigScript: "1",
		pkScript:  "0x4d1127 0x" + strings.Repeat("00", 10001),
		want:      consensus.ScriptSize,
	}, {
		name:      "too many operations",
		sigScript: "1",
		pkScript:  strings.Repeat("NOP ", 202) + "1",
		want:      consensus.OpCount,
	}, {
		name:      "stack overflow",
		sigScript: strings.Repeat("1 ", 999),
		pkScript:  "DUP DUP",
		want:      consensus.StackSize,
	}}

	for i := range tests {
		tests[i].flags = consensus.FlagsNone
	}
	runScriptPairTests(t, tests)

	// A truncated push cannot be produced by the assembler, so feed the
	// raw script bytes directly.
	truncated := consensus.PrevOutput{
		Script: []byte{txscript.OP_DATA_2, 0x51},
	}
	result := consensus.VerifyUnsignedScript(truncated,
		mustAssemble(t, "1"), nil, consensus.FlagsNone)
	require.Equal(t, consensus.BadOpcode, result)
}

// TestVerifyLockTime exercises OP_CHECKLOCKTIMEVERIFY and
// OP_CHECKSEQUENCEVERIFY against the synthesized spending transaction, which
// carries a zero lock time and a final sequence number.
func TestVerifyLockTime(t *testing.T) {
	tests := []scriptPairTest{{
		name:      "cltv without flag is a nop",
		sigScript: "",
		pkScript:  "1 CHECKLOCKTIMEVERIFY",
		flags:     consensus.FlagsNone,
		want:      consensus.EvalTrue,
	}, {
		name:      "cltv unsatisfied",
		sigScript: "",
		pkScript:  "1 CHECKLOCKTIMEVERIFY",
		flags:     consensus.FlagsCheckLockTimeVerify,
		want:      consensus.UnsatisfiedLocktime,
	}, {
		name:      "cltv lock time type mismatch",
		sigScript: "",
		pkScript:  "500000001 CHECKLOCKTIMEVERIFY",
		flags:     consensus.FlagsCheckLockTimeVerify,
		want:      consensus.UnsatisfiedLocktime,
	}, {
		name:      "cltv negative lock time",
		sigScript: "",
		pkScript:  "-1 CHECKLOCKTIMEVERIFY",
		flags:     consensus.FlagsCheckLockTimeVerify,
		want:      consensus.NegativeLocktime,
	}, {
		name:      "csv without flag is a nop",
		sigScript: "",
		pkScript:  "1 CHECKSEQUENCEVERIFY",
		flags:     consensus.FlagsNone,
		want:      consensus.EvalTrue,
	}, {
		name:      "csv against final sequence",
		sigScript: "",
		pkScript:  "1 CHECKSEQUENCEVERIFY",
		flags:     consensus.FlagsCheckSequenceVerify,
		want:      consensus.UnsatisfiedLocktime,
	}, {
		name:      "csv negative sequence",
		sigScript: "",
		pkScript:  "-1 CHECKSEQUENCEVERIFY",
		flags:     consensus.FlagsCheckSequenceVerify,
		want:      consensus.NegativeLocktime,
	}, {
		name:      "csv disabled stack sequence",
		sigScript: "",
		pkScript:  "2147483648 CHECKSEQUENCEVERIFY 1",
		flags:     consensus.FlagsCheckSequenceVerify,
		want:      consensus.EvalTrue,
	}}

	runScriptPairTests(t, tests)
}
