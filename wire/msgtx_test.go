// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/hex"
	"io"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

// mainNetTxHex is a mainnet pay-to-pubkey-hash transaction.
const mainNetTxHex = "01000000017d01943c40b7f3d8a00a2d62fa1d560bf739a236" +
	"8c180615b0a7937c0e883e7c000000006b4830450221008f66d188c664a80888" +
	"93ea4ddd9689024ea5593877753ecc1e9051ed58c15168022037109f0d06e606" +
	"8b7447966f751de8474641ad2b15ec37f4a9d159b02af68174012103e208f540" +
	"3383c77d5832a268c9f71480f6e7bfbdfa44904becacfad66163ea31ffffffff" +
	"01c8af0000000000001976a91458b7a60f11a904feef35a639b6048de8dd4d9f" +
	"1c88ac00000000"

const mainNetTxID = "37c9c4ee0e84c7c7924f74d92cf0779ec6e8fc4c57ebab259356" +
	"2d52c61c5eb8"

// mainNetWitnessTxHex is the first segregated witness transaction mined on
// mainnet.
const mainNetWitnessTxHex = "010000000001015836964079411659db5a4cfddd70e3" +
	"f0de0261268f86c998a69a143f47c6c83800000000171600149445e8b825f1a1" +
	"7d5e091948545c90654096db68ffffffff02d8be04000000000017a91422c17a" +
	"06117b40516f9826804800003562e834c98700000000000000004d6a4b424950" +
	"313431205c6f2f2048656c6c6f20536567576974203a2d29206b656570206974" +
	"207374726f6e6721204c4c415020426974636f696e20747769747465722e636f" +
	"6d2f6b6873396e6502483045022100aaa281e0611ba0b5a2cd055f77e5594709" +
	"d611ad1233e7096394f64ffe16f5b202207e2dcc9ef3a54c24471799ab99f661" +
	"5847b21be2a6b4e0285918fd025597c5740121021ec0613f21c4e81c4b300426" +
	"e5e5d30fa651f41e9993223adbe74dbe603c74fb00000000"

const (
	mainNetWitnessTxID = "8f907925d2ebe48765103e6845c06f1f2bb77c6adc1cc0" +
		"02865865eb5cfd5c1c"
	mainNetWitnessWTxID = "6117d821f97e3bebab845a8d2378817db4345d8a24012" +
		"e3dc8f15100a37d5ded"
)

func hexToBytes(t *testing.T, encoded string) []byte {
	t.Helper()

	decoded, err := hex.DecodeString(encoded)
	if err != nil {
		t.Fatalf("invalid hex %q", encoded)
	}
	return decoded
}

// TestTxHash tests that the hash of a deserialized transaction matches its
// known transaction ID.
func TestTxHash(t *testing.T) {
	txBytes := hexToBytes(t, mainNetTxHex)

	var tx MsgTx
	if err := tx.Deserialize(bytes.NewReader(txBytes)); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if tx.TxHash().String() != mainNetTxID {
		t.Errorf("TxHash: got %v, want %v", tx.TxHash(), mainNetTxID)
	}
	if tx.HasWitness() {
		t.Errorf("HasWitness: got true for non-witness tx")
	}
	if tx.SerializeSize() != len(txBytes) {
		t.Errorf("SerializeSize: got %v, want %v", tx.SerializeSize(),
			len(txBytes))
	}
}

// TestTxWitnessSerialize tests serialization round trips and the derived
// hashes of a transaction with witness data.
func TestTxWitnessSerialize(t *testing.T) {
	txBytes := hexToBytes(t, mainNetWitnessTxHex)

	var tx MsgTx
	if err := tx.Deserialize(bytes.NewReader(txBytes)); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if !tx.HasWitness() {
		t.Fatalf("HasWitness: got false for witness tx")
	}
	if len(tx.TxIn) != 1 || len(tx.TxIn[0].Witness) != 2 {
		t.Fatalf("unexpected decoded structure: %v", spew.Sdump(tx))
	}

	// The transaction ID covers the stripped serialization while the
	// witness hash covers all of it.
	if tx.TxHash().String() != mainNetWitnessTxID {
		t.Errorf("TxHash: got %v, want %v", tx.TxHash(),
			mainNetWitnessTxID)
	}
	if tx.WitnessHash().String() != mainNetWitnessWTxID {
		t.Errorf("WitnessHash: got %v, want %v", tx.WitnessHash(),
			mainNetWitnessWTxID)
	}

	if tx.SerializeSize() != len(txBytes) {
		t.Errorf("SerializeSize: got %v, want %v", tx.SerializeSize(),
			len(txBytes))
	}

	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), txBytes) {
		t.Errorf("Serialize: reserialized bytes differ: %v",
			spew.Sdump(buf.Bytes()))
	}

	// The stripped serialization drops the marker, flag, and witness
	// data, and must round trip as a transaction without a witness.
	var strippedBuf bytes.Buffer
	if err := tx.SerializeNoWitness(&strippedBuf); err != nil {
		t.Fatalf("SerializeNoWitness: %v", err)
	}
	if strippedBuf.Len() != tx.SerializeSizeStripped() {
		t.Errorf("SerializeSizeStripped: got %v, want %v",
			tx.SerializeSizeStripped(), strippedBuf.Len())
	}

	var strippedTx MsgTx
	err := strippedTx.Deserialize(bytes.NewReader(strippedBuf.Bytes()))
	if err != nil {
		t.Fatalf("Deserialize stripped: %v", err)
	}
	if strippedTx.HasWitness() {
		t.Errorf("HasWitness: got true for stripped tx")
	}
	if strippedTx.TxHash().String() != mainNetWitnessTxID {
		t.Errorf("TxHash stripped: got %v, want %v",
			strippedTx.TxHash(), mainNetWitnessTxID)
	}
}

// TestTxDeserializeErrors tests error paths when deserializing malformed
// transactions.
func TestTxDeserializeErrors(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{{
		name: "empty",
		buf:  nil,
	}, {
		name: "short version",
		buf:  []byte{0x01, 0x00},
	}, {
		// A zero input count is the witness marker, so the following
		// flag byte must be 0x01.
		name: "witness marker with bad flag",
		buf: []byte{
			0x01, 0x00, 0x00, 0x00, // Version
			0x00, // Marker
			0x00, // Flag
		},
	}, {
		// Claims one input but provides no input data.
		name: "truncated input",
		buf: []byte{
			0x01, 0x00, 0x00, 0x00, // Version
			0x01, // Input count
		},
	}}

	for _, test := range tests {
		var tx MsgTx
		err := tx.Deserialize(bytes.NewReader(test.buf))
		if err == nil {
			t.Errorf("%s: deserialize succeeded", test.name)
		}
	}
}

// TestTxCopy tests that copied transactions do not share backing data with
// the original.
func TestTxCopy(t *testing.T) {
	txBytes := hexToBytes(t, mainNetWitnessTxHex)

	var tx MsgTx
	if err := tx.Deserialize(bytes.NewReader(txBytes)); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	txCopy := tx.Copy()
	txCopy.TxIn[0].SignatureScript[0] ^= 0xff
	txCopy.TxIn[0].Witness[0][0] ^= 0xff
	txCopy.TxOut[0].PkScript[0] ^= 0xff

	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), txBytes) {
		t.Errorf("Copy mutated the original transaction: %v",
			spew.Sdump(tx))
	}
}

// TestVarIntNonCanonical tests that non-canonically encoded variable length
// integers are rejected.
func TestVarIntNonCanonical(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{{
		name: "0xfd encoding of 0",
		buf:  []byte{0xfd, 0x00, 0x00},
	}, {
		name: "0xfe encoding of 255",
		buf:  []byte{0xfe, 0xff, 0x00, 0x00, 0x00},
	}, {
		name: "0xff encoding of 0x01ffff",
		buf: []byte{0xff, 0xff, 0xff, 0x01, 0x00, 0x00, 0x00, 0x00,
			0x00},
	}}

	for _, test := range tests {
		_, err := ReadVarInt(bytes.NewReader(test.buf))
		if _, ok := err.(*MessageError); !ok {
			t.Errorf("%s: got %T (%v), want *MessageError",
				test.name, err, err)
		}
	}
}

// TestVarBytesLimits tests the maximum allowed length checks when reading
// variable length byte slices.
func TestVarBytesLimits(t *testing.T) {
	// A declared length larger than the maximum allowed must be rejected
	// before any allocation happens.
	buf := []byte{0xfd, 0xe9, 0x03} // 1001
	_, err := ReadVarBytes(bytes.NewReader(buf), 1000, "data")
	if _, ok := err.(*MessageError); !ok {
		t.Fatalf("got %T (%v), want *MessageError", err, err)
	}

	// A declared length with insufficient payload must error.
	buf = []byte{0x05, 0x01, 0x02}
	_, err = ReadVarBytes(bytes.NewReader(buf), 1000, "data")
	if err != io.ErrUnexpectedEOF && err != io.EOF {
		if _, ok := err.(*MessageError); !ok {
			t.Fatalf("got %T (%v), want read failure", err, err)
		}
	}
}
