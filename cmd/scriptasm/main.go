// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	flags "github.com/jessevdk/go-flags"

	"github.com/Quantum-Platinum-Cloud/libbitcoin-consensus/consensus"
	"github.com/Quantum-Platinum-Cloud/libbitcoin-consensus/txscript"
)

var opts struct {
	Disassemble bool     `short:"d" long:"disassemble" description:"Disassemble hex scripts into mnemonic form"`
	Verify      bool     `short:"V" long:"verify" description:"Verify a script pair: <pkscript> [sigscript], both in mnemonic form"`
	Value       uint64   `long:"value" description:"Previous output value in satoshi used during verification"`
	Flags       []string `short:"f" long:"flag" description:"Verification flag (p2sh, dersig, nulldummy, cltv, csv, witness); may be repeated"`
}

// verifyFlagNames maps the flag mnemonics accepted on the command line to
// their verification flags.
var verifyFlagNames = map[string]consensus.VerifyFlags{
	"p2sh":      consensus.FlagsP2SH,
	"dersig":    consensus.FlagsDERSig,
	"nulldummy": consensus.FlagsNullDummy,
	"cltv":      consensus.FlagsCheckLockTimeVerify,
	"csv":       consensus.FlagsCheckSequenceVerify,
	"witness":   consensus.FlagsWitness,
}

func parseVerifyFlags(names []string) (consensus.VerifyFlags, error) {
	verifyFlags := consensus.FlagsNone
	for _, name := range names {
		flag, ok := verifyFlagNames[strings.ToLower(name)]
		if !ok {
			return 0, fmt.Errorf("unknown verification flag %q", name)
		}
		verifyFlags |= flag
	}
	return verifyFlags, nil
}

func assemble(args []string) error {
	script, err := txscript.Assemble(strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Printf("%x\n", script)
	return nil
}

func disassemble(args []string) error {
	for _, arg := range args {
		script, err := hex.DecodeString(arg)
		if err != nil {
			return fmt.Errorf("invalid hex script %q: %v", arg, err)
		}
		asm, err := txscript.Disassemble(script)
		if err != nil {
			return err
		}
		fmt.Println(asm)
	}
	return nil
}

func verify(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("verify requires <pkscript> [sigscript]")
	}

	pkScript, err := txscript.Assemble(args[0])
	if err != nil {
		return fmt.Errorf("invalid pkscript: %v", err)
	}
	var sigScript []byte
	if len(args) == 2 {
		sigScript, err = txscript.Assemble(args[1])
		if err != nil {
			return fmt.Errorf("invalid sigscript: %v", err)
		}
	}

	verifyFlags, err := parseVerifyFlags(opts.Flags)
	if err != nil {
		return err
	}

	prevOut := consensus.PrevOutput{Script: pkScript, Value: opts.Value}
	result := consensus.VerifyUnsignedScript(prevOut, sigScript, nil,
		verifyFlags)
	fmt.Println(result)
	if result != consensus.EvalTrue {
		os.Exit(1)
	}
	return nil
}

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] SCRIPT..."
	args, err := parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "no script provided")
		os.Exit(1)
	}

	switch {
	case opts.Disassemble:
		err = disassemble(args)
	case opts.Verify:
		err = verify(args)
	default:
		err = assemble(args)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
