// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package txscript implements the bitcoin transaction script language.

A complete description of the script language used by bitcoin can be found at
https://en.bitcoin.it/wiki/Script.  The following only serves as a quick
overview to provide information on how to use the package.

This package provides data structures along with a script engine for executing
scripts against a transaction input.  Scripts may be assembled from and
disassembled to a human-readable mnemonic form, and a builder is provided for
constructing scripts with canonical data pushes.

# Errors

Errors returned by this package are of type txscript.Error.  This allows the
caller to programmatically determine the specific error by examining the
ErrorCode field of the type asserted txscript.Error while still providing rich
error messages with contextual information.  A convenience function named
IsErrorCode is also provided to allow callers to easily check for a specific
error code.
*/
package txscript
