// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package consensus provides a stable verification facade over the script
engine.

The package exposes script verification as a pure function from a serialized
transaction, the output it spends, an input index, and a set of verification
flags to a single result drawn from a closed set.  All failures, from
malformed transactions through script evaluation errors, are reported through
the result rather than through errors or panics, which makes the interface
suitable as a drop-in consensus boundary for callers that must never crash on
untrusted input.
*/
package consensus
