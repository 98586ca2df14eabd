// Copyright 2023 Cypress
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package models

import "errors"

// Every failure surfaced by this package wraps one of these sentinels, so
// callers can classify with errors.Is while the message still names the
// offending field or value.
var (
	// ErrMissingField reports the first unset required field found before an
	// encode or sign operation.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidFieldFormat reports a malformed address, hex string or number
	// at the point of assignment.
	ErrInvalidFieldFormat = errors.New("invalid field format")

	// ErrUnsupportedTxType reports a tag byte that does not match any known
	// variant, or does not match the variant whose decode was invoked.
	ErrUnsupportedTxType = errors.New("transaction type not supported")

	// ErrInvalidSignatureFormat reports a signature input of the wrong shape.
	ErrInvalidSignatureFormat = errors.New("invalid signature format")

	// ErrInvalidSig reports a (V, R, S) triple that is cryptographically
	// invalid for the computed signing hash.
	ErrInvalidSig = errors.New("invalid transaction v, r, s values")

	// ErrTxMismatch reports differing non-signature fields between raw
	// encodings that were expected to be the same logical transaction.
	ErrTxMismatch = errors.New("transaction fields mismatch")

	// ErrConflictingField reports mutually exclusive construction inputs,
	// such as supplying both "input" and "data".
	ErrConflictingField = errors.New("conflicting fields")

	// ErrEmptySignatures reports an attempt to produce the final encoding of
	// a transaction that has not been signed by the sender.
	ErrEmptySignatures = errors.New("transaction has no sender signatures")

	errEmptyTypedTx = errors.New("empty typed transaction bytes")
)
