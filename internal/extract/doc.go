// Package extract turns noisy OCR fragments from an inventory tag into a
// tag.Record.
//
// The engine is a fixed rule pipeline driven entirely by a compiled
// tagspec layout:
//
//  1. Tokenize and normalize: fragments are split into words, upper-cased
//     and stripped of whitespace and the punctuation OCR scatters around
//     labels (":", ".", "|", "[", "]"). The original text is kept.
//  2. Build blobs: a space-joined view for label regexes and a packed view
//     for values OCR split into several fragments.
//  3. Label-anchored matching: for each field, labels are tried in declared
//     order; the first label that yields a value of the right shape wins.
//  4. Shape fallback: fields without a label match take the first token (or
//     run of split fragments) that has exactly the field's shape and has not
//     already been claimed by another field.
//  5. Known-value correction: fixed-vocabulary fields accumulate sightings of
//     their sub-codes across all tokens, tolerating common misreads, and are
//     forced to the canonical value once every sub-code has been seen.
//  6. Assembly: correction > label > shape > empty.
//
// # Contract
//
// Extraction never fails. Missing evidence leaves a field empty so a person
// can fill it in; ambiguous evidence is resolved by declaration order, so the
// same input always yields the same record. An Engine keeps no state between
// calls and may be shared by concurrent scans.
package extract
