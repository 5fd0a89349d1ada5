// Package record defines the unit stored in a command log and the assembler
// that carves raw writes into records.
package record

// DefaultTerminator is the byte that completes a record unless configured otherwise.
const DefaultTerminator = '\n'
