// Package billing provides the domain model for issuing bills.
//
// A Bill is built from untrusted input through NewBill, which validates every
// field and every line, collects all violations into a single
// shared.ValidationError, and normalizes money amounts to two decimals
// (half-up). Line amounts, the subtotal and the total are derived here and
// nowhere else.
//
// Key Aggregates:
//   - Bill: header data plus its ordered lines
//
// Entities:
//   - BillLine: a single priced concept, numbered 1..n within its bill
//
// Events:
//   - BillCreatedEvent: integration event emitted after a bill is committed
package billing
