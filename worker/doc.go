// Package worker hosts the swaps contract and runs the jobs around it.
//
// Every invocation is serialized by Host and committed atomically together
// with the messages it emits, which are kept in a persisted outbox.
// It contains the following jobs (concurrently):
//	dispatch
//		send outbox messages to the swap service, the transport layer and
//		the bank, and feed the results back to the contract as replies.
//	lifecycle
//		poll the transport layer for the outcome of in-flight transfers and
//		deliver acks and timeouts to the contract.
// Delivery outcomes may also be pushed by relayers through the api, the
// contract handles them idempotently.
package worker
