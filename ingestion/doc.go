// Package ingestion provides pipeline orchestration for indexing orders.
//
// The Pipeline type manages the ingestion workflow for one run, including:
//   - Fetching the order window from the remote source
//   - Rendering each order into its canonical document text
//   - Generating embeddings and upserting documents concurrently
//
// Order processing is performed on a worker pool; pagination against the
// source is strictly sequential inside the OrderSource. A run is fail-fast:
// the first error aborts it, and the response pipeline is unaffected.
package ingestion
