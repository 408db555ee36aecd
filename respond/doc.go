// Copyright 2025 Pxeba
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package respond implements the retrieval-augmented response pipeline.
//
// The Responder type turns an inbound message into a similarity query over
// the order document index, assembles the matched texts into a grounded
// prompt, and produces a generated answer:
//
//   - Similarity search using the raw message text (top-k matches)
//   - Context assembly in ranked order
//   - Low-temperature grounded generation
//
// The pipeline is fail-soft: it always returns an answer, degrading
// internal failures into fallback texts while logging the failure kind.
package respond
