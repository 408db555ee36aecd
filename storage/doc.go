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


// Package storage provides the vector index abstraction layer.
//
// This package defines the DocumentRepository interface that decouples the
// index implementation from the ingestion and response pipelines. It allows
// different backends (BadgerDB on disk, BadgerDB in-memory for tests) to be
// used interchangeably.
//
// Both pipelines receive an explicitly constructed repository handle; there
// is no process-wide index singleton. The ingestion side only appends
// (upserts) and the response side only reads, so the repository is the sole
// consistency boundary between them.
package storage
