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


// Package gptmeli wires the order ingestion pipeline and the
// retrieval-augmented responder around a shared persistent document index.
package gptmeli

import (
	"log/slog"

	"github.com/Pxeba/GptMeliWhatsapp/ai"
	"github.com/Pxeba/GptMeliWhatsapp/ai/openai"
	"github.com/Pxeba/GptMeliWhatsapp/ingestion"
	"github.com/Pxeba/GptMeliWhatsapp/meli"
	"github.com/Pxeba/GptMeliWhatsapp/respond"
	"github.com/Pxeba/GptMeliWhatsapp/storage"
	"github.com/Pxeba/GptMeliWhatsapp/storage/badger"
)

// Assistant holds the document index and the AI provider, and constructs
// the two pipelines that share them. Both pipelines receive the index as
// an explicit handle; there is no process-wide singleton.
type Assistant struct {
	backend   *badger.Backend
	documents storage.DocumentRepository
	provider  ai.AIProvider
	source    ingestion.OrderSource
	logger    *slog.Logger
}

// AssistantOption configures an Assistant.
type AssistantOption func(*assistantOptions)

type assistantOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	source   ingestion.OrderSource
	inMemory bool
}

// WithAIConfig sets the AI service configuration used to build the
// OpenAI-backed provider.
func WithAIConfig(config *ai.Config) AssistantOption {
	return func(o *assistantOptions) {
		o.aiConfig = config
	}
}

// WithAIProvider injects a pre-built AI provider, bypassing the OpenAI
// default. Used by tests.
func WithAIProvider(provider ai.AIProvider) AssistantOption {
	return func(o *assistantOptions) {
		o.provider = provider
	}
}

// WithOrderSource injects a custom order source. Defaults to the Mercado
// Livre client.
func WithOrderSource(source ingestion.OrderSource) AssistantOption {
	return func(o *assistantOptions) {
		o.source = source
	}
}

// WithInMemoryIndex keeps the document index in memory instead of on disk.
// Used by tests.
func WithInMemoryIndex() AssistantOption {
	return func(o *assistantOptions) {
		o.inMemory = true
	}
}

// NewAssistant opens the document index at indexPath and prepares the
// shared dependencies of both pipelines.
func NewAssistant(indexPath string, opts ...AssistantOption) (*Assistant, error) {
	options := &assistantOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(indexPath, options.inMemory)
	if err != nil {
		return nil, err
	}

	documents, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			documents.Close()
			backend.Close()
			return nil, err
		}
	}

	source := options.source
	if source == nil {
		source = meli.NewClient()
	}

	return &Assistant{
		backend:   backend,
		documents: documents,
		provider:  provider,
		source:    source,
		logger:    slog.Default(),
	}, nil
}

// Close releases the AI provider and the index.
func (a *Assistant) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}

	if err := a.documents.Close(); err != nil {
		a.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Documents returns the shared document repository.
func (a *Assistant) Documents() storage.DocumentRepository {
	return a.documents
}

// Provider returns the shared AI provider.
func (a *Assistant) Provider() ai.AIProvider {
	return a.provider
}

// NewIngestionPipeline creates an ingestion pipeline over the shared index.
func (a *Assistant) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(a.source, a.documents, a.provider, opts...)
}

// NewResponder creates a responder over the shared index.
func (a *Assistant) NewResponder(opts ...respond.Option) (*respond.Responder, error) {
	return respond.NewResponder(a.documents, a.provider, opts...)
}
