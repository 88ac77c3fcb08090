// Package provider defines the external collaborator interfaces Forge
// consumes but never implements (spec §1, §6): a chat model, a
// document retriever, and an embedding model. No concrete provider
// adapter lives here or anywhere in this module — model inference and
// any specific vendor integration are explicit Non-goals (spec §1).
// Grounded on the teacher's model.Model interface (model/model.go):
// same context-first, request/response, dual-layer error handling
// shape, generalized into the three traits spec §6 names ("A Retriever
// trait and an EmbeddingModel trait are shaped identically" to
// ChatModel).
package provider

import (
	"context"

	"github.com/blueberrycongee/forge/event"
)

// ChatRequest is the input to a ChatModel call.
type ChatRequest struct {
	Model       string
	Messages    []ChatMessage
	MaxTokens   *int
	Temperature *float64
}

// ChatRole identifies the speaker of a ChatMessage.
type ChatRole string

const (
	ChatRoleSystem    ChatRole = "system"
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
	ChatRoleTool      ChatRole = "tool"
)

// ChatMessage is one turn in a ChatRequest's history.
type ChatMessage struct {
	Role    ChatRole
	Content string
}

// ChatResponse is a ChatModel's completed output.
type ChatResponse struct {
	Text  string
	Usage event.TokenUsage
}

// ChatModel is the interface Forge consumes for model inference (spec
// §6). Generate is a single-shot call; Stream additionally emits
// TextDelta/TextFinal/StepFinish events through sink as they arrive,
// still returning the final ChatResponse once the stream closes.
type ChatModel interface {
	Generate(ctx context.Context, req ChatRequest) (ChatResponse, error)
	Stream(ctx context.Context, req ChatRequest, sink event.Sink) (ChatResponse, error)
}

// RetrievalQuery is the input to a Retriever call.
type RetrievalQuery struct {
	Text     string
	Limit    int
	MinScore float64
}

// RetrievedDocument is one match in a RetrievalResult.
type RetrievedDocument struct {
	ID      string
	Content string
	Score   float64
}

// RetrievalResult is a Retriever's completed output.
type RetrievalResult struct {
	Documents []RetrievedDocument
}

// Retriever is the interface Forge consumes for knowledge retrieval
// (spec §6), shaped identically to ChatModel: a single-shot call plus
// a streaming variant that emits partial matches as Attachment events
// before returning the full RetrievalResult.
type Retriever interface {
	Retrieve(ctx context.Context, query RetrievalQuery) (RetrievalResult, error)
	StreamRetrieve(ctx context.Context, query RetrievalQuery, sink event.Sink) (RetrievalResult, error)
}

// EmbeddingRequest is the input to an EmbeddingModel call.
type EmbeddingRequest struct {
	Model string
	Texts []string
}

// EmbeddingResponse is an EmbeddingModel's completed output.
type EmbeddingResponse struct {
	Vectors [][]float64
	Usage   event.TokenUsage
}

// EmbeddingModel is the interface Forge consumes for embedding
// generation (spec §6), shaped identically to ChatModel.
type EmbeddingModel interface {
	Generate(ctx context.Context, req EmbeddingRequest) (EmbeddingResponse, error)
	Stream(ctx context.Context, req EmbeddingRequest, sink event.Sink) (EmbeddingResponse, error)
}
