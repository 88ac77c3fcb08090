package provider_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blueberrycongee/forge/event"
	"github.com/blueberrycongee/forge/provider"
)

type stubChatModel struct {
	streamed []event.Event
}

func (s *stubChatModel) Generate(_ context.Context, req provider.ChatRequest) (provider.ChatResponse, error) {
	if len(req.Messages) == 0 {
		return provider.ChatResponse{}, errors.New("no messages")
	}
	return provider.ChatResponse{Text: "echo: " + req.Messages[len(req.Messages)-1].Content}, nil
}

func (s *stubChatModel) Stream(_ context.Context, req provider.ChatRequest, sink event.Sink) (provider.ChatResponse, error) {
	text := req.Messages[len(req.Messages)-1].Content
	sink.Emit(event.TextDelta{Delta: text})
	sink.Emit(event.TextFinal{Text: text})
	return provider.ChatResponse{Text: text}, nil
}

func TestChatModelGenerateRoundTrip(t *testing.T) {
	var model provider.ChatModel = &stubChatModel{}
	resp, err := model.Generate(context.Background(), provider.ChatRequest{
		Messages: []provider.ChatMessage{{Role: provider.ChatRoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", resp.Text)
}

func TestChatModelStreamEmitsThroughSink(t *testing.T) {
	var model provider.ChatModel = &stubChatModel{}
	sink := &event.SliceSink{}
	resp, err := model.Stream(context.Background(), provider.ChatRequest{
		Messages: []provider.ChatMessage{{Role: provider.ChatRoleUser, Content: "hi"}},
	}, sink)
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Text)
	require.Len(t, sink.Events, 2)
	assert.IsType(t, event.TextDelta{}, sink.Events[0])
	assert.IsType(t, event.TextFinal{}, sink.Events[1])
}

type stubRetriever struct{}

func (stubRetriever) Retrieve(_ context.Context, q provider.RetrievalQuery) (provider.RetrievalResult, error) {
	return provider.RetrievalResult{Documents: []provider.RetrievedDocument{{ID: "d1", Content: q.Text, Score: 1}}}, nil
}

func (stubRetriever) StreamRetrieve(_ context.Context, q provider.RetrievalQuery, sink event.Sink) (provider.RetrievalResult, error) {
	doc := provider.RetrievedDocument{ID: "d1", Content: q.Text, Score: 1}
	sink.Emit(event.Attachment{Payload: event.AttachmentPayload{Ref: doc.ID}})
	return provider.RetrievalResult{Documents: []provider.RetrievedDocument{doc}}, nil
}

func TestRetrieverSatisfiesInterface(t *testing.T) {
	var r provider.Retriever = stubRetriever{}
	res, err := r.Retrieve(context.Background(), provider.RetrievalQuery{Text: "q"})
	require.NoError(t, err)
	require.Len(t, res.Documents, 1)
	assert.Equal(t, "q", res.Documents[0].Content)
}

func TestRetrieverStreamEmitsAttachment(t *testing.T) {
	var r provider.Retriever = stubRetriever{}
	sink := &event.SliceSink{}
	_, err := r.StreamRetrieve(context.Background(), provider.RetrievalQuery{Text: "q"}, sink)
	require.NoError(t, err)
	require.Len(t, sink.Events, 1)
	assert.IsType(t, event.Attachment{}, sink.Events[0])
}

type stubEmbeddingModel struct{}

func (stubEmbeddingModel) Generate(_ context.Context, req provider.EmbeddingRequest) (provider.EmbeddingResponse, error) {
	vectors := make([][]float64, len(req.Texts))
	for i := range req.Texts {
		vectors[i] = []float64{float64(len(req.Texts[i]))}
	}
	return provider.EmbeddingResponse{Vectors: vectors}, nil
}

func (stubEmbeddingModel) Stream(ctx context.Context, req provider.EmbeddingRequest, sink event.Sink) (provider.EmbeddingResponse, error) {
	resp, err := stubEmbeddingModel{}.Generate(ctx, req)
	for range resp.Vectors {
		sink.Emit(event.StepFinish{})
	}
	return resp, err
}

func TestEmbeddingModelSatisfiesInterface(t *testing.T) {
	var m provider.EmbeddingModel = stubEmbeddingModel{}
	resp, err := m.Generate(context.Background(), provider.EmbeddingRequest{Texts: []string{"abc"}})
	require.NoError(t, err)
	require.Len(t, resp.Vectors, 1)
	assert.Equal(t, []float64{3}, resp.Vectors[0])
}
