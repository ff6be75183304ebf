package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestRequestDataRoundTrip(t *testing.T) {
	if GetRequestData(context.Background()) != nil {
		t.Fatalf("empty context must carry no request data")
	}
	id := uuid.New()
	ctx := WithRequestData(context.Background(), &RequestData{ActorID: id})
	rd := GetRequestData(ctx)
	if rd == nil || rd.ActorID != id {
		t.Fatalf("request data: want=%s got=%+v", id, rd)
	}
}

func TestTraceDataRoundTrip(t *testing.T) {
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t-1", RequestID: "r-1"})
	td := GetTraceData(ctx)
	if td == nil || td.TraceID != "t-1" || td.RequestID != "r-1" {
		t.Fatalf("trace data: %+v", td)
	}
}
