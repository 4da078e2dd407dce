// Package vectorstore implements search.VectorSearcher on Qdrant.
package vectorstore

import (
	"context"
	"fmt"
	"strconv"

	"hcp-chatbot-be/pkg/rag/search"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// QdrantConfig holds connection settings for a Qdrant instance.
type QdrantConfig struct {
	Host       string
	Port       int
	Collection string
}

// QdrantSearcher queries one collection of document chunks over gRPC.
type QdrantSearcher struct {
	conn       *grpc.ClientConn
	points     pb.PointsClient
	collection string
}

var _ search.VectorSearcher = &QdrantSearcher{}

func NewQdrantSearcher(cfg QdrantConfig) (*QdrantSearcher, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant connect %s: %w", addr, err)
	}
	return &QdrantSearcher{
		conn:       conn,
		points:     pb.NewPointsClient(conn),
		collection: cfg.Collection,
	}, nil
}

func (q *QdrantSearcher) Search(ctx context.Context, vector []float32, topK int, filter *search.Filter) ([]search.Match, error) {
	resp, err := q.points.Search(ctx, &pb.SearchPoints{
		CollectionName: q.collection,
		Vector:         vector,
		Limit:          uint64(topK),
		Filter:         toFilter(filter),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", q.collection, err)
	}

	matches := make([]search.Match, 0, len(resp.Result))
	for _, r := range resp.Result {
		matches = append(matches, search.Match{
			ID:       pointID(r.Id),
			Score:    float64(r.Score),
			Metadata: payloadStrings(r.Payload),
		})
	}
	return matches, nil
}

// Close tears down the underlying gRPC connection.
func (q *QdrantSearcher) Close() error {
	return q.conn.Close()
}

func toFilter(f *search.Filter) *pb.Filter {
	if f.IsEmpty() {
		return nil
	}
	var must []*pb.Condition
	if len(f.DocIDs) > 0 {
		must = append(must, fieldCondition(search.KeyDocID, &pb.Match{
			MatchValue: &pb.Match_Keywords{Keywords: &pb.RepeatedStrings{Strings: f.DocIDs}},
		}))
	}
	if f.Uploader != "" {
		must = append(must, fieldCondition(search.KeyUploaderName, &pb.Match{
			MatchValue: &pb.Match_Keyword{Keyword: f.Uploader},
		}))
	}
	return &pb.Filter{Must: must}
}

func fieldCondition(key string, m *pb.Match) *pb.Condition {
	return &pb.Condition{
		ConditionOneOf: &pb.Condition_Field{
			Field: &pb.FieldCondition{Key: key, Match: m},
		},
	}
}

func pointID(id *pb.PointId) string {
	if id == nil {
		return ""
	}
	if u := id.GetUuid(); u != "" {
		return u
	}
	return strconv.FormatUint(id.GetNum(), 10)
}

// payloadStrings flattens scalar payload values to strings.
func payloadStrings(payload map[string]*pb.Value) map[string]string {
	out := make(map[string]string, len(payload))
	for k, v := range payload {
		switch kind := v.GetKind().(type) {
		case *pb.Value_StringValue:
			out[k] = kind.StringValue
		case *pb.Value_IntegerValue:
			out[k] = strconv.FormatInt(kind.IntegerValue, 10)
		case *pb.Value_DoubleValue:
			out[k] = strconv.FormatFloat(kind.DoubleValue, 'f', -1, 64)
		case *pb.Value_BoolValue:
			out[k] = strconv.FormatBool(kind.BoolValue)
		}
	}
	return out
}
