package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/damage-coeff/internal/catalog"
	"github.com/xtding233/damage-coeff/internal/damage"
	"github.com/xtding233/damage-coeff/internal/pattern"
)

// Messages on the wire are google.protobuf.Struct carrying the same JSON
// documents the HTTP API uses, so no generated stubs are needed.

const calculatorService = "damagecoeff.Calculator"

// CalculatorServer is the server API for the Calculator service.
type CalculatorServer interface {
	Evaluate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EstimateDefense(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RankPatterns(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterGRPC attaches the Calculator service to g.
func (s *Server) RegisterGRPC(g grpc.ServiceRegistrar) {
	g.RegisterService(&calculatorServiceDesc, &calculatorServer{s: s})
}

func unaryHandler(method string, call func(CalculatorServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CalculatorServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + calculatorService + "/" + method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CalculatorServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var calculatorServiceDesc = grpc.ServiceDesc{
	ServiceName: calculatorService,
	HandlerType: (*CalculatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Evaluate", Handler: unaryHandler("Evaluate", CalculatorServer.Evaluate)},
		{MethodName: "EstimateDefense", Handler: unaryHandler("EstimateDefense", CalculatorServer.EstimateDefense)},
		{MethodName: "RankPatterns", Handler: unaryHandler("RankPatterns", CalculatorServer.RankPatterns)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "damagecoeff.proto",
}

type calculatorServer struct {
	s *Server
}

// Evaluate takes a damage config document and returns the full evaluation.
func (c *calculatorServer) Evaluate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	data, err := protojson.Marshal(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	cfg, err := c.s.decodeConfig(data)
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(c.s.evaluate(cfg))
}

type estimateRequest struct {
	Tier   int     `json:"tier"`
	R0     float64 `json:"r0"`
	R1     float64 `json:"r1"`
	Debuff float64 `json:"debuff"`
}

// EstimateDefense backs out an enemy's additional defense coefficient.
func (c *calculatorServer) EstimateDefense(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req estimateRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, grpcError(err)
	}
	if err := validateTier(req.Tier); err != nil {
		return nil, grpcError(err)
	}
	for _, nv := range []namedValue{{"r0", req.R0}, {"r1", req.R1}, {"debuff", req.Debuff}} {
		if err := checkFinite(nv.name, nv.v); err != nil {
			return nil, grpcError(err)
		}
	}
	v, err := damage.EstimateAdditionalDefenseCoeff(req.Tier, req.R0, req.R1, req.Debuff)
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(map[string]float64{"additional_defense_coeff": v})
}

type rankRequest struct {
	Patterns []pattern.Input `json:"patterns"`
}

// RankPatterns ranks the given inputs. With no inputs it ranks the shared book.
func (c *calculatorServer) RankPatterns(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req rankRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, grpcError(err)
	}
	if len(req.Patterns) == 0 {
		return toStruct(rankedResp{Patterns: c.s.book.Ranked()})
	}

	ps := make([]damage.Pattern, 0, len(req.Patterns))
	for i, pin := range req.Patterns {
		if err := ctx.Err(); err != nil {
			return nil, status.FromContextError(err).Err()
		}
		cfg, err := c.s.resolveInput(pin)
		if err != nil {
			return nil, grpcError(fmt.Errorf("patterns[%d]: %w", i, err))
		}
		name := pin.Name
		if name == "" {
			name = fmt.Sprintf("Pattern %d", i+1)
		}
		ps = append(ps, damage.NewPattern(fmt.Sprintf("p%d", i+1), name, cfg))
	}
	ranked := damage.RankPatterns(ps)
	return toStruct(rankedResp{Patterns: ranked, Best: &ranked[0]})
}

func grpcError(err error) error {
	switch {
	case errors.Is(err, pattern.ErrNotFound),
		errors.Is(err, pattern.ErrUnknownEnemy),
		errors.Is(err, catalog.ErrEnemyNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, damage.ErrInvalidWeaponTier):
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func fromStruct(in *structpb.Struct, v any) error {
	data, err := protojson.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// CalculatorClient calls the Calculator service over conn.
type CalculatorClient struct {
	cc grpc.ClientConnInterface
}

func NewCalculatorClient(cc grpc.ClientConnInterface) *CalculatorClient {
	return &CalculatorClient{cc: cc}
}

func (c *CalculatorClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+calculatorService+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CalculatorClient) Evaluate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Evaluate", in, opts...)
}

func (c *CalculatorClient) EstimateDefense(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "EstimateDefense", in, opts...)
}

func (c *CalculatorClient) RankPatterns(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "RankPatterns", in, opts...)
}
