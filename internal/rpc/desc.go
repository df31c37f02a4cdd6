package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "supaclipboard.v1.ClipboardService"

const (
	copyMethod    = "/" + ServiceName + "/Copy"
	pasteMethod   = "/" + ServiceName + "/Paste"
	historyMethod = "/" + ServiceName + "/History"
	watchMethod   = "/" + ServiceName + "/Watch"

	// mimeHeader carries the MIME type of Copy requests and Paste responses.
	mimeHeader = "x-supaclipboard-mime"
)

// ClipboardServer is the server API for ClipboardService. Messages are
// protobuf well-known types so that no generated code is needed.
type ClipboardServer interface {
	Copy(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BoolValue, error)
	Paste(context.Context, *emptypb.Empty) (*wrapperspb.BytesValue, error)
	History(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	Watch(*emptypb.Empty, WatchServer) error
}

// WatchServer is the server side of a Watch stream.
type WatchServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type watchServer struct {
	grpc.ServerStream
}

func (x *watchServer) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

// Register registers srv with s.
func Register(s grpc.ServiceRegistrar, srv ClipboardServer) {
	s.RegisterService(&serviceDesc, srv)
}

func copyHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClipboardServer).Copy(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: copyMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ClipboardServer).Copy(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func pasteHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClipboardServer).Paste(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: pasteMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ClipboardServer).Paste(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func historyHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClipboardServer).History(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: historyMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ClipboardServer).History(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(ClipboardServer).Watch(in, &watchServer{stream})
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ClipboardServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Copy", Handler: copyHandler},
		{MethodName: "Paste", Handler: pasteHandler},
		{MethodName: "History", Handler: historyHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Watch", Handler: watchHandler, ServerStreams: true},
	},
	Metadata: "supaclipboard/v1/clipboard.proto",
}
