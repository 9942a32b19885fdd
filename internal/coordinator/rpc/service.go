package rpc

// Coordinator.proto (documentation only — no protoc step produces this
// repository; see codec.go for how the wire format is actually realized):
//
//   service Coordinator {
//     rpc RegisterNode(RegisterNodeRequest) returns (RegisterNodeResponse);
//     rpc Heartbeat(HeartbeatRequest) returns (HeartbeatResponse);
//     rpc DeactivateNode(DeactivateNodeRequest) returns (DeactivateNodeResponse);
//     rpc SubmitTask(SubmitTaskRequest) returns (SubmitTaskResponse);
//     rpc SubmitResult(SubmitResultRequest) returns (SubmitResultResponse);
//     rpc TimeoutTask(TimeoutTaskRequest) returns (TimeoutTaskResponse);
//     rpc Pause(PauseRequest) returns (PauseResponse);
//     rpc Unpause(PauseRequest) returns (PauseResponse);
//     rpc UpdateMinStake(UpdateMinStakeRequest) returns (UpdateMinStakeResponse);
//     rpc UpdateMaxTasksPerNode(UpdateMaxTasksPerNodeRequest) returns (UpdateMaxTasksPerNodeResponse);
//     rpc UpdateTaskTimeout(UpdateTaskTimeoutRequest) returns (UpdateTaskTimeoutResponse);
//     rpc EmergencyWithdraw(EmergencyWithdrawRequest) returns (EmergencyWithdrawResponse);
//     rpc Transfer(TransferRequest) returns (TransferResponse);
//     rpc GetNodeInfo(GetNodeInfoRequest) returns (GetNodeInfoResponse);
//     rpc GetActiveNodes(EmptyRequest) returns (GetActiveNodesResponse);
//     rpc GetPendingTasks(EmptyRequest) returns (GetPendingTasksResponse);
//     rpc GetActiveTask(GetActiveTaskRequest) returns (GetActiveTaskResponse);
//     rpc GetTaskResult(GetTaskResultRequest) returns (GetTaskResultResponse);
//     rpc GetAssignedTasks(GetAssignedTasksRequest) returns (GetAssignedTasksResponse);
//     rpc GetTaskCount(EmptyRequest) returns (GetTaskCountResponse);
//     rpc BalanceOf(BalanceOfRequest) returns (BalanceOfResponse);
//     rpc TotalSupply(EmptyRequest) returns (TotalSupplyResponse);
//     rpc GetTotalRewardsDistributed(EmptyRequest) returns (GetTotalRewardsDistributedResponse);
//     rpc GetContractStats(EmptyRequest) returns (ContractStatsResponse);
//   }

import (
	"context"

	"google.golang.org/grpc"
)

const serviceName = "deai.coordinator.Coordinator"

// handlerFor builds a grpc.MethodHandler for a Server method with the given
// request/response shapes, decoding with the codec registered in codec.go.
func handlerFor(newReq func() interface{}, call func(s *Server, ctx context.Context, req interface{}) (interface{}, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		req := newReq()
		if err := dec(req); err != nil {
			return nil, err
		}
		s := srv.(*Server)
		if interceptor == nil {
			resp, err := call(s, ctx, req)
			return resp, toStatusError(err)
		}
		info := &grpc.UnaryServerInfo{Server: s, FullMethod: serviceName}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			resp, err := call(s, ctx, req)
			return resp, toStatusError(err)
		}
		return interceptor(ctx, req, info, handler)
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*interface{})(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RegisterNode", Handler: handlerFor(
			func() interface{} { return new(RegisterNodeRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.RegisterNode(ctx, req.(*RegisterNodeRequest))
			})},
		{MethodName: "Heartbeat", Handler: handlerFor(
			func() interface{} { return new(HeartbeatRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.Heartbeat(ctx, req.(*HeartbeatRequest))
			})},
		{MethodName: "DeactivateNode", Handler: handlerFor(
			func() interface{} { return new(DeactivateNodeRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.DeactivateNode(ctx, req.(*DeactivateNodeRequest))
			})},
		{MethodName: "SubmitTask", Handler: handlerFor(
			func() interface{} { return new(SubmitTaskRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.SubmitTask(ctx, req.(*SubmitTaskRequest))
			})},
		{MethodName: "SubmitResult", Handler: handlerFor(
			func() interface{} { return new(SubmitResultRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.SubmitResult(ctx, req.(*SubmitResultRequest))
			})},
		{MethodName: "TimeoutTask", Handler: handlerFor(
			func() interface{} { return new(TimeoutTaskRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.TimeoutTask(ctx, req.(*TimeoutTaskRequest))
			})},
		{MethodName: "Pause", Handler: handlerFor(
			func() interface{} { return new(PauseRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.Pause(ctx, req.(*PauseRequest))
			})},
		{MethodName: "Unpause", Handler: handlerFor(
			func() interface{} { return new(PauseRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.Unpause(ctx, req.(*PauseRequest))
			})},
		{MethodName: "UpdateMinStake", Handler: handlerFor(
			func() interface{} { return new(UpdateMinStakeRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.UpdateMinStake(ctx, req.(*UpdateMinStakeRequest))
			})},
		{MethodName: "UpdateMaxTasksPerNode", Handler: handlerFor(
			func() interface{} { return new(UpdateMaxTasksPerNodeRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.UpdateMaxTasksPerNode(ctx, req.(*UpdateMaxTasksPerNodeRequest))
			})},
		{MethodName: "UpdateTaskTimeout", Handler: handlerFor(
			func() interface{} { return new(UpdateTaskTimeoutRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.UpdateTaskTimeout(ctx, req.(*UpdateTaskTimeoutRequest))
			})},
		{MethodName: "EmergencyWithdraw", Handler: handlerFor(
			func() interface{} { return new(EmergencyWithdrawRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.EmergencyWithdraw(ctx, req.(*EmergencyWithdrawRequest))
			})},
		{MethodName: "Transfer", Handler: handlerFor(
			func() interface{} { return new(TransferRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.Transfer(ctx, req.(*TransferRequest))
			})},
		{MethodName: "GetNodeInfo", Handler: handlerFor(
			func() interface{} { return new(GetNodeInfoRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.GetNodeInfo(ctx, req.(*GetNodeInfoRequest))
			})},
		{MethodName: "GetActiveNodes", Handler: handlerFor(
			func() interface{} { return new(EmptyRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.GetActiveNodes(ctx, req.(*EmptyRequest))
			})},
		{MethodName: "GetPendingTasks", Handler: handlerFor(
			func() interface{} { return new(EmptyRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.GetPendingTasks(ctx, req.(*EmptyRequest))
			})},
		{MethodName: "GetActiveTask", Handler: handlerFor(
			func() interface{} { return new(GetActiveTaskRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.GetActiveTask(ctx, req.(*GetActiveTaskRequest))
			})},
		{MethodName: "GetTaskResult", Handler: handlerFor(
			func() interface{} { return new(GetTaskResultRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.GetTaskResult(ctx, req.(*GetTaskResultRequest))
			})},
		{MethodName: "GetAssignedTasks", Handler: handlerFor(
			func() interface{} { return new(GetAssignedTasksRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.GetAssignedTasks(ctx, req.(*GetAssignedTasksRequest))
			})},
		{MethodName: "GetTaskCount", Handler: handlerFor(
			func() interface{} { return new(EmptyRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.GetTaskCount(ctx, req.(*EmptyRequest))
			})},
		{MethodName: "BalanceOf", Handler: handlerFor(
			func() interface{} { return new(BalanceOfRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.BalanceOf(ctx, req.(*BalanceOfRequest))
			})},
		{MethodName: "TotalSupply", Handler: handlerFor(
			func() interface{} { return new(EmptyRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.TotalSupply(ctx, req.(*EmptyRequest))
			})},
		{MethodName: "GetTotalRewardsDistributed", Handler: handlerFor(
			func() interface{} { return new(EmptyRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.GetTotalRewardsDistributed(ctx, req.(*EmptyRequest))
			})},
		{MethodName: "GetContractStats", Handler: handlerFor(
			func() interface{} { return new(EmptyRequest) },
			func(s *Server, ctx context.Context, req interface{}) (interface{}, error) {
				return s.GetContractStats(ctx, req.(*EmptyRequest))
			})},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "coordinator.proto",
}
