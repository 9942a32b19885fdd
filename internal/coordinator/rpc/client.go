package rpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

// Client is a thin wrapper the node agent and gateway use to call the
// Coordinator service over a real grpc.ClientConn, using the json codec
// registered in codec.go instead of protobuf.
type Client struct {
	cc *grpc.ClientConn
}

// Dial connects to the coordinator's gRPC listener at target.
func Dial(ctx context.Context, target string) (*Client, error) {
	cc, err := grpc.DialContext(ctx, target,
		grpc.WithInsecure(),
		grpc.WithBlock(),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc}, nil
}

// Close tears down the underlying connection.
func (c *Client) Close() error { return c.cc.Close() }

func (c *Client) invoke(ctx context.Context, method string, req, resp interface{}) error {
	return fromStatusError(c.cc.Invoke(ctx, "/"+serviceName+"/"+method, req, resp))
}

func (c *Client) RegisterNode(ctx context.Context, req *RegisterNodeRequest) (*RegisterNodeResponse, error) {
	resp := new(RegisterNodeResponse)
	if err := c.invoke(ctx, "RegisterNode", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Heartbeat(ctx context.Context, req *HeartbeatRequest) (*HeartbeatResponse, error) {
	resp := new(HeartbeatResponse)
	if err := c.invoke(ctx, "Heartbeat", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) DeactivateNode(ctx context.Context, req *DeactivateNodeRequest) (*DeactivateNodeResponse, error) {
	resp := new(DeactivateNodeResponse)
	if err := c.invoke(ctx, "DeactivateNode", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) SubmitTask(ctx context.Context, req *SubmitTaskRequest) (*SubmitTaskResponse, error) {
	resp := new(SubmitTaskResponse)
	if err := c.invoke(ctx, "SubmitTask", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) SubmitResult(ctx context.Context, req *SubmitResultRequest) (*SubmitResultResponse, error) {
	resp := new(SubmitResultResponse)
	if err := c.invoke(ctx, "SubmitResult", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) TimeoutTask(ctx context.Context, req *TimeoutTaskRequest) (*TimeoutTaskResponse, error) {
	resp := new(TimeoutTaskResponse)
	if err := c.invoke(ctx, "TimeoutTask", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetNodeInfo(ctx context.Context, req *GetNodeInfoRequest) (*GetNodeInfoResponse, error) {
	resp := new(GetNodeInfoResponse)
	if err := c.invoke(ctx, "GetNodeInfo", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetActiveNodes(ctx context.Context) (*GetActiveNodesResponse, error) {
	resp := new(GetActiveNodesResponse)
	if err := c.invoke(ctx, "GetActiveNodes", &EmptyRequest{}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetPendingTasks(ctx context.Context) (*GetPendingTasksResponse, error) {
	resp := new(GetPendingTasksResponse)
	if err := c.invoke(ctx, "GetPendingTasks", &EmptyRequest{}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetActiveTask(ctx context.Context, req *GetActiveTaskRequest) (*GetActiveTaskResponse, error) {
	resp := new(GetActiveTaskResponse)
	if err := c.invoke(ctx, "GetActiveTask", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetTaskResult(ctx context.Context, req *GetTaskResultRequest) (*GetTaskResultResponse, error) {
	resp := new(GetTaskResultResponse)
	if err := c.invoke(ctx, "GetTaskResult", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetAssignedTasks(ctx context.Context, req *GetAssignedTasksRequest) (*GetAssignedTasksResponse, error) {
	resp := new(GetAssignedTasksResponse)
	if err := c.invoke(ctx, "GetAssignedTasks", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetTaskCount(ctx context.Context) (*GetTaskCountResponse, error) {
	resp := new(GetTaskCountResponse)
	if err := c.invoke(ctx, "GetTaskCount", &EmptyRequest{}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) BalanceOf(ctx context.Context, req *BalanceOfRequest) (*BalanceOfResponse, error) {
	resp := new(BalanceOfResponse)
	if err := c.invoke(ctx, "BalanceOf", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetContractStats(ctx context.Context) (*ContractStatsResponse, error) {
	resp := new(ContractStatsResponse)
	if err := c.invoke(ctx, "GetContractStats", &EmptyRequest{}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) TotalSupply(ctx context.Context) (*TotalSupplyResponse, error) {
	resp := new(TotalSupplyResponse)
	if err := c.invoke(ctx, "TotalSupply", &EmptyRequest{}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetTotalRewardsDistributed(ctx context.Context) (*GetTotalRewardsDistributedResponse, error) {
	resp := new(GetTotalRewardsDistributedResponse)
	if err := c.invoke(ctx, "GetTotalRewardsDistributed", &EmptyRequest{}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Transfer(ctx context.Context, req *TransferRequest) (*TransferResponse, error) {
	resp := new(TransferResponse)
	if err := c.invoke(ctx, "Transfer", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Pause(ctx context.Context, req *PauseRequest) (*PauseResponse, error) {
	resp := new(PauseResponse)
	if err := c.invoke(ctx, "Pause", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Unpause(ctx context.Context, req *PauseRequest) (*PauseResponse, error) {
	resp := new(PauseResponse)
	if err := c.invoke(ctx, "Unpause", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) UpdateMinStake(ctx context.Context, req *UpdateMinStakeRequest) (*UpdateMinStakeResponse, error) {
	resp := new(UpdateMinStakeResponse)
	if err := c.invoke(ctx, "UpdateMinStake", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) UpdateMaxTasksPerNode(ctx context.Context, req *UpdateMaxTasksPerNodeRequest) (*UpdateMaxTasksPerNodeResponse, error) {
	resp := new(UpdateMaxTasksPerNodeResponse)
	if err := c.invoke(ctx, "UpdateMaxTasksPerNode", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) UpdateTaskTimeout(ctx context.Context, req *UpdateTaskTimeoutRequest) (*UpdateTaskTimeoutResponse, error) {
	resp := new(UpdateTaskTimeoutResponse)
	if err := c.invoke(ctx, "UpdateTaskTimeout", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) EmergencyWithdraw(ctx context.Context, req *EmergencyWithdrawRequest) (*EmergencyWithdrawResponse, error) {
	resp := new(EmergencyWithdrawResponse)
	if err := c.invoke(ctx, "EmergencyWithdraw", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DefaultDialTimeout bounds the initial connection attempt of the node agent
// and the gateway.
const DefaultDialTimeout = 10 * time.Second
