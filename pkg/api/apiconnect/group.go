package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/chimt4chi/personal-budget-tracker/pkg/api"
)

// GroupServiceName is the fully-qualified name of the GroupService service.
const GroupServiceName = packagePrefix + "GroupService"

const (
	GroupServiceCreateGroupProcedure      = "/" + GroupServiceName + "/CreateGroup"
	GroupServiceListGroupsProcedure       = "/" + GroupServiceName + "/ListGroups"
	GroupServiceRenameGroupProcedure      = "/" + GroupServiceName + "/RenameGroup"
	GroupServiceDeleteGroupProcedure      = "/" + GroupServiceName + "/DeleteGroup"
	GroupServiceAddMemberProcedure        = "/" + GroupServiceName + "/AddMember"
	GroupServiceListMembersProcedure      = "/" + GroupServiceName + "/ListMembers"
	GroupServiceUpdateMemberRoleProcedure = "/" + GroupServiceName + "/UpdateMemberRole"
	GroupServiceRemoveMemberProcedure     = "/" + GroupServiceName + "/RemoveMember"
	GroupServiceLeaveGroupProcedure       = "/" + GroupServiceName + "/LeaveGroup"
	GroupServiceGetGroupBalancesProcedure = "/" + GroupServiceName + "/GetGroupBalances"
)

// GroupServiceClient is a client for the budget.v1.GroupService service.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	RenameGroup(context.Context, *connect.Request[api.RenameGroupRequest]) (*connect.Response[api.RenameGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	UpdateMemberRole(context.Context, *connect.Request[api.UpdateMemberRoleRequest]) (*connect.Response[api.UpdateMemberRoleResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	LeaveGroup(context.Context, *connect.Request[api.LeaveGroupRequest]) (*connect.Response[api.LeaveGroupResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
}

// NewGroupServiceClient constructs a client for the budget.v1.GroupService service.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &groupServiceClient{
		createGroup:      newClient[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, baseURL, GroupServiceCreateGroupProcedure, opts),
		listGroups:       newClient[api.ListGroupsRequest, api.ListGroupsResponse](httpClient, baseURL, GroupServiceListGroupsProcedure, opts),
		renameGroup:      newClient[api.RenameGroupRequest, api.RenameGroupResponse](httpClient, baseURL, GroupServiceRenameGroupProcedure, opts),
		deleteGroup:      newClient[api.DeleteGroupRequest, api.DeleteGroupResponse](httpClient, baseURL, GroupServiceDeleteGroupProcedure, opts),
		addMember:        newClient[api.AddMemberRequest, api.AddMemberResponse](httpClient, baseURL, GroupServiceAddMemberProcedure, opts),
		listMembers:      newClient[api.ListMembersRequest, api.ListMembersResponse](httpClient, baseURL, GroupServiceListMembersProcedure, opts),
		updateMemberRole: newClient[api.UpdateMemberRoleRequest, api.UpdateMemberRoleResponse](httpClient, baseURL, GroupServiceUpdateMemberRoleProcedure, opts),
		removeMember:     newClient[api.RemoveMemberRequest, api.RemoveMemberResponse](httpClient, baseURL, GroupServiceRemoveMemberProcedure, opts),
		leaveGroup:       newClient[api.LeaveGroupRequest, api.LeaveGroupResponse](httpClient, baseURL, GroupServiceLeaveGroupProcedure, opts),
		getGroupBalances: newClient[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse](httpClient, baseURL, GroupServiceGetGroupBalancesProcedure, opts),
	}
}

type groupServiceClient struct {
	createGroup      *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	listGroups       *connect.Client[api.ListGroupsRequest, api.ListGroupsResponse]
	renameGroup      *connect.Client[api.RenameGroupRequest, api.RenameGroupResponse]
	deleteGroup      *connect.Client[api.DeleteGroupRequest, api.DeleteGroupResponse]
	addMember        *connect.Client[api.AddMemberRequest, api.AddMemberResponse]
	listMembers      *connect.Client[api.ListMembersRequest, api.ListMembersResponse]
	updateMemberRole *connect.Client[api.UpdateMemberRoleRequest, api.UpdateMemberRoleResponse]
	removeMember     *connect.Client[api.RemoveMemberRequest, api.RemoveMemberResponse]
	leaveGroup       *connect.Client[api.LeaveGroupRequest, api.LeaveGroupResponse]
	getGroupBalances *connect.Client[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse]
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) RenameGroup(ctx context.Context, req *connect.Request[api.RenameGroupRequest]) (*connect.Response[api.RenameGroupResponse], error) {
	return c.renameGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

func (c *groupServiceClient) UpdateMemberRole(ctx context.Context, req *connect.Request[api.UpdateMemberRoleRequest]) (*connect.Response[api.UpdateMemberRoleResponse], error) {
	return c.updateMemberRole.CallUnary(ctx, req)
}

func (c *groupServiceClient) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

func (c *groupServiceClient) LeaveGroup(ctx context.Context, req *connect.Request[api.LeaveGroupRequest]) (*connect.Response[api.LeaveGroupResponse], error) {
	return c.leaveGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}

// GroupServiceHandler is implemented by the server side of budget.v1.GroupService.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	RenameGroup(context.Context, *connect.Request[api.RenameGroupRequest]) (*connect.Response[api.RenameGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	UpdateMemberRole(context.Context, *connect.Request[api.UpdateMemberRoleRequest]) (*connect.Response[api.UpdateMemberRoleResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	LeaveGroup(context.Context, *connect.Request[api.LeaveGroupRequest]) (*connect.Response[api.LeaveGroupResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
}

// NewGroupServiceHandler returns the mount path and HTTP handler for svc.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return mount(GroupServiceName,
		unary(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts),
		unary(GroupServiceListGroupsProcedure, svc.ListGroups, opts),
		unary(GroupServiceRenameGroupProcedure, svc.RenameGroup, opts),
		unary(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts),
		unary(GroupServiceAddMemberProcedure, svc.AddMember, opts),
		unary(GroupServiceListMembersProcedure, svc.ListMembers, opts),
		unary(GroupServiceUpdateMemberRoleProcedure, svc.UpdateMemberRole, opts),
		unary(GroupServiceRemoveMemberProcedure, svc.RemoveMember, opts),
		unary(GroupServiceLeaveGroupProcedure, svc.LeaveGroup, opts),
		unary(GroupServiceGetGroupBalancesProcedure, svc.GetGroupBalances, opts),
	)
}

// UnimplementedGroupServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedGroupServiceHandler struct{}

func (UnimplementedGroupServiceHandler) CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return nil, unimplemented(GroupServiceCreateGroupProcedure)
}

func (UnimplementedGroupServiceHandler) ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return nil, unimplemented(GroupServiceListGroupsProcedure)
}

func (UnimplementedGroupServiceHandler) RenameGroup(context.Context, *connect.Request[api.RenameGroupRequest]) (*connect.Response[api.RenameGroupResponse], error) {
	return nil, unimplemented(GroupServiceRenameGroupProcedure)
}

func (UnimplementedGroupServiceHandler) DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	return nil, unimplemented(GroupServiceDeleteGroupProcedure)
}

func (UnimplementedGroupServiceHandler) AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return nil, unimplemented(GroupServiceAddMemberProcedure)
}

func (UnimplementedGroupServiceHandler) ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return nil, unimplemented(GroupServiceListMembersProcedure)
}

func (UnimplementedGroupServiceHandler) UpdateMemberRole(context.Context, *connect.Request[api.UpdateMemberRoleRequest]) (*connect.Response[api.UpdateMemberRoleResponse], error) {
	return nil, unimplemented(GroupServiceUpdateMemberRoleProcedure)
}

func (UnimplementedGroupServiceHandler) RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return nil, unimplemented(GroupServiceRemoveMemberProcedure)
}

func (UnimplementedGroupServiceHandler) LeaveGroup(context.Context, *connect.Request[api.LeaveGroupRequest]) (*connect.Response[api.LeaveGroupResponse], error) {
	return nil, unimplemented(GroupServiceLeaveGroupProcedure)
}

func (UnimplementedGroupServiceHandler) GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return nil, unimplemented(GroupServiceGetGroupBalancesProcedure)
}
