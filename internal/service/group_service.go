package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"golang.org/x/sync/errgroup"

	"github.com/chimt4chi/personal-budget-tracker/internal/auth"
	"github.com/chimt4chi/personal-budget-tracker/internal/calculator"
	"github.com/chimt4chi/personal-budget-tracker/internal/models"
	"github.com/chimt4chi/personal-budget-tracker/internal/storage"
	"github.com/chimt4chi/personal-budget-tracker/pkg/api"
	"github.com/chimt4chi/personal-budget-tracker/pkg/api/apiconnect"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	apiconnect.UnimplementedGroupServiceHandler
	store  storage.Store
	logger *slog.Logger
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, logger *slog.Logger) *GroupService {
	return &GroupService{store: store, logger: logger}
}

func toAPIGroup(group *models.Group) *api.Group {
	return &api.Group{
		Id:        group.ID,
		Name:      group.Name,
		CreatedBy: group.CreatedBy,
		OwnerName: group.OwnerName,
		CreatedAt: group.CreatedAt,
	}
}

func toAPIMember(member *models.GroupMember) *api.Member {
	return &api.Member{
		UserId:      member.UserID,
		DisplayName: member.DisplayName,
		Email:       member.Email,
		Role:        string(member.Role),
		JoinedAt:    member.JoinedAt,
	}
}

// CreateGroup creates a new group owned by the caller.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Msg.Name)
	s.logger.Info("CreateGroup request received", "name", name, "user_id", userID)

	if name == "" {
		return nil, invalidArgument("group name is required")
	}

	group := &models.Group{Name: name, CreatedBy: userID}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		s.logger.Error("CreateGroup failed", "error", err)
		return nil, storageError(err)
	}

	created, err := s.store.GetGroup(ctx, group.ID)
	if err != nil {
		s.logger.Error("Failed to fetch created group", "group_id", group.ID, "error", err)
		return nil, storageError(err)
	}

	s.logger.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(created)}), nil
}

// ListGroups returns the groups the caller belongs to.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		s.logger.Error("ListGroups failed", "user_id", userID, "error", err)
		return nil, storageError(err)
	}

	out := make([]*api.Group, len(groups))
	for i, group := range groups {
		out[i] = toAPIGroup(group)
	}

	s.logger.Info("ListGroups successful", "user_id", userID, "count", len(out))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// RenameGroup changes a group's name. Owner only.
func (s *GroupService) RenameGroup(ctx context.Context, req *connect.Request[api.RenameGroupRequest]) (*connect.Response[api.RenameGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("group name is required")
	}

	group, _, err := membership(ctx, s.store, req.Msg.GroupId, userID)
	if err != nil {
		return nil, err
	}
	if group.CreatedBy != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotOwner)
	}

	if err := s.store.RenameGroup(ctx, group.ID, name); err != nil {
		s.logger.Error("RenameGroup failed", "group_id", group.ID, "error", err)
		return nil, storageError(err)
	}
	group.Name = name

	s.logger.Info("Group renamed", "group_id", group.ID, "name", name)
	return connect.NewResponse(&api.RenameGroupResponse{Group: toAPIGroup(group)}), nil
}

// DeleteGroup removes a group with all of its expenses and settlements.
// Owner only.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	group, _, err := membership(ctx, s.store, req.Msg.GroupId, userID)
	if err != nil {
		return nil, err
	}
	if group.CreatedBy != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotOwner)
	}

	if err := s.store.DeleteGroup(ctx, group.ID); err != nil {
		s.logger.Error("DeleteGroup failed", "group_id", group.ID, "error", err)
		return nil, storageError(err)
	}

	s.logger.Info("Group deleted", "group_id", group.ID)
	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// AddMember adds a user, found by ID or email, to the group. Any member may
// invite. Adding an existing member is not an error.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	group, _, err := membership(ctx, s.store, req.Msg.GroupId, userID)
	if err != nil {
		return nil, err
	}

	var user *models.User
	switch {
	case req.Msg.UserId != "":
		user, err = s.store.GetUserByID(ctx, req.Msg.UserId)
	case strings.TrimSpace(req.Msg.Email) != "":
		user, err = s.store.GetUserByEmail(ctx, auth.NormalizeEmail(req.Msg.Email))
	default:
		return nil, invalidArgument("user_id or email required")
	}
	if errors.Is(err, storage.ErrNotFound) {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("user not found"))
	}
	if err != nil {
		return nil, storageError(err)
	}

	added, err := s.store.AddMember(ctx, group.ID, user.ID, models.RoleMember)
	if err != nil {
		s.logger.Error("AddMember failed", "group_id", group.ID, "error", err)
		return nil, storageError(err)
	}

	member, err := s.store.GetMember(ctx, group.ID, user.ID)
	if err != nil {
		return nil, storageError(err)
	}

	s.logger.Info("AddMember successful", "group_id", group.ID, "member_id", user.ID, "added", added)
	return connect.NewResponse(&api.AddMemberResponse{Member: toAPIMember(member), Added: added}), nil
}

// ListMembers returns the members of a group the caller belongs to.
func (s *GroupService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	group, _, err := membership(ctx, s.store, req.Msg.GroupId, userID)
	if err != nil {
		return nil, err
	}

	members, err := s.store.ListMembers(ctx, group.ID)
	if err != nil {
		s.logger.Error("ListMembers failed", "group_id", group.ID, "error", err)
		return nil, storageError(err)
	}

	out := make([]*api.Member, len(members))
	for i, m := range members {
		out[i] = toAPIMember(m)
	}
	return connect.NewResponse(&api.ListMembersResponse{Members: out}), nil
}

// UpdateMemberRole promotes or demotes a member. Admin only; the owner always
// stays an admin.
func (s *GroupService) UpdateMemberRole(ctx context.Context, req *connect.Request[api.UpdateMemberRoleRequest]) (*connect.Response[api.UpdateMemberRoleResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	role := models.Role(req.Msg.Role)
	if !role.Valid() {
		return nil, invalidArgument("role must be admin or member")
	}

	group, caller, err := membership(ctx, s.store, req.Msg.GroupId, userID)
	if err != nil {
		return nil, err
	}
	if caller.Role != models.RoleAdmin {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotAdmin)
	}
	if req.Msg.UserId == group.CreatedBy && role != models.RoleAdmin {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("the group owner must remain an admin"))
	}

	if err := s.store.UpdateMemberRole(ctx, group.ID, req.Msg.UserId, role); err != nil {
		s.logger.Error("UpdateMemberRole failed", "group_id", group.ID, "member_id", req.Msg.UserId, "error", err)
		return nil, storageError(err)
	}

	member, err := s.store.GetMember(ctx, group.ID, req.Msg.UserId)
	if err != nil {
		return nil, storageError(err)
	}

	s.logger.Info("Member role updated", "group_id", group.ID, "member_id", member.UserID, "role", role)
	return connect.NewResponse(&api.UpdateMemberRoleResponse{Member: toAPIMember(member)}), nil
}

// RemoveMember removes another member from the group. Admin only; the owner
// cannot be removed. The member's past expenses and settlements remain.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	group, caller, err := membership(ctx, s.store, req.Msg.GroupId, userID)
	if err != nil {
		return nil, err
	}
	if caller.Role != models.RoleAdmin {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotAdmin)
	}
	if req.Msg.UserId == group.CreatedBy {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("the group owner cannot be removed"))
	}

	if err := s.store.RemoveMember(ctx, group.ID, req.Msg.UserId); err != nil {
		s.logger.Error("RemoveMember failed", "group_id", group.ID, "member_id", req.Msg.UserId, "error", err)
		return nil, storageError(err)
	}

	s.logger.Info("Member removed", "group_id", group.ID, "member_id", req.Msg.UserId)
	return connect.NewResponse(&api.RemoveMemberResponse{}), nil
}

// LeaveGroup removes the caller from the group. The owner cannot leave.
func (s *GroupService) LeaveGroup(ctx context.Context, req *connect.Request[api.LeaveGroupRequest]) (*connect.Response[api.LeaveGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	group, _, err := membership(ctx, s.store, req.Msg.GroupId, userID)
	if err != nil {
		return nil, err
	}
	if group.CreatedBy == userID {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("the group owner cannot leave; delete the group instead"))
	}

	if err := s.store.RemoveMember(ctx, group.ID, userID); err != nil {
		s.logger.Error("LeaveGroup failed", "group_id", group.ID, "error", err)
		return nil, storageError(err)
	}

	s.logger.Info("Member left group", "group_id", group.ID, "user_id", userID)
	return connect.NewResponse(&api.LeaveGroupResponse{}), nil
}

// GetGroupBalances computes every member's net balance from the group's
// expenses, shares and settlements, and suggests payments that settle them.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	groupID := req.Msg.GroupId
	s.logger.Info("GetGroupBalances request received", "group_id", groupID, "user_id", userID)

	if _, _, err := membership(ctx, s.store, groupID, userID); err != nil {
		return nil, err
	}

	var (
		expenses    []*models.Expense
		shares      []models.ExpenseShare
		settlements []*models.Settlement
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		expenses, err = s.store.ListExpensesByGroup(gctx, groupID)
		return err
	})
	g.Go(func() (err error) {
		shares, err = s.store.ListExpenseSharesByGroup(gctx, groupID)
		return err
	})
	g.Go(func() (err error) {
		settlements, err = s.store.ListSettlementsByGroup(gctx, groupID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("GetGroupBalances failed - could not load group activity", "group_id", groupID, "error", err)
		return nil, storageError(err)
	}

	result := calculator.ComputeGroupSettlement(
		expenseRecords(expenses),
		shareRecords(shares),
		settlementRecords(settlements),
	)

	ids := make([]string, len(result.Balances))
	for i, b := range result.Balances {
		ids[i] = b.UserID
	}
	names, err := displayNames(ctx, s.store, groupID, ids)
	if err != nil {
		return nil, storageError(err)
	}

	resp := &api.GetGroupBalancesResponse{
		Balances:    make([]*api.MemberBalance, len(result.Balances)),
		Suggestions: make([]*api.SettlementSuggestion, len(result.Suggestions)),
	}
	for i, b := range result.Balances {
		resp.Balances[i] = &api.MemberBalance{
			UserId:      b.UserID,
			DisplayName: names[b.UserID],
			Balance:     fromMoney(b.Balance),
			Paid:        fromMoney(b.Paid),
			Owed:        fromMoney(b.Owed),
			SettledOut:  fromMoney(b.SettledOut),
			SettledIn:   fromMoney(b.SettledIn),
		}
	}
	for i, sg := range result.Suggestions {
		resp.Suggestions[i] = &api.SettlementSuggestion{
			FromUserId: sg.FromUserID,
			FromName:   names[sg.FromUserID],
			ToUserId:   sg.ToUserID,
			ToName:     names[sg.ToUserID],
			Amount:     fromMoney(sg.Amount),
		}
	}

	s.logger.Info("GetGroupBalances successful",
		"group_id", groupID,
		"members", len(resp.Balances),
		"suggestions", len(resp.Suggestions),
	)
	return connect.NewResponse(resp), nil
}

func expenseRecords(expenses []*models.Expense) []calculator.ExpenseRecord[string] {
	out := make([]calculator.ExpenseRecord[string], len(expenses))
	for i, e := range expenses {
		out[i] = calculator.ExpenseRecord[string]{PaidBy: e.PaidBy, Amount: e.Amount}
	}
	return out
}

func shareRecords(shares []models.ExpenseShare) []calculator.ExpenseShare[string] {
	out := make([]calculator.ExpenseShare[string], len(shares))
	for i, sh := range shares {
		out[i] = calculator.ExpenseShare[string]{UserID: sh.UserID, ShareAmount: sh.ShareAmount}
	}
	return out
}

func settlementRecords(settlements []*models.Settlement) []calculator.SettlementRecord[string] {
	out := make([]calculator.SettlementRecord[string], len(settlements))
	for i, st := range settlements {
		out[i] = calculator.SettlementRecord[string]{FromUserID: st.FromUserID, ToUserID: st.ToUserID, Amount: st.Amount}
	}
	return out
}
