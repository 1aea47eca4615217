package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chimt4chi/personal-budget-tracker/pkg/api"
)

func TestCreateGroup(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	owner := env.register(t, "asha@example.com", "Asha")

	resp, err := env.groups.CreateGroup(ctx, authed(owner, &api.CreateGroupRequest{Name: "  Roommates "}))
	require.NoError(t, err)

	group := resp.Msg.Group
	require.NotNil(t, group)
	assert.NotEmpty(t, group.Id)
	assert.Equal(t, "Roommates", group.Name)
	assert.Equal(t, owner.ID, group.CreatedBy)
	assert.Equal(t, "Asha", group.OwnerName)
	assert.NotZero(t, group.CreatedAt)

	members, err := env.groups.ListMembers(ctx, authed(owner, &api.ListMembersRequest{GroupId: group.Id}))
	require.NoError(t, err)
	require.Len(t, members.Msg.Members, 1)
	assert.Equal(t, owner.ID, members.Msg.Members[0].UserId)
	assert.Equal(t, "admin", members.Msg.Members[0].Role)

	list, err := env.groups.ListGroups(ctx, authed(owner, &api.ListGroupsRequest{}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Groups, 1)
	assert.Equal(t, group.Id, list.Msg.Groups[0].Id)
}

func TestCreateGroupValidation(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	owner := env.register(t, "asha@example.com", "Asha")

	_, err := env.groups.CreateGroup(ctx, authed(owner, &api.CreateGroupRequest{Name: "   "}))
	requireCode(t, connect.CodeInvalidArgument, err)

	_, err = env.groups.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Trip"}))
	requireCode(t, connect.CodeUnauthenticated, err)
}

func TestAddMember(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	owner := env.register(t, "asha@example.com", "Asha")
	bob := env.register(t, "bob@example.com", "Bob")
	carol := env.register(t, "carol@example.com", "Carol")
	outsider := env.register(t, "dev@example.com", "Dev")
	groupID := env.newGroup(t, owner)

	resp, err := env.groups.AddMember(ctx, authed(owner, &api.AddMemberRequest{GroupId: groupID, Email: " BOB@example.com"}))
	require.NoError(t, err)
	assert.True(t, resp.Msg.Added)
	assert.Equal(t, bob.ID, resp.Msg.Member.UserId)
	assert.Equal(t, "member", resp.Msg.Member.Role)

	// Any member may invite.
	resp, err = env.groups.AddMember(ctx, authed(bob, &api.AddMemberRequest{GroupId: groupID, UserId: carol.ID}))
	require.NoError(t, err)
	assert.True(t, resp.Msg.Added)

	resp, err = env.groups.AddMember(ctx, authed(owner, &api.AddMemberRequest{GroupId: groupID, UserId: carol.ID}))
	require.NoError(t, err)
	assert.False(t, resp.Msg.Added, "adding an existing member is a no-op")

	_, err = env.groups.AddMember(ctx, authed(owner, &api.AddMemberRequest{GroupId: groupID, Email: "ghost@example.com"}))
	requireCode(t, connect.CodeNotFound, err)

	_, err = env.groups.AddMember(ctx, authed(owner, &api.AddMemberRequest{GroupId: groupID}))
	requireCode(t, connect.CodeInvalidArgument, err)

	_, err = env.groups.AddMember(ctx, authed(outsider, &api.AddMemberRequest{GroupId: groupID, UserId: outsider.ID}))
	requireCode(t, connect.CodePermissionDenied, err)

	members, err := env.groups.ListMembers(ctx, authed(carol, &api.ListMembersRequest{GroupId: groupID}))
	require.NoError(t, err)
	assert.Len(t, members.Msg.Members, 3)

	_, err = env.groups.ListMembers(ctx, authed(outsider, &api.ListMembersRequest{GroupId: groupID}))
	requireCode(t, connect.CodePermissionDenied, err)
}

func TestMemberManagement(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	owner := env.register(t, "asha@example.com", "Asha")
	bob := env.register(t, "bob@example.com", "Bob")
	carol := env.register(t, "carol@example.com", "Carol")
	groupID := env.newGroup(t, owner, bob, carol)

	_, err := env.groups.UpdateMemberRole(ctx, authed(bob, &api.UpdateMemberRoleRequest{GroupId: groupID, UserId: carol.ID, Role: "admin"}))
	requireCode(t, connect.CodePermissionDenied, err)

	_, err = env.groups.UpdateMemberRole(ctx, authed(owner, &api.UpdateMemberRoleRequest{GroupId: groupID, UserId: bob.ID, Role: "superuser"}))
	requireCode(t, connect.CodeInvalidArgument, err)

	resp, err := env.groups.UpdateMemberRole(ctx, authed(owner, &api.UpdateMemberRoleRequest{GroupId: groupID, UserId: bob.ID, Role: "admin"}))
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Msg.Member.Role)

	_, err = env.groups.UpdateMemberRole(ctx, authed(bob, &api.UpdateMemberRoleRequest{GroupId: groupID, UserId: owner.ID, Role: "member"}))
	requireCode(t, connect.CodeFailedPrecondition, err)

	_, err = env.groups.RemoveMember(ctx, authed(bob, &api.RemoveMemberRequest{GroupId: groupID, UserId: owner.ID}))
	requireCode(t, connect.CodeFailedPrecondition, err)

	_, err = env.groups.RemoveMember(ctx, authed(carol, &api.RemoveMemberRequest{GroupId: groupID, UserId: bob.ID}))
	requireCode(t, connect.CodePermissionDenied, err)

	_, err = env.groups.RemoveMember(ctx, authed(bob, &api.RemoveMemberRequest{GroupId: groupID, UserId: carol.ID}))
	require.NoError(t, err)

	_, err = env.groups.ListMembers(ctx, authed(carol, &api.ListMembersRequest{GroupId: groupID}))
	requireCode(t, connect.CodePermissionDenied, err)

	_, err = env.groups.LeaveGroup(ctx, authed(owner, &api.LeaveGroupRequest{GroupId: groupID}))
	requireCode(t, connect.CodeFailedPrecondition, err)

	_, err = env.groups.LeaveGroup(ctx, authed(bob, &api.LeaveGroupRequest{GroupId: groupID}))
	require.NoError(t, err)

	members, err := env.groups.ListMembers(ctx, authed(owner, &api.ListMembersRequest{GroupId: groupID}))
	require.NoError(t, err)
	require.Len(t, members.Msg.Members, 1)
	assert.Equal(t, owner.ID, members.Msg.Members[0].UserId)
}

func TestRenameAndDeleteGroup(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	owner := env.register(t, "asha@example.com", "Asha")
	bob := env.register(t, "bob@example.com", "Bob")
	groupID := env.newGroup(t, owner, bob)

	_, err := env.groups.RenameGroup(ctx, authed(bob, &api.RenameGroupRequest{GroupId: groupID, Name: "Bob's"}))
	requireCode(t, connect.CodePermissionDenied, err)

	resp, err := env.groups.RenameGroup(ctx, authed(owner, &api.RenameGroupRequest{GroupId: groupID, Name: "Goa Trip"}))
	require.NoError(t, err)
	assert.Equal(t, "Goa Trip", resp.Msg.Group.Name)

	_, err = env.expenses.CreateExpense(ctx, authed(owner, &api.CreateExpenseRequest{
		GroupId: groupID, Amount: 40, Description: "Snacks",
	}))
	require.NoError(t, err)

	_, err = env.groups.DeleteGroup(ctx, authed(bob, &api.DeleteGroupRequest{GroupId: groupID}))
	requireCode(t, connect.CodePermissionDenied, err)

	_, err = env.groups.DeleteGroup(ctx, authed(owner, &api.DeleteGroupRequest{GroupId: groupID}))
	require.NoError(t, err)

	_, err = env.groups.GetGroupBalances(ctx, authed(owner, &api.GetGroupBalancesRequest{GroupId: groupID}))
	requireCode(t, connect.CodeNotFound, err)

	list, err := env.groups.ListGroups(ctx, authed(bob, &api.ListGroupsRequest{}))
	require.NoError(t, err)
	assert.Empty(t, list.Msg.Groups)
}

func TestGetGroupBalances(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com", "Alice")
	bob := env.register(t, "bob@example.com", "Bob")
	carol := env.register(t, "carol@example.com", "Carol")
	groupID := env.newGroup(t, alice, bob, carol)

	empty := env.balances(t, alice, groupID)
	assert.Empty(t, empty.Balances)
	assert.Empty(t, empty.Suggestions)

	// Alice pays 90 split equally three ways.
	_, err := env.expenses.CreateExpense(ctx, authed(alice, &api.CreateExpenseRequest{
		GroupId: groupID, Amount: 90, Description: "Groceries",
	}))
	require.NoError(t, err)

	got := env.balances(t, bob, groupID)
	require.Len(t, got.Balances, 3)
	assert.Equal(t, alice.ID, got.Balances[0].UserId, "payer appears first")
	assert.Equal(t, "Alice", got.Balances[0].DisplayName)
	assert.InDelta(t, 60.0, got.Balances[0].Balance, 0.001)
	assert.InDelta(t, 90.0, got.Balances[0].Paid, 0.001)
	assert.InDelta(t, 30.0, got.Balances[0].Owed, 0.001)

	b, _ := balanceOf(got, bob.ID)
	assert.InDelta(t, -30.0, b, 0.001)
	c, _ := balanceOf(got, carol.ID)
	assert.InDelta(t, -30.0, c, 0.001)

	require.Len(t, got.Suggestions, 2)
	for _, s := range got.Suggestions {
		assert.Equal(t, alice.ID, s.ToUserId)
		assert.Equal(t, "Alice", s.ToName)
		assert.InDelta(t, 30.0, s.Amount, 0.001)
	}
	assert.Equal(t, bob.ID, got.Suggestions[0].FromUserId, "ties keep first-appearance order")
	assert.Equal(t, carol.ID, got.Suggestions[1].FromUserId)

	// Bob pays Alice back.
	_, err = env.expenses.CreateSettlement(ctx, authed(bob, &api.CreateSettlementRequest{
		GroupId: groupID, ToUserId: alice.ID, Amount: 30,
	}))
	require.NoError(t, err)

	got = env.balances(t, carol, groupID)
	b, _ = balanceOf(got, bob.ID)
	assert.InDelta(t, 0.0, b, 0.001)
	a, _ := balanceOf(got, alice.ID)
	assert.InDelta(t, 30.0, a, 0.001)
	require.Len(t, got.Suggestions, 1)
	assert.Equal(t, carol.ID, got.Suggestions[0].FromUserId)
	assert.Equal(t, alice.ID, got.Suggestions[0].ToUserId)
	assert.InDelta(t, 30.0, got.Suggestions[0].Amount, 0.001)

	// Carol leaves; her debt stays on the books under her name.
	_, err = env.groups.LeaveGroup(ctx, authed(carol, &api.LeaveGroupRequest{GroupId: groupID}))
	require.NoError(t, err)

	got = env.balances(t, alice, groupID)
	require.Len(t, got.Balances, 3)
	for _, bal := range got.Balances {
		if bal.UserId == carol.ID {
			assert.Equal(t, "Carol", bal.DisplayName)
			assert.InDelta(t, -30.0, bal.Balance, 0.001)
		}
	}

	_, err = env.groups.GetGroupBalances(ctx, authed(carol, &api.GetGroupBalancesRequest{GroupId: groupID}))
	requireCode(t, connect.CodePermissionDenied, err)

	_, err = env.groups.GetGroupBalances(ctx, authed(alice, &api.GetGroupBalancesRequest{}))
	requireCode(t, connect.CodeInvalidArgument, err)
}

func TestGetGroupBalancesSettledGroup(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com", "Alice")
	bob := env.register(t, "bob@example.com", "Bob")
	groupID := env.newGroup(t, alice, bob)

	_, err := env.expenses.CreateExpense(ctx, authed(alice, &api.CreateExpenseRequest{
		GroupId: groupID, Amount: 50, Description: "Cab",
	}))
	require.NoError(t, err)
	_, err = env.expenses.CreateExpense(ctx, authed(bob, &api.CreateExpenseRequest{
		GroupId: groupID, Amount: 50, Description: "Dinner",
	}))
	require.NoError(t, err)

	got := env.balances(t, alice, groupID)
	require.Len(t, got.Balances, 2)
	for _, b := range got.Balances {
		assert.InDelta(t, 0.0, b.Balance, 0.001)
	}
	assert.Empty(t, got.Suggestions)
}
