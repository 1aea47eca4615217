package api

type Group struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	CreatedBy string `json:"created_by"`
	OwnerName string `json:"owner_name,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

type Member struct {
	UserId      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	JoinedAt    int64  `json:"joined_at"`
}

type CreateGroupRequest struct {
	Name string `json:"name"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type RenameGroupRequest struct {
	GroupId string `json:"group_id"`
	Name    string `json:"name"`
}

type RenameGroupResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupId string `json:"group_id"`
}

type DeleteGroupResponse struct{}

// AddMemberRequest identifies the new member by UserId or, when UserId is
// empty, by Email.
type AddMemberRequest struct {
	GroupId string `json:"group_id"`
	UserId  string `json:"user_id,omitempty"`
	Email   string `json:"email,omitempty"`
}

type AddMemberResponse struct {
	Member *Member `json:"member"`
	// Added is false when the user was already a member.
	Added bool `json:"added"`
}

type ListMembersRequest struct {
	GroupId string `json:"group_id"`
}

type ListMembersResponse struct {
	Members []*Member `json:"members"`
}

type UpdateMemberRoleRequest struct {
	GroupId string `json:"group_id"`
	UserId  string `json:"user_id"`
	Role    string `json:"role"`
}

type UpdateMemberRoleResponse struct {
	Member *Member `json:"member"`
}

type RemoveMemberRequest struct {
	GroupId string `json:"group_id"`
	UserId  string `json:"user_id"`
}

type RemoveMemberResponse struct{}

type LeaveGroupRequest struct {
	GroupId string `json:"group_id"`
}

type LeaveGroupResponse struct{}

type GetGroupBalancesRequest struct {
	GroupId string `json:"group_id"`
}

// MemberBalance is a member's net position. Positive means the group owes
// the member.
type MemberBalance struct {
	UserId      string  `json:"user_id"`
	DisplayName string  `json:"display_name,omitempty"`
	Balance     float64 `json:"balance"`
	Paid        float64 `json:"paid"`
	Owed        float64 `json:"owed"`
	SettledOut  float64 `json:"settled_out"`
	SettledIn   float64 `json:"settled_in"`
}

// SettlementSuggestion is a proposed payment from a debtor to a creditor.
type SettlementSuggestion struct {
	FromUserId string  `json:"from_user_id"`
	FromName   string  `json:"from_name,omitempty"`
	ToUserId   string  `json:"to_user_id"`
	ToName     string  `json:"to_name,omitempty"`
	Amount     float64 `json:"amount"`
}

type GetGroupBalancesResponse struct {
	Balances    []*MemberBalance        `json:"balances"`
	Suggestions []*SettlementSuggestion `json:"suggestions"`
}
