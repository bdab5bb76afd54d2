package programs

import "github.com/google/uuid"

// Role is the set of user roles known to the workflow.
type Role string

const (
	// RoleUser is the EXCO member who owns, drafts and submits programs.
	RoleUser Role = "user"
	// RoleFinance reviews submitted programs: query, approve, reject,
	// deduct budget.
	RoleFinance Role = "finance"
	// RoleFinanceMMK has all finance powers plus the document-acceptance
	// fast path.
	RoleFinanceMMK Role = "finance_mmk"
	// RoleAdmin has view-only elevated scope and manages users.
	RoleAdmin Role = "admin"
)

var validRoles = map[Role]bool{
	RoleUser:       true,
	RoleFinance:    true,
	RoleFinanceMMK: true,
	RoleAdmin:      true,
}

// IsValid returns true for a known role.
func (r Role) IsValid() bool { return validRoles[r] }

// Action is a workflow or access action requested against a program.
type Action string

const (
	ActionCreate         Action = "create"
	ActionEdit           Action = "edit"
	ActionDelete         Action = "delete"
	ActionSubmit         Action = "submit"
	ActionQuery          Action = "query"
	ActionAnswerQuery    Action = "answer_query"
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
	ActionDeductBudget   Action = "deduct_budget"
	ActionAcceptDocument Action = "accept_document"
	ActionAttachDocument Action = "attach_document"
	ActionViewAll        Action = "view_all"
	ActionViewOwn        Action = "view_own"
)

// Actions lists every action, for exhaustive iteration in tests.
var Actions = []Action{
	ActionCreate, ActionEdit, ActionDelete, ActionSubmit,
	ActionQuery, ActionAnswerQuery, ActionApprove, ActionReject,
	ActionDeductBudget, ActionAcceptDocument, ActionAttachDocument,
	ActionViewAll, ActionViewOwn,
}

// Actor is the identity the surrounding session layer supplies. The
// workflow trusts it as given.
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
	Name string    `json:"name"`
}

// permission is one cell of the closed role-permission table. The table
// answers role and ownership only; whether the program is in a legal
// status for the action is the transition table's question. Keeping the
// two apart keeps the failure kinds distinct: Forbidden means wrong
// role or owner, IllegalTransition means wrong state.
type permission struct {
	// ownerOnly requires the actor to be the program's owner.
	ownerOnly bool
}

// permissionTable is the closed authorization table. Any role/action
// combination absent from it is denied; deny-by-default is mandatory.
var permissionTable = map[Role]map[Action]permission{
	RoleUser: {
		ActionCreate:         {},
		ActionEdit:           {ownerOnly: true},
		ActionDelete:         {ownerOnly: true},
		ActionSubmit:         {ownerOnly: true},
		ActionAnswerQuery:    {ownerOnly: true},
		ActionAttachDocument: {ownerOnly: true},
		ActionViewOwn:        {ownerOnly: true},
	},
	RoleFinance: {
		ActionQuery:          {},
		ActionApprove:        {},
		ActionReject:         {},
		ActionDeductBudget:   {},
		ActionAttachDocument: {},
		ActionViewAll:        {},
	},
	RoleFinanceMMK: {
		ActionQuery:          {},
		ActionApprove:        {},
		ActionReject:         {},
		ActionDeductBudget:   {},
		ActionAcceptDocument: {},
		ActionAttachDocument: {},
		ActionViewAll:        {},
	},
	RoleAdmin: {
		ActionViewAll: {},
	},
}

// CanPerform decides whether the actor may invoke the action on the
// program. program may be nil only for ActionCreate. The decision is
// pure authorization over role and ownership; status legality is the
// engine's concern.
func CanPerform(actor Actor, action Action, program *Program) bool {
	rules, ok := permissionTable[actor.Role]
	if !ok {
		return false
	}
	rule, ok := rules[action]
	if !ok {
		return false
	}
	if action == ActionCreate {
		return true
	}
	if program == nil {
		return false
	}
	if rule.ownerOnly && program.UserID != actor.ID {
		return false
	}
	return true
}

// CanView resolves read access: elevated roles see everything, owners see
// their own programs.
func CanView(actor Actor, program *Program) bool {
	if CanPerform(actor, ActionViewAll, program) {
		return true
	}
	return CanPerform(actor, ActionViewOwn, program)
}

func statusIn(s Status, set []Status) bool {
	for _, candidate := range set {
		if s == candidate {
			return true
		}
	}
	return false
}
