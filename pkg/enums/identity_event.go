package enums

// IdentityEventType names the identity-provider lifecycle events the
// webhook endpoint reacts to. Unknown types are acknowledged and ignored.
type IdentityEventType string

const (
	IdentityEventUserCreated IdentityEventType = "user.created"
	IdentityEventUserUpdated IdentityEventType = "user.updated"
	IdentityEventUserDeleted IdentityEventType = "user.deleted"
)

func (t IdentityEventType) IsValid() bool {
	switch t {
	case IdentityEventUserCreated, IdentityEventUserUpdated, IdentityEventUserDeleted:
		return true
	}
	return false
}
