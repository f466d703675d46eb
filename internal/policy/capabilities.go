package policy

// Capability names what a role may do; the frontend derives its menu from
// this set.
type Capability string

const (
	CapApplyLeave     Capability = "leave:apply"
	CapViewOwnLeaves  Capability = "leave:view-own"
	CapViewAllLeaves  Capability = "leave:view-all"
	CapReviewLeaves   Capability = "leave:review"
	CapCommentOnLeave Capability = "comment:create"
	CapManageUsers    Capability = "user:manage"
)

// Capabilities returns the capability set for a role. Review remains subject
// to CanReview per leave (the self-review exclusion is not expressible as a
// role-wide grant).
func Capabilities(role Role) []Capability {
	switch role {
	case RoleEmployee:
		return []Capability{CapApplyLeave, CapViewOwnLeaves, CapCommentOnLeave}
	case RoleManager:
		return []Capability{
			CapApplyLeave, CapViewOwnLeaves, CapViewAllLeaves,
			CapReviewLeaves, CapCommentOnLeave,
		}
	case RoleAdmin:
		return []Capability{
			CapApplyLeave, CapViewOwnLeaves, CapViewAllLeaves,
			CapReviewLeaves, CapCommentOnLeave, CapManageUsers,
		}
	default:
		return nil
	}
}
