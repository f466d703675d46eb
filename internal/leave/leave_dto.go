package leave

import "time"

type CreateLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=vacation sick personal"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"required,min=10"`
}

type ApproveLeaveRequest struct {
	ReviewerNotes *string `json:"reviewer_notes"`
}

type RejectLeaveRequest struct {
	ReviewerNotes string `json:"reviewer_notes" binding:"required"`
}

type EmployeeRef struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LeaveResponse struct {
	ID            string       `json:"id"`
	EmployeeID    string       `json:"employee_id"`
	LeaveType     string       `json:"leave_type"`
	StartDate     string       `json:"start_date"`
	EndDate       string       `json:"end_date"`
	DurationDays  int          `json:"duration_days"`
	Reason        string       `json:"reason"`
	Status        string       `json:"status"`
	ReviewerNotes *string      `json:"reviewer_notes,omitempty"`
	DecidedBy     *string      `json:"decided_by,omitempty"`
	DecidedAt     *string      `json:"decided_at,omitempty"`
	Employee      *EmployeeRef `json:"employee,omitempty"`
	CreatedAt     string       `json:"created_at"`
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:            l.ID.String(),
		EmployeeID:    l.EmployeeID.String(),
		LeaveType:     l.LeaveType,
		StartDate:     l.StartDate.Format("2006-01-02"),
		EndDate:       l.EndDate.Format("2006-01-02"),
		DurationDays:  l.TotalDays,
		Reason:        l.Reason,
		Status:        l.Status,
		ReviewerNotes: l.ReviewerNotes,
		CreatedAt:     l.CreatedAt.Format(time.RFC3339),
	}
	if l.DecidedBy != nil {
		v := l.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	if l.Employee != nil {
		resp.Employee = &EmployeeRef{
			FirstName: l.Employee.FirstName,
			LastName:  l.Employee.LastName,
		}
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
