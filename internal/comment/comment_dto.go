package comment

import "time"

type CreateCommentRequest struct {
	CommentText string `json:"comment_text" binding:"required"`
}

type UpdateCommentRequest struct {
	CommentText string `json:"comment_text" binding:"required"`
}

type AuthorRef struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type CommentResponse struct {
	ID          string     `json:"id"`
	LeaveID     string     `json:"leave_id"`
	UserID      string     `json:"user_id"`
	CommentText string     `json:"comment_text"`
	User        *AuthorRef `json:"user,omitempty"`
	CreatedAt   string     `json:"created_at"`
}

func mapToResponse(c Comment) CommentResponse {
	resp := CommentResponse{
		ID:          c.ID.String(),
		LeaveID:     c.LeaveID.String(),
		UserID:      c.UserID.String(),
		CommentText: c.CommentText,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
	if c.User != nil {
		resp.User = &AuthorRef{
			FirstName: c.User.FirstName,
			LastName:  c.User.LastName,
		}
	}
	return resp
}

func mapToListResponse(comments []Comment) []CommentResponse {
	resp := make([]CommentResponse, len(comments))
	for i, c := range comments {
		resp[i] = mapToResponse(c)
	}
	return resp
}
