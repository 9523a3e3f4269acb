package api

import "github.com/phrazzld/notes-api/internal/domain"

// Request bodies. The account id of /edit and /delete comes from the path.

// EditBody defines the payload for PUT /edit/{uid}. All fields are optional.
type EditBody struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// DeleteBody defines the payload for DELETE /delete/{uid}.
type DeleteBody struct {
	Password string `json:"password"`
}

// UserResponse is the account summary returned by registration.
type UserResponse struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// RegisterResponse defines the successful response for POST /register.
type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// SaveNoteResponse defines the successful response for POST /notes/save.
type SaveNoteResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// NoteResponse is one element of the GET /notes/{uid} array.
type NoteResponse struct {
	ID        string `json:"id"`
	UID       string `json:"uid"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

func userToResponse(a *domain.Account) UserResponse {
	return UserResponse{UID: a.ID, Email: a.Email, Name: a.DisplayName}
}

func notesToResponse(notes []domain.Note) []NoteResponse {
	out := make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, NoteResponse{
			ID:        n.ID,
			UID:       n.OwnerID,
			Title:     n.Title,
			Content:   n.Content,
			Timestamp: n.Timestamp,
		})
	}
	return out
}
