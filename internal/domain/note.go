package domain

import "time"

// Note is a user-owned text record. Notes are created and deleted but never
// edited in place, so Timestamp doubles as the creation time.
type Note struct {
	ID        string `json:"id"`
	OwnerID   string `json:"uid"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// NewNote builds a note stamped with now. The id is assigned by the
// document store when the note is written.
func NewNote(ownerID, title, content string, now time.Time) *Note {
	return &Note{
		OwnerID:   ownerID,
		Title:     title,
		Content:   content,
		Timestamp: FormatTimestamp(now),
	}
}

// Document returns the notes-collection representation of the note.
// The id is not part of the document body.
func (n *Note) Document() map[string]any {
	return map[string]any{
		FieldUID:       n.OwnerID,
		FieldTitle:     n.Title,
		FieldContent:   n.Content,
		FieldTimestamp: n.Timestamp,
	}
}

// NoteFromDocument merges a store-assigned id with the stored fields.
// Fields that are absent or not strings are left empty.
func NoteFromDocument(id string, data map[string]any) Note {
	note := Note{ID: id}
	note.OwnerID, _ = data[FieldUID].(string)
	note.Title, _ = data[FieldTitle].(string)
	note.Content, _ = data[FieldContent].(string)
	note.Timestamp, _ = data[FieldTimestamp].(string)
	return note
}
