package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/notes-api/internal/domain"
	"github.com/phrazzld/notes-api/internal/platform/logger"
	"github.com/phrazzld/notes-api/internal/redact"
	"github.com/phrazzld/notes-api/internal/store"
)

// Client-facing messages.
const (
	MsgRegisterFieldsRequired = "Name, email, and password are required"
	MsgUserIDRequired         = "User ID is required"
	MsgDeleteFieldsRequired   = "User ID and password are required"
	MsgNoteFieldsRequired     = "User ID, title, and content are required"
	MsgUserNotFound           = "User not found"
	MsgCredentialMismatch     = "UID and password do not match"
	MsgEmailExistsInIdentity  = "Email already exists in authentication. Give different email."
	MsgEmailExistsInUsers     = "Email already exists in users collection. Give different email."
)

// Operation names used in errors and logs.
const (
	OpRegister  = "register"
	OpEdit      = "edit"
	OpDelete    = "delete"
	OpSaveNote  = "save_note"
	OpListNotes = "list_notes"
)

// RegisterRequest holds the fields needed to create an account.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name"     validate:"required"`
}

// EditRequest holds the account id and the optional fields to change.
// A nil or empty optional field is treated as not supplied.
type EditRequest struct {
	UID      string  `json:"-"                  validate:"required"`
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// DeleteRequest holds the account id and the password confirming deletion.
type DeleteRequest struct {
	UID      string `json:"-"        validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SaveNoteRequest holds the owner and content of a new note.
type SaveNoteRequest struct {
	UID     string `json:"uid"     validate:"required"`
	Title   string `json:"title"   validate:"required"`
	Content string `json:"content" validate:"required"`
}

// ListNotesRequest identifies the owner whose notes are listed.
type ListNotesRequest struct {
	UID string `json:"-" validate:"required"`
}

// AccountService orchestrates the identity backend and the document store.
// It holds no state of its own between calls. Multi-step operations are not
// transactional: a failure part way through leaves earlier steps applied.
type AccountService interface {
	// Register creates the identity account, then writes its users record.
	Register(ctx context.Context, req RegisterRequest) (*domain.Account, error)

	// Edit updates the supplied fields after checking email uniqueness.
	Edit(ctx context.Context, req EditRequest) error

	// Delete verifies the password, then removes the account, its users
	// record and every note it owns.
	Delete(ctx context.Context, req DeleteRequest) error

	// SaveNote stores a note for an existing account with a server-assigned timestamp.
	SaveNote(ctx context.Context, req SaveNoteRequest) (*domain.Note, error)

	// ListNotes returns the owner's notes in the order the document store
	// yields them. No order is guaranteed.
	ListNotes(ctx context.Context, req ListNotesRequest) ([]domain.Note, error)
}

// Option configures an AccountService.
type Option func(*accountServiceImpl)

// WithClock replaces time.Now as the source of createdAt and note timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *accountServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

type accountServiceImpl struct {
	accounts  store.AccountStore
	documents store.DocumentStore
	validate  *validator.Validate
	now       func() time.Time
	logger    *slog.Logger
}

// NewAccountService creates an AccountService over the given backends.
func NewAccountService(
	accounts store.AccountStore,
	documents store.DocumentStore,
	log *slog.Logger,
	opts ...Option,
) AccountService {
	if accounts == nil || documents == nil {
		panic("accounts and documents cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &accountServiceImpl{
		accounts:  accounts,
		documents: documents,
		validate:  validator.New(),
		now:       time.Now,
		logger:    log.With(slog.String("component", "account_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register implements AccountService.Register.
func (s *accountServiceImpl) Register(
	ctx context.Context,
	req RegisterRequest,
) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("op", OpRegister))

	if err := s.validate.Struct(req); err != nil {
		return nil, newValidationError(OpRegister, MsgRegisterFieldsRequired)
	}

	account, err := s.accounts.CreateAccount(ctx, req.Email, req.Password)
	if err != nil {
		log.Debug("identity backend rejected account", redact.Attr(err))
		return nil, newCollaboratorError(OpRegister, err)
	}
	account.DisplayName = req.Name
	account.CreatedAt = s.now().UTC()

	// No compensation: if this write fails the identity account stays behind.
	if err := s.documents.Set(ctx, domain.UsersCollection, account.ID, account.Document()); err != nil {
		log.Error("failed to write users record after creating account",
			slog.String("account_id", account.ID),
			redact.Attr(err))
		return nil, newCollaboratorError(OpRegister, err)
	}

	log.Info("account registered", slog.String("account_id", account.ID))
	return account, nil
}

// Edit implements AccountService.Edit.
func (s *accountServiceImpl) Edit(ctx context.Context, req EditRequest) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("op", OpEdit),
		slog.String("account_id", req.UID))

	if err := s.validate.Struct(req); err != nil {
		return newValidationError(OpEdit, MsgUserIDRequired)
	}

	name, hasName := supplied(req.Name)
	email, hasEmail := supplied(req.Email)
	password, hasPassword := supplied(req.Password)
	if hasEmail {
		email = domain.NormalizeEmail(email)
	}

	if hasEmail {
		if err := s.checkEmailAvailable(ctx, req.UID, email); err != nil {
			return err
		}
	}

	if hasEmail || hasPassword {
		var update store.AccountUpdate
		if hasEmail {
			update.Email = &email
		}
		if hasPassword {
			update.Password = &password
		}
		if hasName {
			update.DisplayName = &name
		}
		if err := s.accounts.UpdateAccount(ctx, req.UID, update); err != nil {
			log.Debug("identity backend rejected update", redact.Attr(err))
			return newCollaboratorError(OpEdit, err)
		}
	}

	fields := map[string]any{}
	if hasName {
		fields[domain.FieldName] = name
	}
	if hasEmail {
		fields[domain.FieldEmail] = email
	}
	if err := s.documents.Update(ctx, domain.UsersCollection, req.UID, fields); err != nil {
		log.Debug("document store rejected update", redact.Attr(err))
		return newCollaboratorError(OpEdit, err)
	}

	log.Info("account updated",
		slog.Bool("name", hasName),
		slog.Bool("email", hasEmail),
		slog.Bool("password", hasPassword))
	return nil
}

// checkEmailAvailable scans both the identity backend and the users
// collection for another account holding email.
func (s *accountServiceImpl) checkEmailAvailable(ctx context.Context, uid, email string) error {
	accounts, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		return newCollaboratorError(OpEdit, err)
	}
	for _, a := range accounts {
		if domain.NormalizeEmail(a.Email) == email && a.ID != uid {
			return newConflictError(OpEdit, MsgEmailExistsInIdentity)
		}
	}

	docs, err := s.documents.Where(ctx, domain.UsersCollection, domain.FieldEmail, email)
	if err != nil {
		return newCollaboratorError(OpEdit, err)
	}
	for _, d := range docs {
		if d.ID != uid {
			return newConflictError(OpEdit, MsgEmailExistsInUsers)
		}
	}
	return nil
}

// Delete implements AccountService.Delete.
func (s *accountServiceImpl) Delete(ctx context.Context, req DeleteRequest) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("op", OpDelete),
		slog.String("account_id", req.UID))

	if err := s.validate.Struct(req); err != nil {
		return newValidationError(OpDelete, MsgDeleteFieldsRequired)
	}

	userDoc, err := s.documents.Get(ctx, domain.UsersCollection, req.UID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return newNotFoundError(OpDelete, MsgUserNotFound, err)
		}
		return newCollaboratorError(OpDelete, err)
	}
	account, err := domain.AccountFromDocument(userDoc.ID, userDoc.Data)
	if err != nil {
		return newCollaboratorError(OpDelete, err)
	}

	cred, err := s.accounts.VerifyCredentials(ctx, account.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			log.Debug("credential verification failed")
			return newUnauthorizedError(OpDelete, MsgCredentialMismatch, err)
		}
		return newCollaboratorError(OpDelete, err)
	}
	if cred.AccountID != req.UID {
		log.Warn("credentials belong to a different account")
		return newUnauthorizedError(OpDelete, MsgCredentialMismatch, nil)
	}

	// From here on nothing is rolled back if a later step fails.
	if err := s.accounts.DeleteAccount(ctx, req.UID); err != nil {
		return newCollaboratorError(OpDelete, err)
	}
	if err := s.documents.Delete(ctx, domain.UsersCollection, req.UID); err != nil {
		log.Error("identity account deleted but users record remains", redact.Attr(err))
		return newCollaboratorError(OpDelete, err)
	}

	notes, err := s.documents.Where(ctx, domain.NotesCollection, domain.FieldUID, req.UID)
	if err != nil {
		log.Error("failed to query notes of deleted account", redact.Attr(err))
		return newCollaboratorError(OpDelete, err)
	}
	for i, note := range notes {
		if err := s.documents.Delete(ctx, domain.NotesCollection, note.ID); err != nil {
			log.Error("note deletion stopped part way",
				slog.Int("deleted", i),
				slog.Int("total", len(notes)),
				redact.Attr(err))
			return newCollaboratorError(OpDelete, err)
		}
	}

	log.Info("account deleted", slog.Int("notes_deleted", len(notes)))
	return nil
}

// SaveNote implements AccountService.SaveNote.
func (s *accountServiceImpl) SaveNote(ctx context.Context, req SaveNoteRequest) (*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("op", OpSaveNote),
		slog.String("account_id", req.UID))

	if err := s.validate.Struct(req); err != nil {
		return nil, newValidationError(OpSaveNote, MsgNoteFieldsRequired)
	}

	if _, err := s.documents.Get(ctx, domain.UsersCollection, req.UID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newNotFoundError(OpSaveNote, MsgUserNotFound, err)
		}
		return nil, newCollaboratorError(OpSaveNote, err)
	}

	note := domain.NewNote(req.UID, req.Title, req.Content, s.now())
	id, err := s.documents.Add(ctx, domain.NotesCollection, note.Document())
	if err != nil {
		return nil, newCollaboratorError(OpSaveNote, err)
	}
	note.ID = id

	log.Info("note saved", slog.String("note_id", id))
	return note, nil
}

// ListNotes implements AccountService.ListNotes.
func (s *accountServiceImpl) ListNotes(ctx context.Context, req ListNotesRequest) ([]domain.Note, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, newValidationError(OpListNotes, MsgUserIDRequired)
	}

	docs, err := s.documents.Where(ctx, domain.NotesCollection, domain.FieldUID, req.UID)
	if err != nil {
		return nil, newCollaboratorError(OpListNotes, err)
	}

	notes := make([]domain.Note, 0, len(docs))
	for _, d := range docs {
		notes = append(notes, domain.NoteFromDocument(d.ID, d.Data))
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("notes listed",
		slog.String("account_id", req.UID),
		slog.Int("count", len(notes)))
	return notes, nil
}

func supplied(p *string) (string, bool) {
	if p == nil || *p == "" {
		return "", false
	}
	return *p, true
}
