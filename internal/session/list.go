package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SartoDev/auto-linked/internal/models"
)

// HomeTitle is the label of the synthetic entry that always links to the
// new-conversation landing view.
const HomeTitle = "Auto Linked"

// Item is one session list row. The synthetic home entry has an empty ID.
type Item struct {
	ID       string
	Title    string
	UserID   string
	Renaming bool
}

// Home reports whether the item is the synthetic new-conversation entry.
func (i Item) Home() bool { return i.ID == "" }

// List manages the user's conversations: listing, inline rename, two-step
// delete and navigation. Every reload fully replaces the in-memory list from
// a fresh fetch so local and remote state cannot drift.
//
// Mutations run on their caller's goroutine while the UI reads Items and
// PendingDelete from its own; mu covers the rows and the delete intent.
type List struct {
	gw     Gateway
	logger *slog.Logger
	notify Notifier

	userID string

	mu            sync.Mutex
	items         []Item
	pendingDelete string

	// Navigate switches the view to a conversation; the empty id is the
	// home/landing view. CurrentChat reports which conversation is open.
	Navigate    func(chatID string)
	CurrentChat func() string
}

// NewList creates a session list controller for the given owner.
func NewList(gw Gateway, userID string, logger *slog.Logger) *List {
	if logger == nil {
		logger = slog.Default()
	}
	return &List{
		gw:     gw,
		logger: logger,
		notify: noopNotifier{},
		userID: userID,
	}
}

// SetNotifier routes user-visible notifications to n.
func (l *List) SetNotifier(n Notifier) {
	if n != nil {
		l.notify = n
	}
}

// Items returns a snapshot of the current rows, home entry first.
func (l *List) Items() []Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]Item, len(l.items))
	copy(items, l.items)
	return items
}

// Refresh fetches the owner's conversations and rebuilds the list, with the
// synthetic home entry prepended. The previous list is discarded wholesale.
func (l *List) Refresh(ctx context.Context) error {
	chats, err := l.gw.ListChatsByUser(ctx, l.userID)
	if err != nil {
		return fmt.Errorf("refresh session list: %w", err)
	}

	items := make([]Item, 0, len(chats)+1)
	items = append(items, Item{Title: HomeTitle, UserID: l.userID})
	for _, chat := range chats {
		items = append(items, Item{ID: chat.ID, Title: chat.Name, UserID: chat.UserID})
	}
	l.mu.Lock()
	l.items = items
	l.mu.Unlock()
	return nil
}

// Select navigates to the given conversation (or home for the empty id).
func (l *List) Select(chatID string) {
	if l.Navigate != nil {
		l.Navigate(chatID)
	}
}

// BeginRename switches a row into its editable state. The home entry cannot
// be renamed.
func (l *List) BeginRename(chatID string) {
	if chatID == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.items[i].ID == chatID {
			l.items[i].Renaming = true
			return
		}
	}
}

// SetTitle updates the edited title of a renaming row.
func (l *List) SetTitle(chatID, title string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.items[i].ID == chatID {
			l.items[i].Title = title
			return
		}
	}
}

// CommitRename issues the rename through the gateway and fully reloads the
// list, clearing the row's editing state. There is no optimistic local-only
// rename: a failed commit leaves the remote list authoritative.
func (l *List) CommitRename(ctx context.Context, chatID string) error {
	var item Item
	found := false
	l.mu.Lock()
	for i := range l.items {
		if l.items[i].ID == chatID {
			item = l.items[i]
			found = true
			break
		}
	}
	l.mu.Unlock()
	if !found {
		return fmt.Errorf("rename: unknown chat %q", chatID)
	}

	_, err := l.gw.RenameChat(ctx, chatID, models.NewChat(item.UserID, item.Title))
	if err != nil {
		l.logger.Error("rename failed", "chat_id", chatID, "error", err)
		l.mu.Lock()
		for i := range l.items {
			if l.items[i].ID == chatID {
				l.items[i].Renaming = false
				break
			}
		}
		l.mu.Unlock()
		l.notify.Error("Failed to rename chat.")
		return fmt.Errorf("rename chat: %w", err)
	}

	return l.Refresh(ctx)
}

// RequestDelete records delete intent for a conversation. The delete call is
// only issued after an explicit ConfirmDelete.
func (l *List) RequestDelete(chatID string) {
	if chatID == "" {
		return
	}
	l.mu.Lock()
	l.pendingDelete = chatID
	l.mu.Unlock()
}

// PendingDelete returns the conversation awaiting confirmation, if any.
func (l *List) PendingDelete() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pendingDelete, l.pendingDelete != ""
}

// CancelDelete clears a pending delete intent.
func (l *List) CancelDelete() {
	l.mu.Lock()
	l.pendingDelete = ""
	l.mu.Unlock()
}

// ConfirmDelete issues the pending delete. On failure the list is left
// untouched and no navigation happens. Deleting the open conversation
// navigates to the home view; otherwise the list is reloaded.
func (l *List) ConfirmDelete(ctx context.Context) error {
	l.mu.Lock()
	chatID := l.pendingDelete
	l.pendingDelete = ""
	l.mu.Unlock()
	if chatID == "" {
		return nil
	}

	confirmation, err := l.gw.DeleteChat(ctx, chatID)
	if err != nil {
		l.logger.Error("delete failed", "chat_id", chatID, "error", err)
		l.notify.Error("Failed to delete chat.")
		return fmt.Errorf("delete chat: %w", err)
	}
	l.notify.Success(confirmation)

	if l.CurrentChat != nil && l.CurrentChat() == chatID {
		if l.Navigate != nil {
			l.Navigate("")
		}
		return nil
	}
	return l.Refresh(ctx)
}
