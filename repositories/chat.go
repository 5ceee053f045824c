package repositories

import (
	"chat-relay/errors"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type IChatRepository interface {
	CreateChat(chat Chat) error
	GetChat(id string) (Chat, error)
	UpdateChat(chat Chat) error
	FindDirectChat(userA, userB string) (Chat, bool, error)
	ListChatsForUser(userID string) ([]Chat, error)
}

// ChatRepository stores chat documents under "chat:{id}". Membership queries
// are prefix scans; the dataset is small enough that a secondary index would
// buy nothing here.
type ChatRepository struct {
	db *badger.DB
}

func NewChatRepository(db *badger.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Chat mirrors the original chat document: a name, a group flag, the member
// set, the admin for groups, and a pointer to the latest message.
type Chat struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	IsGroup         bool      `json:"is_group"`
	Users           []string  `json:"users"`
	GroupAdmin      string    `json:"group_admin,omitempty"`
	LatestMessageID string    `json:"latest_message_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// HasMember reports whether a user belongs to the chat.
func (c Chat) HasMember(userID string) bool {
	return lo.Contains(c.Users, userID)
}

func chatKey(id string) []byte {
	return []byte("chat:" + id)
}

func (r *ChatRepository) CreateChat(chat Chat) error {
	data, err := json.Marshal(chat)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(chatKey(chat.ID), data)
	})
}

func (r *ChatRepository) GetChat(id string) (Chat, error) {
	var chat Chat
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(chatKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &chat)
		})
	})
	if err != nil {
		return Chat{}, fmt.Errorf("%w: chat %s", errors.ErrNotFound, id)
	}
	return chat, nil
}

func (r *ChatRepository) UpdateChat(chat Chat) error {
	chat.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(chat)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(chatKey(chat.ID), data)
	})
}

// FindDirectChat looks for an existing one-to-one chat between two users.
func (r *ChatRepository) FindDirectChat(userA, userB string) (Chat, bool, error) {
	chats, err := r.scan(func(c Chat) bool {
		return !c.IsGroup && c.HasMember(userA) && c.HasMember(userB)
	})
	if err != nil {
		return Chat{}, false, err
	}
	if len(chats) == 0 {
		return Chat{}, false, nil
	}
	return chats[0], true, nil
}

// ListChatsForUser returns every chat the user belongs to, most recently
// active first.
func (r *ChatRepository) ListChatsForUser(userID string) ([]Chat, error) {
	chats, err := r.scan(func(c Chat) bool {
		return c.HasMember(userID)
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(chats, func(i, j int) bool {
		return chats[i].UpdatedAt.After(chats[j].UpdatedAt)
	})
	return chats, nil
}

func (r *ChatRepository) scan(keep func(Chat) bool) ([]Chat, error) {
	var chats []Chat
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("chat:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var chat Chat
				if err := json.Unmarshal(val, &chat); err != nil {
					return err
				}
				if keep(chat) {
					chats = append(chats, chat)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return chats, err
}
