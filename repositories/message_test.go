package repositories

import (
	"fmt"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_Record_And_Get_Sorted_Messages(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)

	repository := NewMessageRepository(db, slog.Default(), nil)
	chatID := "chat-1"
	content := "this message will self destruct in 5 seconds"
	at := time.Now().UTC()
	diskMessages := []DiskMessage{
		{ID: uuid.New(), ChatID: chatID, Sender: "Alice", Content: content, At: at},
		{ID: uuid.New(), ChatID: chatID, Sender: "Bob", Content: content, At: at.Add(1 * time.Minute)},
		{ID: uuid.New(), ChatID: chatID, Sender: "Clara", Content: content, At: at.Add(2 * time.Minute)},
	}

	sortedDiskMessages := make([]DiskMessage, len(diskMessages))
	copy(sortedDiskMessages, diskMessages)
	sort.Slice(sortedDiskMessages, func(i, j int) bool {
		return sortedDiskMessages[i].At.After(sortedDiskMessages[j].At)
	})
	for _, dm := range diskMessages {
		req.NoError(repository.StoreMessage(dm))
	}

	// When fetching messages
	fetchedMessages, _, err := repository.GetMessages(chatID, nil)
	req.NoError(err)

	// Then the messages come back newest first
	req.Len(fetchedMessages, len(sortedDiskMessages))
	for i := range fetchedMessages {
		req.Equal(sortedDiskMessages[i].ID, fetchedMessages[i].ID)
		req.Equal(sortedDiskMessages[i].Sender, fetchedMessages[i].Sender)
		req.True(sortedDiskMessages[i].At.Equal(fetchedMessages[i].At))
	}
}

func Test_Record_Multiple_Message_And_Limit(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)

	limit := 2
	repository := NewMessageRepository(db, slog.Default(), &limit)
	chatID := "chat-1"
	at := time.Now().UTC()
	for i := 0; i < 3; i++ {
		req.NoError(repository.StoreMessage(DiskMessage{
			ID:      uuid.New(),
			ChatID:  chatID,
			Sender:  fmt.Sprintf("user_%d", i),
			Content: "hello",
			At:      at.Add(time.Duration(i) * time.Minute),
		}))
	}

	fetchedMessages, _, err := repository.GetMessages(chatID, nil)
	req.NoError(err)
	req.Len(fetchedMessages, limit)
}

func Test_MessageRepository_Pagination(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)

	limit := 4
	repo := NewMessageRepository(db, slog.Default(), &limit)
	chatID := "chat-42"
	now := time.Now().UTC()

	// 10 messages, oldest to newest
	for i := 1; i <= 10; i++ {
		req.NoError(repo.StoreMessage(DiskMessage{
			ID:      uuid.New(),
			ChatID:  chatID,
			Sender:  fmt.Sprintf("user_%d", i),
			Content: fmt.Sprintf("message %d", i),
			At:      now.Add(time.Duration(i) * time.Minute),
		}))
	}

	// First page: the 4 newest
	page1, cursor, err := repo.GetMessages(chatID, nil)
	req.NoError(err)
	req.Len(page1, 4)
	req.Equal("message 10", page1[0].Content)
	req.Equal("message 7", page1[3].Content)
	req.NotNil(cursor)

	// Second page resumes right after the cursor
	page2, cursor2, err := repo.GetMessages(chatID, cursor)
	req.NoError(err)
	req.Len(page2, 4)
	req.Equal("message 6", page2[0].Content)
	req.Equal("message 3", page2[3].Content)

	// Last page holds the remainder
	page3, _, err := repo.GetMessages(chatID, cursor2)
	req.NoError(err)
	req.Len(page3, 2)
	req.Equal("message 2", page3[0].Content)
	req.Equal("message 1", page3[1].Content)
}

func Test_Messages_Are_Scoped_To_Their_Chat(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)

	repo := NewMessageRepository(db, slog.Default(), nil)
	now := time.Now().UTC()
	req.NoError(repo.StoreMessage(DiskMessage{ID: uuid.New(), ChatID: "chat-a", Sender: "alice", Content: "a", At: now}))
	req.NoError(repo.StoreMessage(DiskMessage{ID: uuid.New(), ChatID: "chat-b", Sender: "bob", Content: "b", At: now}))

	messages, _, err := repo.GetMessages("chat-a", nil)
	req.NoError(err)
	req.Len(messages, 1)
	req.Equal("a", messages[0].Content)
}
