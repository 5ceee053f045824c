package services

import (
	"chat-relay/errors"
	"chat-relay/repositories"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IChatService interface {
	AccessChat(userID, otherUserID string) (ChatView, error)
	FetchChats(userID string) ([]ChatView, error)
	CreateGroup(adminID, name string, memberIDs []string) (ChatView, error)
	RenameGroup(userID, chatID, name string) (ChatView, error)
	AddToGroup(requesterID, chatID, userID string) (ChatView, error)
	RemoveFromGroup(requesterID, chatID, userID string) (ChatView, error)
}

// ChatView is a chat with its member list populated, ready for the API
// layer to serialize into the collaborator wire shape.
type ChatView struct {
	Chat  repositories.Chat
	Users []repositories.User
}

type ChatService struct {
	chatRepository repositories.IChatRepository
	userRepository repositories.IUserRepository
}

func NewChatService(chatRepo repositories.IChatRepository, userRepo repositories.IUserRepository) *ChatService {
	return &ChatService{chatRepository: chatRepo, userRepository: userRepo}
}

// AccessChat returns the one-to-one chat between two users, creating it on
// first contact.
func (s *ChatService) AccessChat(userID, otherUserID string) (ChatView, error) {
	other, err := s.userRepository.GetUserByID(otherUserID)
	if err != nil {
		return ChatView{}, err
	}

	existing, found, err := s.chatRepository.FindDirectChat(userID, otherUserID)
	if err != nil {
		return ChatView{}, err
	}
	if found {
		return s.populate(existing)
	}

	now := time.Now().UTC()
	chat := repositories.Chat{
		ID:        uuid.NewString(),
		Name:      other.Name,
		IsGroup:   false,
		Users:     []string{userID, otherUserID},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.chatRepository.CreateChat(chat); err != nil {
		return ChatView{}, err
	}
	return s.populate(chat)
}

func (s *ChatService) FetchChats(userID string) ([]ChatView, error) {
	chats, err := s.chatRepository.ListChatsForUser(userID)
	if err != nil {
		return nil, err
	}

	views := make([]ChatView, 0, len(chats))
	for _, chat := range chats {
		view, err := s.populate(chat)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// CreateGroup creates a group chat with the requester as admin. A group
// needs at least three members including the admin, as the original API
// required.
func (s *ChatService) CreateGroup(adminID, name string, memberIDs []string) (ChatView, error) {
	members := lo.Uniq(append(memberIDs, adminID))
	if len(members) < 3 {
		return ChatView{}, errors.ErrGroupTooSmall
	}

	for _, id := range members {
		if _, err := s.userRepository.GetUserByID(id); err != nil {
			return ChatView{}, err
		}
	}

	now := time.Now().UTC()
	chat := repositories.Chat{
		ID:         uuid.NewString(),
		Name:       name,
		IsGroup:    true,
		Users:      members,
		GroupAdmin: adminID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.chatRepository.CreateChat(chat); err != nil {
		return ChatView{}, err
	}
	return s.populate(chat)
}

func (s *ChatService) RenameGroup(userID, chatID, name string) (ChatView, error) {
	chat, err := s.chatRepository.GetChat(chatID)
	if err != nil {
		return ChatView{}, err
	}
	if !chat.HasMember(userID) {
		return ChatView{}, errors.ErrNotChatMember
	}

	chat.Name = name
	if err := s.chatRepository.UpdateChat(chat); err != nil {
		return ChatView{}, err
	}
	return s.populate(chat)
}

func (s *ChatService) AddToGroup(requesterID, chatID, userID string) (ChatView, error) {
	chat, err := s.chatRepository.GetChat(chatID)
	if err != nil {
		return ChatView{}, err
	}
	if chat.GroupAdmin != requesterID {
		return ChatView{}, errors.ErrNotGroupAdmin
	}
	if _, err := s.userRepository.GetUserByID(userID); err != nil {
		return ChatView{}, err
	}

	if !chat.HasMember(userID) {
		chat.Users = append(chat.Users, userID)
		if err := s.chatRepository.UpdateChat(chat); err != nil {
			return ChatView{}, err
		}
	}
	return s.populate(chat)
}

// RemoveFromGroup drops a member. The admin can remove anyone; a regular
// member can only remove themselves (leave the group).
func (s *ChatService) RemoveFromGroup(requesterID, chatID, userID string) (ChatView, error) {
	chat, err := s.chatRepository.GetChat(chatID)
	if err != nil {
		return ChatView{}, err
	}
	if chat.GroupAdmin != requesterID && requesterID != userID {
		return ChatView{}, errors.ErrNotGroupAdmin
	}

	chat.Users = lo.Without(chat.Users, userID)
	if err := s.chatRepository.UpdateChat(chat); err != nil {
		return ChatView{}, err
	}
	return s.populate(chat)
}

func (s *ChatService) populate(chat repositories.Chat) (ChatView, error) {
	users := make([]repositories.User, 0, len(chat.Users))
	for _, id := range chat.Users {
		user, err := s.userRepository.GetUserByID(id)
		if err != nil {
			return ChatView{}, err
		}
		users = append(users, user)
	}
	return ChatView{Chat: chat, Users: users}, nil
}
