package services

import (
	"chat-relay/errors"
	"chat-relay/moderation"
	"chat-relay/repositories"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
)

type IMessageService interface {
	Send(senderID, chatID, content string) (MessageView, error)
	List(requesterID, chatID string, cursor *string) ([]MessageView, *string, error)
}

// MessageView is a stored message with its sender and chat populated, the
// shape the client re-emits on the socket after a successful send.
type MessageView struct {
	Message repositories.DiskMessage
	Sender  repositories.User
	Chat    ChatView
}

type MessageService struct {
	messageRepository repositories.IMessageRepository
	chatRepository    repositories.IChatRepository
	userRepository    repositories.IUserRepository
	moderator         *moderation.Moderator
}

func NewMessageService(messageRepo repositories.IMessageRepository,
	chatRepo repositories.IChatRepository, userRepo repositories.IUserRepository,
	moderator *moderation.Moderator) *MessageService {
	return &MessageService{
		messageRepository: messageRepo,
		chatRepository:    chatRepo,
		userRepository:    userRepo,
		moderator:         moderator,
	}
}

// Send validates membership, masks blacklisted words, tags the detected
// language, persists the message, and bumps the chat's latest-message
// pointer. The relay is not involved: delivery happens when the client
// emits the stored message on the socket.
func (s *MessageService) Send(senderID, chatID, content string) (MessageView, error) {
	chat, err := s.chatRepository.GetChat(chatID)
	if err != nil {
		return MessageView{}, err
	}
	if !chat.HasMember(senderID) {
		return MessageView{}, errors.ErrNotChatMember
	}

	sender, err := s.userRepository.GetUserByID(senderID)
	if err != nil {
		return MessageView{}, err
	}

	censored := s.moderator.Censor(content)
	info := whatlanggo.Detect(censored)

	message := repositories.DiskMessage{
		ID:      uuid.New(),
		ChatID:  chatID,
		Sender:  senderID,
		Content: censored,
		Lang:    whatlanggo.LangToString(info.Lang),
		At:      time.Now().UTC(),
	}
	if err := s.messageRepository.StoreMessage(message); err != nil {
		return MessageView{}, err
	}

	chat.LatestMessageID = message.ID.String()
	if err := s.chatRepository.UpdateChat(chat); err != nil {
		return MessageView{}, err
	}

	chatView, err := s.populateChat(chat)
	if err != nil {
		return MessageView{}, err
	}
	return MessageView{Message: message, Sender: sender, Chat: chatView}, nil
}

// List returns a page of a chat's history, newest first, for members only.
func (s *MessageService) List(requesterID, chatID string, cursor *string) ([]MessageView, *string, error) {
	chat, err := s.chatRepository.GetChat(chatID)
	if err != nil {
		return nil, nil, err
	}
	if !chat.HasMember(requesterID) {
		return nil, nil, errors.ErrNotChatMember
	}

	messages, next, err := s.messageRepository.GetMessages(chatID, cursor)
	if err != nil {
		return nil, nil, err
	}

	chatView, err := s.populateChat(chat)
	if err != nil {
		return nil, nil, err
	}

	views := make([]MessageView, 0, len(messages))
	for _, message := range messages {
		sender, err := s.userRepository.GetUserByID(message.Sender)
		if err != nil {
			return nil, nil, err
		}
		views = append(views, MessageView{Message: message, Sender: sender, Chat: chatView})
	}
	return views, next, nil
}

func (s *MessageService) populateChat(chat repositories.Chat) (ChatView, error) {
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
