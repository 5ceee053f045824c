package httpapi

import (
	"chat-relay/repositories"
	"chat-relay/services"
)

// Wire shapes mirror the field names the socket payloads use, so a chat or
// message fetched over REST can be re-emitted on the websocket unchanged.

type userJSON struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Pic   string `json:"pic,omitempty"`
	Token string `json:"token,omitempty"`
}

type chatJSON struct {
	ID            string       `json:"_id"`
	ChatName      string       `json:"chatName"`
	IsGroupChat   bool         `json:"isGroupChat"`
	Users         []userJSON   `json:"users"`
	LatestMessage *messageJSON `json:"latestMessage,omitempty"`
	GroupAdmin    *userJSON    `json:"groupAdmin,omitempty"`
}

type messageJSON struct {
	ID      string   `json:"_id"`
	Sender  userJSON `json:"sender"`
	Content string   `json:"content"`
	Lang    string   `json:"lang,omitempty"`
	Chat    chatJSON `json:"chat"`
	SentAt  string   `json:"createdAt"`
}

func toUserJSON(u repositories.User) userJSON {
	return userJSON{ID: u.ID, Name: u.Name, Email: u.Email, Pic: u.Pic}
}

func toChatJSON(view services.ChatView) chatJSON {
	users := make([]userJSON, 0, len(view.Users))
	var admin *userJSON
	for _, u := range view.Users {
		ju := toUserJSON(u)
		users = append(users, ju)
		if view.Chat.GroupAdmin == u.ID {
			admin = &ju
		}
	}
	return chatJSON{
		ID:          view.Chat.ID,
		ChatName:    view.Chat.Name,
		IsGroupChat: view.Chat.IsGroup,
		Users:       users,
		GroupAdmin:  admin,
	}
}

func toMessageJSON(view services.MessageView) messageJSON {
	return messageJSON{
		ID:      view.Message.ID.String(),
		Sender:  toUserJSON(view.Sender),
		Content: view.Message.Content,
		Lang:    view.Message.Lang,
		Chat:    toChatJSON(view.Chat),
		SentAt:  view.Message.At.Format("2006-01-02T15:04:05.000Z07:00"),
	}
}
