package main

import (
	"errors"
	"net/http"

	"finitefield.org/folio-web/internal/backend"
	"finitefield.org/folio-web/internal/chat"
	handlersPkg "finitefield.org/folio-web/internal/handlers"
	mw "finitefield.org/folio-web/internal/middleware"
)

type chatView struct {
	Lang      string
	CSRFToken string
	Chat      handlersPkg.ChatData
}

// ChatHandler sends one question and renders the updated transcript.
func (a *app) ChatHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	_, err := a.chat.Ask(r.Context(), &sess.Chat, r.PostFormValue("query"))
	if !errors.Is(err, backend.ErrEmptyQuery) {
		// failures still append the apology, so the transcript changed
		sess.MarkDirty()
	}
	a.renderChat(w, r)
}

// ChatResetHandler clears the conversation.
func (a *app) ChatResetHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	sess.Chat.Reset()
	sess.MarkDirty()
	a.renderChat(w, r)
}

func (a *app) renderChat(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "chat_transcript", chatView{
		Lang:      mw.Lang(r),
		CSRFToken: mw.CSRFToken(r),
		Chat:      a.chatData(r),
	})
}

func (a *app) chatData(r *http.Request) handlersPkg.ChatData {
	return handlersPkg.ChatData{
		Greeting: chat.Greeting(""),
		Messages: mw.GetSession(r).Chat.Messages,
	}
}
