package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vunes/poll/internal/core/ports"
)

type Handlers struct {
	Auth          *AuthHandler
	Polls         *PollHandler
	Votes         *VoteHandler
	Users         *UserHandler
	Notifications *NotificationHandler
	AuthService   ports.AuthService
}

func NewHandler(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	authenticated := Authenticator(h.AuthService)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.Auth.SignUp)
			r.Post("/signin", h.Auth.SignIn)
			r.With(authenticated).Get("/me", h.Auth.Me)
		})

		r.Route("/polls", func(r chi.Router) {
			r.Get("/", h.Polls.ListPolls)
			r.Get("/{id}", h.Polls.GetPoll)

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Post("/", h.Polls.CreatePoll)
				r.Put("/{id}", h.Polls.UpdatePoll)
				r.Delete("/{id}", h.Polls.DeletePoll)
				r.Post("/{id}/vote", h.Votes.VoteOnPoll)
				r.Get("/{id}/my-vote", h.Votes.GetMyVote)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authenticated)
			r.Get("/profile", h.Users.Profile)
			r.Put("/profile", h.Users.UpdateProfile)
			r.Get("/polls", h.Users.MyPolls)
			r.Get("/votes", h.Users.MyVotedPolls)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(authenticated)
			r.Get("/", h.Notifications.List)
			r.Patch("/{id}/read", h.Notifications.MarkRead)
			r.Post("/read-all", h.Notifications.MarkAllRead)
		})
	})

	return r
}
