package test

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus/hooks/test"

	handlers "todoforum/internal/handler"
	"todoforum/internal/session"
)

var (
	alice = session.Identity{UserID: 2, Username: "alice"}
	root  = session.Identity{UserID: 1, Username: "root", Admin: true}
)

type mocks struct {
	auth        *MockAuthService
	todo        *MockTodoService
	forum       *MockForumService
	leaderboard *MockLeaderboardService
	user        *MockUserService
}

func newHandlers() (*handlers.Handlers, *mocks) {
	m := &mocks{
		auth:        new(MockAuthService),
		todo:        new(MockTodoService),
		forum:       new(MockForumService),
		leaderboard: new(MockLeaderboardService),
		user:        new(MockUserService),
	}
	log, _ := test.NewNullLogger()

	h := &handlers.Handlers{
		AuthService:        m.auth,
		TodoService:        m.todo,
		ForumService:       m.forum,
		LeaderboardService: m.leaderboard,
		UserService:        m.user,
		Sessions:           session.NewManager("test-secret", time.Hour, false),
		BirthdateLogin:     true,
		Log:                log,
		Validate:           validator.New(),
	}
	return h, m
}

// asUser attaches an identity the way the session gate would.
func asUser(req *http.Request, id session.Identity) *http.Request {
	return req.WithContext(session.WithIdentity(req.Context(), id))
}

func serve(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}
