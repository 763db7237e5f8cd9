package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/userdir/internal/model"
)

// maxFormBytes はPOSTボディの上限サイズ。
const maxFormBytes = 1 << 20

// listPath は登録・更新・削除後のリダイレクト先。
const listPath = "/users"

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	List(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id int) (*model.User, error)
	PrepareCreate() model.User
	Create(ctx context.Context, u model.User) error
	PrepareEdit(ctx context.Context, id int) (*model.User, error)
	// Edit は名前とメールアドレスのみ更新する。updated.IDは無視される。
	Edit(ctx context.Context, id int, updated model.User) (*model.User, error)
	PrepareDelete(ctx context.Context, id int) (*model.User, error)
	// Delete は該当なしでも成功を返す。
	Delete(ctx context.Context, id int) error
	Search(ctx context.Context, query string) ([]model.User, error)
}

// UserHandler はユーザーディレクトリのHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// userInput はPOSTボディ（フォームまたはJSON）から読み取ったユーザー情報。
type userInput struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Index はユーザー一覧を表示する。
// GET /users
func (h *UserHandler) Index(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	render(w, r, http.StatusOK, viewIndex, pageData{
		Title: "ユーザー一覧",
		Users: users,
		Model: users,
	})
}

// Details はユーザー詳細を表示する。
// GET /users/{id}
func (h *UserHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	u, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	render(w, r, http.StatusOK, viewDetails, pageData{
		Title: "ユーザー詳細",
		User:  u,
		Model: u,
	})
}

// CreateForm は登録フォームを表示する。
// GET /users/create
func (h *UserHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	u := h.service.PrepareCreate()

	render(w, r, http.StatusOK, viewForm, pageData{
		Title:  "ユーザー登録",
		User:   &u,
		Action: "/users/create",
		Model:  u,
	})
}

// Create はユーザーを登録し、一覧へリダイレクトする。
// POST /users/create
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := decodeUserInput(w, r, true)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	u := model.User{ID: in.ID, Name: in.Name, Email: in.Email}
	if err := h.service.Create(r.Context(), u); err != nil {
		handleServiceError(w, r, err)
		return
	}

	http.Redirect(w, r, listPath, http.StatusFound)
}

// EditForm は編集フォームを表示する。
// GET /users/{id}/edit
func (h *UserHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	u, err := h.service.PrepareEdit(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	render(w, r, http.StatusOK, viewForm, pageData{
		Title:   "ユーザー編集",
		User:    u,
		Action:  fmt.Sprintf("/users/%d/edit", u.ID),
		Editing: true,
		Model:   u,
	})
}

// Edit はユーザーの名前とメールアドレスを更新し、一覧へリダイレクトする。
// POST /users/{id}/edit
func (h *UserHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	in, err := decodeUserInput(w, r, false)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if _, err := h.service.Edit(r.Context(), id, model.User{ID: id, Name: in.Name, Email: in.Email}); err != nil {
		handleServiceError(w, r, err)
		return
	}

	http.Redirect(w, r, listPath, http.StatusFound)
}

// DeleteConfirm は削除確認画面を表示する。
// GET /users/{id}/delete
func (h *UserHandler) DeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	u, err := h.service.PrepareDelete(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	render(w, r, http.StatusOK, viewDelete, pageData{
		Title: "ユーザー削除",
		User:  u,
		Model: u,
	})
}

// Delete はユーザーを削除し、一覧へリダイレクトする。
// 該当ユーザーがいない場合もリダイレクトする。
// POST /users/{id}/delete
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}

	http.Redirect(w, r, listPath, http.StatusFound)
}

// Search は名前またはメールアドレスで検索した結果を表示する。
// GET /users/search?q={text}
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	users, err := h.service.Search(r.Context(), query)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	render(w, r, http.StatusOK, viewIndex, pageData{
		Title: "検索結果",
		Query: query,
		Users: users,
		Model: users,
	})
}

// userIDParam はURLの{id}を整数として取得する。
// 解釈できない場合は404を書き込み、falseを返す。
func userIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		writeAPIError(w, r, http.StatusNotFound, newUnknownUserPathError(raw))
		return 0, false
	}
	return id, true
}

// decodeUserInput はPOSTボディからユーザー情報を読み取る。
// Content-Typeがapplication/jsonの場合はJSON、それ以外はフォームとして解釈する。
// withIDがfalseの場合、フォームのidは読み取らない。フォームのidが空なら0とする。
func decodeUserInput(w http.ResponseWriter, r *http.Request, withID bool) (userInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	var in userInput
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return userInput{}, model.NewInvalidInputError("リクエストボディをJSONとして解釈できません")
		}
		if !withID {
			in.ID = 0
		}
		return in, nil
	}

	if err := r.ParseForm(); err != nil {
		return userInput{}, model.NewInvalidInputError("フォームを解釈できません")
	}
	in.Name = r.PostForm.Get("name")
	in.Email = r.PostForm.Get("email")

	if withID {
		if raw := strings.TrimSpace(r.PostForm.Get("id")); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil {
				return userInput{}, model.NewInvalidInputError("idは整数で指定してください")
			}
			in.ID = id
		}
	}
	return in, nil
}
